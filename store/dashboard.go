package store

import (
	"fmt"

	"github.com/mwdirectory/mwtrack-go/models"
)

// GetDashboardData computes the analytics dashboard summary for a date
// range. Dates are inclusive day strings (YYYY-MM-DD); empty bounds mean
// unbounded.
func (c *Client) GetDashboardData(startDate, endDate string) (*models.DashboardData, error) {
	where, args := dateRangeClause("start_time", startDate, endDate)

	data := &models.DashboardData{Countries: make(map[string]int)}

	query := `SELECT COUNT(*),
	                 COUNT(DISTINCT caller_ip),
	                 COALESCE(SUM(page_views), 0)
	          FROM sessions` + where
	err := c.db.Conn.QueryRow(query, args...).Scan(
		&data.Visitors.Total, &data.Visitors.Unique, &data.Visitors.Pageviews)
	if err != nil {
		return nil, fmt.Errorf("failed to query visitor totals: %w", err)
	}

	query = `SELECT COUNT(DISTINCT last_user_id) FROM callers WHERE last_user_id IS NOT NULL AND last_user_id != ''`
	if err := c.db.Conn.QueryRow(query).Scan(&data.Visitors.Registered); err != nil {
		return nil, fmt.Errorf("failed to query registered visitors: %w", err)
	}

	query = `SELECT COALESCE(NULLIF(country, ''), 'Unknown'), COUNT(*) FROM callers GROUP BY 1 ORDER BY 2 DESC`
	rows, err := c.db.Conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var country string
		var count int
		if err := rows.Scan(&country, &count); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		data.Countries[country] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	searchWhere, searchArgs := dateRangeClause("created_at", startDate, endDate)
	query = `SELECT query, COALESCE(search_type, ''), COUNT(*) AS n
	         FROM searches` + searchWhere + `
	         GROUP BY query, search_type ORDER BY n DESC LIMIT 5`
	searchRows, err := c.db.Conn.Query(query, searchArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top searches: %w", err)
	}
	defer searchRows.Close()
	for searchRows.Next() {
		var s models.DashboardSearch
		if err := searchRows.Scan(&s.Term, &s.Type, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		data.Searches = append(data.Searches, s)
	}

	return data, searchRows.Err()
}

func dateRangeClause(column, startDate, endDate string) (string, []any) {
	var clauses []string
	var args []any
	if startDate != "" {
		clauses = append(clauses, fmt.Sprintf("date(%s) >= date(?)", column))
		args = append(args, startDate)
	}
	if endDate != "" {
		clauses = append(clauses, fmt.Sprintf("date(%s) <= date(?)", column))
		args = append(args, endDate)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	if len(clauses) == 2 {
		where += " AND " + clauses[1]
	}
	return where, args
}
