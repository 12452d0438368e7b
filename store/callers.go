package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mwdirectory/mwtrack-go/models"
)

// GetCaller looks up the caller record for an identity key. Returns
// (nil, nil) when the key has never been seen.
func (c *Client) GetCaller(ip string) (*models.CallerRecord, error) {
	query := `SELECT ip, visit_count, first_seen, last_visit, user_agent, device,
	                 country, region, city, latitude, longitude,
	                 top_category, rating_preference, distance_preference,
	                 last_user_id, last_user_email
	          FROM callers WHERE ip = ? LIMIT 1`

	row := c.db.Conn.QueryRow(query, ip)

	var rec models.CallerRecord
	var userAgent, device, country, region, city sql.NullString
	var topCategory, rating, distance, lastUserID, lastUserEmail sql.NullString

	err := row.Scan(&rec.IP, &rec.VisitCount, &rec.FirstSeen, &rec.LastVisit,
		&userAgent, &device, &country, &region, &city,
		&rec.Geo.Latitude, &rec.Geo.Longitude,
		&topCategory, &rating, &distance, &lastUserID, &lastUserEmail)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan caller: %w", err)
	}

	rec.UserAgent = userAgent.String
	rec.Device = device.String
	rec.Geo.Country = country.String
	rec.Geo.Region = region.String
	rec.Geo.City = city.String
	rec.TopCategory = topCategory.String
	rec.Rating = rating.String
	rec.Distance = distance.String
	rec.LastUserID = lastUserID.String
	rec.LastUserEmail = lastUserEmail.String

	return &rec, nil
}

// CreateCaller inserts a new caller record with visit count 1. Two
// simultaneous first visits from the same identity can race here; last
// writer wins, which is the accepted behavior.
func (c *Client) CreateCaller(rec *models.CallerRecord) error {
	query := `INSERT OR REPLACE INTO callers
	          (ip, visit_count, first_seen, last_visit, user_agent, device,
	           country, region, city, latitude, longitude)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := c.db.Conn.Exec(query, rec.IP, rec.VisitCount, rec.FirstSeen,
		rec.LastVisit, rec.UserAgent, rec.Device,
		rec.Geo.Country, rec.Geo.Region, rec.Geo.City,
		rec.Geo.Latitude, rec.Geo.Longitude)
	if err != nil {
		return fmt.Errorf("failed to create caller: %w", err)
	}

	return nil
}

// RecordVisit increments the visit count and refreshes the last-visit
// timestamp for a returning caller.
func (c *Client) RecordVisit(ip, userAgent, device string, now time.Time) error {
	query := `UPDATE callers
	          SET visit_count = visit_count + 1, last_visit = ?, user_agent = ?, device = ?
	          WHERE ip = ?`

	_, err := c.db.Conn.Exec(query, now, userAgent, device, ip)
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}

	return nil
}

// IncrementPreference bumps one frequency-map entry on the caller record.
func (c *Client) IncrementPreference(ip, kind, label string) error {
	query := `INSERT INTO caller_preferences (ip, kind, label, count)
	          VALUES (?, ?, ?, 1)
	          ON CONFLICT(ip, kind, label) DO UPDATE SET count = count + 1`

	_, err := c.db.Conn.Exec(query, ip, kind, label)
	if err != nil {
		return fmt.Errorf("failed to increment preference: %w", err)
	}

	return nil
}

// GetPreferenceCounts returns one frequency map for a caller.
func (c *Client) GetPreferenceCounts(ip, kind string) (map[string]int, error) {
	query := `SELECT label, count FROM caller_preferences WHERE ip = ? AND kind = ?`

	rows, err := c.db.Conn.Query(query, ip, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		counts[label] = count
	}

	return counts, rows.Err()
}

// SetTopCategory overwrites the derived most-frequent-category field.
func (c *Client) SetTopCategory(ip, label string) error {
	query := `UPDATE callers SET top_category = ? WHERE ip = ?`

	_, err := c.db.Conn.Exec(query, label, ip)
	if err != nil {
		return fmt.Errorf("failed to set top category: %w", err)
	}

	return nil
}

// SetScalarPreference overwrites a single-value preference. Last value
// wins; no history is kept.
func (c *Client) SetScalarPreference(ip, kind, value string) error {
	var column string
	switch kind {
	case "rating":
		column = "rating_preference"
	case "distance":
		column = "distance_preference"
	default:
		return fmt.Errorf("unknown scalar preference kind: %s", kind)
	}

	query := fmt.Sprintf(`UPDATE callers SET %s = ? WHERE ip = ?`, column)

	_, err := c.db.Conn.Exec(query, value, ip)
	if err != nil {
		return fmt.Errorf("failed to set scalar preference: %w", err)
	}

	return nil
}

// LinkUser associates an identity key with an authenticated user in both
// directions: the user_mappings table carries the user's linked IPs, and
// the caller row carries the last authenticated user.
func (c *Client) LinkUser(ip, userID, email string, now time.Time) error {
	query := `INSERT INTO user_mappings (user_id, ip, linked_at)
	          VALUES (?, ?, ?)
	          ON CONFLICT(user_id, ip) DO UPDATE SET linked_at = excluded.linked_at`

	if _, err := c.db.Conn.Exec(query, userID, ip, now); err != nil {
		return fmt.Errorf("failed to link user mapping: %w", err)
	}

	query = `UPDATE callers SET last_user_id = ?, last_user_email = ? WHERE ip = ?`
	if _, err := c.db.Conn.Exec(query, userID, email, ip); err != nil {
		return fmt.Errorf("failed to update caller last user: %w", err)
	}

	return nil
}

// GetLinkedIPs returns the append-only set of IPs seen for a user.
func (c *Client) GetLinkedIPs(userID string) ([]string, error) {
	query := `SELECT ip FROM user_mappings WHERE user_id = ? ORDER BY linked_at`

	rows, err := c.db.Conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked IPs: %w", err)
	}
	defer rows.Close()

	var ips []string
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, fmt.Errorf("failed to scan linked IP: %w", err)
		}
		ips = append(ips, ip)
	}

	return ips, rows.Err()
}

// GetLinkedUsers returns the append-only set of user IDs seen for an IP.
func (c *Client) GetLinkedUsers(ip string) ([]string, error) {
	query := `SELECT user_id FROM user_mappings WHERE ip = ? ORDER BY linked_at`

	rows, err := c.db.Conn.Query(query, ip)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan linked user: %w", err)
		}
		users = append(users, userID)
	}

	return users, rows.Err()
}
