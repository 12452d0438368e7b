package store

import (
	"encoding/json"
	"fmt"

	"github.com/mwdirectory/mwtrack-go/models"
)

// UpsertSessionSummary writes the per-session summary document with merge
// semantics: an existing row is updated in place, not replaced wholesale.
func (c *Client) UpsertSessionSummary(s *models.SessionSummary) error {
	query := `INSERT INTO sessions
	          (id, caller_ip, start_time, last_activity, page_views, duration_seconds, searches, interactions)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET
	            last_activity = excluded.last_activity,
	            page_views = excluded.page_views,
	            duration_seconds = excluded.duration_seconds,
	            searches = excluded.searches,
	            interactions = excluded.interactions`

	_, err := c.db.Conn.Exec(query, s.SessionID, s.CallerIP, s.StartTime,
		s.LastActivity, s.PageViews, s.DurationSeconds, s.Searches, s.Interactions)
	if err != nil {
		return fmt.Errorf("failed to upsert session summary: %w", err)
	}

	return nil
}

// AppendEvent appends one entry to the per-session event log.
func (c *Client) AppendEvent(ev *models.EventRow) error {
	var details []byte
	if ev.Details != nil {
		var err error
		details, err = json.Marshal(ev.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal event details: %w", err)
		}
	}

	query := `INSERT INTO session_events (id, session_id, caller_ip, event_type, details, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := c.db.Conn.Exec(query, ev.ID, ev.SessionID, ev.CallerIP,
		ev.EventType, string(details), ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// RecordSearch appends one search log entry.
func (c *Client) RecordSearch(s *models.SearchRow) error {
	query := `INSERT INTO searches (id, session_id, caller_ip, query, search_type, category, rating, radius, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := c.db.Conn.Exec(query, s.ID, s.SessionID, s.CallerIP,
		s.Query.Query, s.Query.SearchType, s.Query.Category,
		s.Query.Rating, s.Query.Radius, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	return nil
}

// CountSessionEvents returns the number of logged events for a session.
func (c *Client) CountSessionEvents(sessionID string) (int, error) {
	query := `SELECT COUNT(*) FROM session_events WHERE session_id = ?`

	var count int
	if err := c.db.Conn.QueryRow(query, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count session events: %w", err)
	}

	return count, nil
}
