package store

import "fmt"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS callers (
		ip TEXT PRIMARY KEY,
		visit_count INTEGER NOT NULL DEFAULT 1,
		first_seen DATETIME NOT NULL,
		last_visit DATETIME NOT NULL,
		user_agent TEXT,
		device TEXT,
		country TEXT,
		region TEXT,
		city TEXT,
		latitude REAL NOT NULL DEFAULT 0,
		longitude REAL NOT NULL DEFAULT 0,
		top_category TEXT,
		rating_preference TEXT,
		distance_preference TEXT,
		last_user_id TEXT,
		last_user_email TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS caller_preferences (
		ip TEXT NOT NULL,
		kind TEXT NOT NULL,
		label TEXT NOT NULL,
		count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (ip, kind, label)
	)`,
	`CREATE TABLE IF NOT EXISTS user_mappings (
		user_id TEXT NOT NULL,
		ip TEXT NOT NULL,
		linked_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, ip)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		caller_ip TEXT,
		start_time DATETIME NOT NULL,
		last_activity DATETIME NOT NULL,
		page_views INTEGER NOT NULL DEFAULT 0,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		searches INTEGER NOT NULL DEFAULT 0,
		interactions INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		caller_ip TEXT,
		event_type TEXT NOT NULL,
		details TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		session_id TEXT,
		caller_ip TEXT,
		query TEXT NOT NULL,
		search_type TEXT,
		category TEXT,
		rating TEXT,
		radius TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		body TEXT,
		video_url TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at)`,
}

// ensureSchema creates missing tables. Existing tables are left untouched;
// there is no migration strategy.
func (db *Database) ensureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
