// Package store provides the durable document store for caller records,
// sessions, events and posts.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"                      // SQLite driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver

	"github.com/mwdirectory/mwtrack-go/config"
)

// Database wraps the underlying connection.
type Database struct {
	Conn     *sql.DB
	UseTurso bool
}

// NewDatabase opens the store connection. Turso is preferred when
// credentials are configured; local SQLite is the fallback.
func NewDatabase() (*Database, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	tursoURL := os.Getenv("TURSO_DATABASE_URL")
	tursoToken := os.Getenv("TURSO_AUTH_TOKEN")

	// Try Turso first if credentials are available
	if tursoURL != "" && tursoToken != "" {
		connStr := tursoURL + "?authToken=" + tursoToken
		conn, err = sql.Open("libsql", connStr)
		if err == nil {
			if pingErr := conn.Ping(); pingErr == nil {
				useTurso = true
			} else {
				log.Printf("WARNING: Turso ping failed, falling back to SQLite: %v", pingErr)
				conn.Close()
				conn = nil
			}
		}
	}

	// Fallback to SQLite if Turso failed or not configured
	if conn == nil {
		dbDir := filepath.Dir(config.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}

		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("SQLite database ping failed: %w", err)
		}
		useTurso = false
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)

	db := &Database{Conn: conn, UseTurso: useTurso}
	if err := db.ensureSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection.
func (db *Database) Close() error {
	if db.Conn != nil {
		return db.Conn.Close()
	}
	return nil
}

// GetConnectionInfo returns a string describing the database connection.
func (db *Database) GetConnectionInfo() string {
	if db.UseTurso {
		return "Turso"
	}
	return "SQLite"
}

// Ping verifies the connection is alive.
func (db *Database) Ping() error {
	if db.Conn == nil {
		return fmt.Errorf("no database connection")
	}
	return db.Conn.Ping()
}
