// Package cache provides in-memory session state with TTL expiry.
package cache

import (
	"log"
	"sync"
	"time"

	"github.com/mwdirectory/mwtrack-go/config"
	"github.com/mwdirectory/mwtrack-go/tracker"
)

// Entry holds the live tracker and its auth signal bus for one session.
type Entry struct {
	Tracker      *tracker.Tracker
	Signals      *tracker.SignalBus
	LastActivity time.Time
}

// IsExpired reports whether the session has been idle past its TTL.
func (e *Entry) IsExpired() bool {
	return time.Since(e.LastActivity) > config.SessionTTL
}

// Manager owns the session-ID keyed map of live trackers.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Entry
}

// NewManager creates an empty session cache.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Entry),
	}
}

// SetSession stores a session entry, enforcing the session limit by
// evicting the oldest entry when full.
func (m *Manager) SetSession(sessionID string, entry *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= config.MaxSessions {
		m.evictOldestUnsafe()
	}

	entry.LastActivity = time.Now()
	m.sessions[sessionID] = entry
}

// GetSession retrieves a live session entry, refreshing its activity
// timestamp. Expired entries are treated as missing.
func (m *Manager) GetSession(sessionID string) (*Entry, bool) {
	m.mu.RLock()
	entry, found := m.sessions[sessionID]
	m.mu.RUnlock()

	if !found || entry.IsExpired() {
		return nil, false
	}

	m.mu.Lock()
	entry.LastActivity = time.Now()
	m.mu.Unlock()

	return entry, true
}

// RemoveSession drops a session entry.
func (m *Manager) RemoveSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// SessionCount returns the number of cached sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// evictOldestUnsafe assumes m.mu is already held.
func (m *Manager) evictOldestUnsafe() {
	var oldestID string
	var oldest time.Time
	for id, entry := range m.sessions {
		if oldestID == "" || entry.LastActivity.Before(oldest) {
			oldestID = id
			oldest = entry.LastActivity
		}
	}
	if oldestID != "" {
		delete(m.sessions, oldestID)
	}
}

// cleanup removes expired sessions and returns how many were dropped.
func (m *Manager) cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.sessions {
		if entry.IsExpired() {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine starts the background expiry sweep.
func StartCleanupRoutine(m *Manager) {
	go func() {
		ticker := time.NewTicker(config.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			if removed := m.cleanup(); removed > 0 {
				log.Printf("Cache cleanup removed %d expired sessions", removed)
			}
		}
	}()
}
