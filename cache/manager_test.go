package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwdirectory/mwtrack-go/config"
	"github.com/mwdirectory/mwtrack-go/tracker"
)

func TestSetAndGetSession(t *testing.T) {
	m := NewManager()

	entry := &Entry{Signals: tracker.NewSignalBus()}
	m.SetSession("sess-1", entry)

	got, found := m.GetSession("sess-1")
	require.True(t, found)
	assert.Same(t, entry, got)
	assert.Equal(t, 1, m.SessionCount())

	_, found = m.GetSession("sess-unknown")
	assert.False(t, found)
}

func TestExpiredSessionIsMissing(t *testing.T) {
	m := NewManager()

	entry := &Entry{Signals: tracker.NewSignalBus()}
	m.SetSession("sess-1", entry)

	m.mu.Lock()
	entry.LastActivity = time.Now().Add(-config.SessionTTL - time.Minute)
	m.mu.Unlock()

	_, found := m.GetSession("sess-1")
	assert.False(t, found)

	removed := m.cleanup()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, m.SessionCount())
}

func TestGetRefreshesActivity(t *testing.T) {
	m := NewManager()

	entry := &Entry{Signals: tracker.NewSignalBus()}
	m.SetSession("sess-1", entry)

	m.mu.Lock()
	entry.LastActivity = time.Now().Add(-config.SessionTTL + time.Minute)
	m.mu.Unlock()

	_, found := m.GetSession("sess-1")
	require.True(t, found)

	m.mu.RLock()
	refreshed := entry.LastActivity
	m.mu.RUnlock()
	assert.WithinDuration(t, time.Now(), refreshed, time.Second)
}

func TestEvictionAtCapacity(t *testing.T) {
	origMax := config.MaxSessions
	config.MaxSessions = 3
	defer func() { config.MaxSessions = origMax }()

	m := NewManager()
	for i := 0; i < 3; i++ {
		m.SetSession(fmt.Sprintf("sess-%d", i), &Entry{Signals: tracker.NewSignalBus()})
	}

	// Backdate sess-1 so it is the eviction candidate
	m.mu.Lock()
	m.sessions["sess-1"].LastActivity = time.Now().Add(-time.Hour)
	m.mu.Unlock()

	m.SetSession("sess-3", &Entry{Signals: tracker.NewSignalBus()})

	assert.Equal(t, 3, m.SessionCount())
	_, found := m.GetSession("sess-1")
	assert.False(t, found)
	_, found = m.GetSession("sess-3")
	assert.True(t, found)
}

func TestRemoveSession(t *testing.T) {
	m := NewManager()
	m.SetSession("sess-1", &Entry{Signals: tracker.NewSignalBus()})

	m.RemoveSession("sess-1")
	assert.Equal(t, 0, m.SessionCount())
}
