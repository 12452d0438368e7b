package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwdirectory/mwtrack-go/models"
	"github.com/mwdirectory/mwtrack-go/tracker"
)

type nullStore struct{}

func (nullStore) GetCaller(ip string) (*models.CallerRecord, error)      { return nil, nil }
func (nullStore) CreateCaller(rec *models.CallerRecord) error            { return nil }
func (nullStore) RecordVisit(ip, ua, device string, now time.Time) error { return nil }
func (nullStore) IncrementPreference(ip, kind, label string) error       { return nil }
func (nullStore) SetTopCategory(ip, label string) error                  { return nil }
func (nullStore) SetScalarPreference(ip, kind, value string) error       { return nil }
func (nullStore) LinkUser(ip, userID, email string, now time.Time) error { return nil }
func (nullStore) AppendEvent(ev *models.EventRow) error                  { return nil }
func (nullStore) UpsertSessionSummary(s *models.SessionSummary) error    { return nil }
func (nullStore) RecordSearch(s *models.SearchRow) error                 { return nil }

type staticResolver struct{}

func (staticResolver) Resolve(ctx context.Context, ip string) (*models.Identity, error) {
	return &models.Identity{IP: ip, Geo: models.UnknownGeo()}, nil
}

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(nullStore{}, staticResolver{}, nil)
	result := tr.Init(context.Background(), "203.0.113.5", &models.VisitRequest{}, tracker.NewSignalBus())
	require.NotNil(t, result)
	return tr
}

func strPtr(s string) *string { return &s }

func TestProcessEventsDispatch(t *testing.T) {
	tr := newTestTracker(t)
	p := NewProcessor(tr.Session().ID, tr)

	p.ProcessEvents([]models.Event{
		{Type: models.EventCategoryClick, Value: "slots"},
		{Type: models.EventCategoryClick, Value: "slots"},
		{Type: models.EventFilterClick, Amenity: strPtr("buffet")},
		{Type: models.EventFilterClick, Rating: strPtr("4")},
		{Type: models.EventFilterClick, Distance: strPtr("25mi")},
		{Type: models.EventClick, Value: "hero-banner"},
	})
	tr.Wait()

	prefs := tr.Preferences()
	assert.Equal(t, 2, prefs.Categories["slots"])
	assert.Equal(t, "slots", prefs.TopCategory)
	assert.Equal(t, 1, prefs.Amenities["buffet"])
	assert.Equal(t, "4", prefs.Rating)
	assert.Equal(t, "25mi", prefs.Distance)
	assert.Equal(t, 1, prefs.Clicks["hero-banner"])
}

func TestProcessEventsSearch(t *testing.T) {
	tr := newTestTracker(t)
	p := NewProcessor(tr.Session().ID, tr)

	p.ProcessEvents([]models.Event{
		{Type: models.EventSearch, Search: &models.SearchQuery{Query: "poker rooms", SearchType: "Business"}},
	})
	tr.Wait()

	require.Len(t, tr.Session().Searches, 1)
	assert.Equal(t, "poker rooms", tr.Session().Searches[0].Query)
}

func TestProcessEventsSkipsBadEvents(t *testing.T) {
	tr := newTestTracker(t)
	p := NewProcessor(tr.Session().ID, tr)

	p.ProcessEvents([]models.Event{
		{Type: "Mystery", Value: "x"},
		{Type: models.EventSearch},      // search without a query
		{Type: models.EventFilterClick}, // filter without an attribute
		{Type: models.EventCategoryClick, Value: "bingo"},
	})
	tr.Wait()

	// The bad events are skipped, the rest of the batch still lands
	assert.Equal(t, 1, tr.Preferences().Categories["bingo"])
	assert.Empty(t, tr.Session().Searches)
}

func TestProcessEventsPageView(t *testing.T) {
	tr := newTestTracker(t)
	p := NewProcessor(tr.Session().ID, tr)

	before := tr.Session().PageViews
	p.ProcessEvents([]models.Event{
		{Type: models.EventPageView, Details: map[string]any{"path": "/mw"}},
	})
	tr.Wait()

	assert.Equal(t, before+1, tr.Session().PageViews)
}
