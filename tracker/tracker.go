// Package tracker implements the session tracker: caller identity
// resolution, per-session activity records, preference aggregation and
// best-effort mirroring of every mutation to the remote store.
package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwdirectory/mwtrack-go/geo"
	"github.com/mwdirectory/mwtrack-go/models"
	"github.com/mwdirectory/mwtrack-go/utils"
)

// Store is the remote document store contract the tracker depends on. It
// is injected at construction so tests can substitute a fake.
type Store interface {
	GetCaller(ip string) (*models.CallerRecord, error)
	CreateCaller(rec *models.CallerRecord) error
	RecordVisit(ip, userAgent, device string, now time.Time) error
	IncrementPreference(ip, kind, label string) error
	SetTopCategory(ip, label string) error
	SetScalarPreference(ip, kind, value string) error
	LinkUser(ip, userID, email string, now time.Time) error
	AppendEvent(ev *models.EventRow) error
	UpsertSessionSummary(s *models.SessionSummary) error
	RecordSearch(s *models.SearchRow) error
}

// AnalyticsSink receives a copy of every logged activity record.
type AnalyticsSink interface {
	Write(record map[string]any) error
}

// AuthSignals is the subscription interface for auth state changes. A nil
// user means signed out.
type AuthSignals interface {
	Subscribe(fn func(user *models.AuthUser))
}

// InitResult is the outcome of session initialization. PreviousVisits is
// set only for returning callers.
type InitResult struct {
	SessionID      string           `json:"sessionId"`
	Returning      bool             `json:"returning"`
	PreviousVisits *int             `json:"previousVisits,omitempty"`
	Identity       *models.Identity `json:"identity,omitempty"`
}

// Tracker owns all in-memory state for one session. The in-memory
// aggregates are authoritative for the session's lifetime; every mutation
// is mirrored to the store with fire-and-forget writes.
type Tracker struct {
	mu sync.Mutex

	store    Store
	resolver geo.Resolver
	sink     AnalyticsSink

	session  *models.Session
	prefs    *models.Preferences
	identity *models.Identity

	// categoryOrder remembers first-seen order of category labels so the
	// derived top category can tie-break deterministically.
	categoryOrder []string

	returning      bool
	previousVisits *int

	userID    string
	userEmail string

	pending sync.WaitGroup
}

// New creates a tracker with its collaborators injected. Two trackers
// built for the same page load are fully independent sessions.
func New(store Store, resolver geo.Resolver, sink AnalyticsSink) *Tracker {
	return &Tracker{
		store:    store,
		resolver: resolver,
		sink:     sink,
		prefs:    models.NewPreferences(),
	}
}

// Init runs the initialization protocol: resolve identity, look up or
// create the caller record, record one page view and subscribe to auth
// state changes. Each step is failure-isolated; a failed step is logged
// and the remaining steps still run.
func (t *Tracker) Init(ctx context.Context, ip string, req *models.VisitRequest, signals AuthSignals) *InitResult {
	now := time.Now().UTC()

	userAgent := ""
	if req.UserAgent != nil {
		userAgent = *req.UserAgent
	}

	t.mu.Lock()
	t.session = &models.Session{
		ID:           uuid.NewString(),
		StartTime:    now,
		LastActivity: now,
		Path:         req.Path,
		Referrer:     referrerOrDirect(req.Referrer),
		UserAgent:    userAgent,
	}
	t.mu.Unlock()

	// Identity resolution. On failure identity stays nil and all
	// identity-keyed remote operations become no-ops.
	identity, err := t.resolver.Resolve(ctx, ip)
	if err != nil {
		log.Printf("ERROR: Tracker - identity resolution failed for %s: %v", ip, err)
		identity = nil
	}
	t.mu.Lock()
	t.identity = identity
	t.mu.Unlock()

	// Caller record lookup/creation. The read-then-write sequence is not
	// atomic; simultaneous first visits race and last writer wins.
	if identity != nil {
		t.resolveCallerRecord(identity, userAgent, now)
	}

	// One page-view event for the load itself.
	t.LogEvent("pageview", map[string]any{
		"path":     req.Path,
		"referrer": referrerOrDirect(req.Referrer),
	})

	// Auth state subscription for the lifetime of the session.
	if signals != nil {
		signals.Subscribe(t.HandleAuthState)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return &InitResult{
		SessionID:      t.session.ID,
		Returning:      t.returning,
		PreviousVisits: t.previousVisits,
		Identity:       t.identity,
	}
}

func (t *Tracker) resolveCallerRecord(identity *models.Identity, userAgent string, now time.Time) {
	rec, err := t.store.GetCaller(identity.IP)
	if err != nil {
		log.Printf("ERROR: Tracker - caller lookup failed for %s: %v", identity.IP, err)
		return
	}

	device := GetDeviceInfo(userAgent)

	if rec != nil {
		prev := rec.VisitCount
		t.mu.Lock()
		t.returning = true
		t.previousVisits = &prev
		// Seed the derived top category from the stored aggregate.
		t.prefs.TopCategory = rec.TopCategory
		t.mu.Unlock()

		t.asyncWrite("record visit", func() error {
			return t.store.RecordVisit(identity.IP, userAgent, device, now)
		})
		return
	}

	newRec := &models.CallerRecord{
		IP:         identity.IP,
		VisitCount: 1,
		FirstSeen:  now,
		LastVisit:  now,
		UserAgent:  userAgent,
		Device:     device,
		Geo:        identity.Geo,
	}
	if err := t.store.CreateCaller(newRec); err != nil {
		log.Printf("ERROR: Tracker - caller creation failed for %s: %v", identity.IP, err)
	}
}

// RecordPreference records one preference signal. Counter kinds
// (category, amenity, click) increment a frequency map; category also
// recomputes the derived most-frequent category. Scalar kinds (rating,
// distance) overwrite, last value wins. The in-memory aggregate is
// updated synchronously and is authoritative; the remote mirror is
// fire-and-forget.
func (t *Tracker) RecordPreference(kind, value string) {
	t.mu.Lock()
	switch kind {
	case "category":
		if t.prefs.Categories[value] == 0 {
			t.categoryOrder = append(t.categoryOrder, value)
		}
		t.prefs.Categories[value]++
		t.prefs.TopCategory = t.mostFrequentCategory()
	case "amenity":
		t.prefs.Amenities[value]++
	case "click":
		t.prefs.Clicks[value]++
	case "rating":
		t.prefs.Rating = value
	case "distance":
		t.prefs.Distance = value
	default:
		t.mu.Unlock()
		log.Printf("WARNING: Tracker - unknown preference kind: %s", kind)
		return
	}
	ip := ""
	if t.identity != nil {
		ip = t.identity.IP
	}
	topCategory := t.prefs.TopCategory
	t.mu.Unlock()

	if ip != "" {
		switch kind {
		case "category", "amenity", "click":
			t.asyncWrite("increment preference", func() error {
				return t.store.IncrementPreference(ip, kind, value)
			})
			if kind == "category" {
				t.asyncWrite("set top category", func() error {
					return t.store.SetTopCategory(ip, topCategory)
				})
			}
		case "rating", "distance":
			t.asyncWrite("set scalar preference", func() error {
				return t.store.SetScalarPreference(ip, kind, value)
			})
		}
	}

	t.LogEvent(kind+"_preference", map[string]any{"value": value})
}

// RecordSearch records one search submission.
func (t *Tracker) RecordSearch(q models.SearchQuery) {
	now := time.Now().UTC()

	t.mu.Lock()
	t.session.Searches = append(t.session.Searches, q)
	sessionID := t.session.ID
	ip := ""
	if t.identity != nil {
		ip = t.identity.IP
	}
	t.mu.Unlock()

	t.asyncWrite("record search", func() error {
		return t.store.RecordSearch(&models.SearchRow{
			ID:        utils.GenerateULID(),
			SessionID: sessionID,
			CallerIP:  ip,
			Query:     q,
			CreatedAt: now,
		})
	})

	t.LogEvent("search", map[string]any{
		"search_query": q.Query,
		"search_type":  q.SearchType,
		"category":     q.Category,
		"rating":       q.Rating,
		"radius":       q.Radius,
	})
}

// LogEvent merges session, identity and device context with the supplied
// details into one flat record, appends it to the in-memory interaction
// list, then fires three independent best-effort writes: the per-session
// event log, the per-session summary (merge), and the analytics sink.
func (t *Tracker) LogEvent(eventType string, details map[string]any) {
	now := time.Now().UTC()

	record := make(map[string]any, len(details)+8)
	for k, v := range details {
		record[k] = v
	}

	t.mu.Lock()
	if eventType == "pageview" {
		t.session.PageViews++
	}
	t.session.LastActivity = now
	t.session.Interactions = append(t.session.Interactions, models.InteractionEvent{
		Type:      eventType,
		Details:   details,
		Timestamp: now,
	})

	record["event_type"] = eventType
	record["session_id"] = t.session.ID
	record["timestamp"] = now.Format(time.RFC3339)
	if t.identity != nil {
		record["ip"] = t.identity.IP
		record["country"] = t.identity.Geo.Country
		record["city"] = t.identity.Geo.City
	}
	if t.session.UserAgent != "" {
		record["device"] = GetDeviceInfo(t.session.UserAgent)
		record["browser"] = GetBrowserInfo(t.session.UserAgent)
	}
	if t.userID != "" {
		record["user_id"] = t.userID
	}

	ip := ""
	if t.identity != nil {
		ip = t.identity.IP
	}
	summary := &models.SessionSummary{
		SessionID:       t.session.ID,
		CallerIP:        ip,
		StartTime:       t.session.StartTime,
		LastActivity:    now,
		PageViews:       t.session.PageViews,
		DurationSeconds: int(now.Sub(t.session.StartTime).Seconds()),
		Searches:        len(t.session.Searches),
		Interactions:    len(t.session.Interactions),
	}
	sessionID := t.session.ID
	t.mu.Unlock()

	t.asyncWrite("append event", func() error {
		return t.store.AppendEvent(&models.EventRow{
			ID:        utils.GenerateULID(),
			SessionID: sessionID,
			CallerIP:  ip,
			EventType: eventType,
			Details:   details,
			CreatedAt: now,
		})
	})

	t.asyncWrite("upsert session summary", func() error {
		return t.store.UpsertSessionSummary(summary)
	})

	if t.sink != nil {
		t.asyncWrite("analytics sink", func() error {
			return t.sink.Write(record)
		})
	}
}

// HandleAuthState reacts to an auth state change. A non-nil user captures
// the authenticated identity, emits a login event and links the identity
// key with the user ID in both directions. A nil user clears the
// authenticated fields and emits a logout event.
func (t *Tracker) HandleAuthState(user *models.AuthUser) {
	if user != nil {
		t.mu.Lock()
		t.userID = user.UID
		t.userEmail = user.Email
		ip := ""
		if t.identity != nil {
			ip = t.identity.IP
		}
		t.mu.Unlock()

		t.LogEvent("login", map[string]any{"user_id": user.UID})

		if ip != "" {
			uid, email := user.UID, user.Email
			t.asyncWrite("link user", func() error {
				return t.store.LinkUser(ip, uid, email, time.Now().UTC())
			})
		}
		return
	}

	t.mu.Lock()
	t.userID = ""
	t.userEmail = ""
	t.mu.Unlock()

	t.LogEvent("logout", nil)
}

// Session returns the in-memory session record.
func (t *Tracker) Session() *models.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Preferences returns the in-memory preference aggregates.
func (t *Tracker) Preferences() *models.Preferences {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.prefs
}

// Identity returns the resolved identity, nil when resolution failed.
func (t *Tracker) Identity() *models.Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.identity
}

// AuthenticatedUser returns the captured user ID and email, empty when
// signed out.
func (t *Tracker) AuthenticatedUser() (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.userID, t.userEmail
}

// Wait blocks until all in-flight remote writes have settled. Used on
// shutdown and in tests; the tracking path never waits.
func (t *Tracker) Wait() {
	t.pending.Wait()
}

// mostFrequentCategory scans category labels in first-seen order; the
// first label holding the maximum count wins ties. Caller holds t.mu.
func (t *Tracker) mostFrequentCategory() string {
	best := ""
	bestCount := 0
	for _, label := range t.categoryOrder {
		if count := t.prefs.Categories[label]; count > bestCount {
			best = label
			bestCount = count
		}
	}
	return best
}

// asyncWrite runs a remote mutation without blocking the caller. Failures
// are logged and abandoned; there is no retry and no rollback of the
// in-memory state.
func (t *Tracker) asyncWrite(name string, fn func() error) {
	t.pending.Add(1)
	go func() {
		defer t.pending.Done()
		if err := fn(); err != nil {
			log.Printf("WARNING: Tracker - %s failed: %v", name, err)
		}
	}()
}

func referrerOrDirect(ref string) string {
	if ref == "" {
		return "Direct"
	}
	return ref
}
