package models

import "time"

// GeoLocation is the geolocation portion of a resolved identity.
type GeoLocation struct {
	Country   string  `json:"country"`
	Region    string  `json:"region"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnknownGeo is the fallback used when geolocation cannot be resolved.
func UnknownGeo() GeoLocation {
	return GeoLocation{
		Country: "Unknown",
		Region:  "Unknown",
		City:    "Unknown",
	}
}

// Identity is the resolved caller identity. The IP address is the primary
// key for the durable caller record. Shared and rotating IPs mean the key
// is an approximation, not a stable per-human identifier.
type Identity struct {
	IP  string      `json:"ip"`
	Geo GeoLocation `json:"geo"`
}

// CallerRecord is the durable per-identity record. Created on first
// observation of an IP, mutated on every later session, never deleted.
type CallerRecord struct {
	IP            string      `json:"ip"`
	VisitCount    int         `json:"visitCount"`
	FirstSeen     time.Time   `json:"firstSeen"`
	LastVisit     time.Time   `json:"lastVisit"`
	UserAgent     string      `json:"userAgent"`
	Device        string      `json:"device"`
	Geo           GeoLocation `json:"geo"`
	TopCategory   string      `json:"topCategory,omitempty"`
	Rating        string      `json:"ratingPreference,omitempty"`
	Distance      string      `json:"distancePreference,omitempty"`
	LastUserID    string      `json:"lastUserId,omitempty"`
	LastUserEmail string      `json:"lastUserEmail,omitempty"`
}

// Preferences holds the in-memory preference aggregates for one session.
// The frequency maps are independent; TopCategory is derived from
// Categories on every category update.
type Preferences struct {
	Categories  map[string]int `json:"categories"`
	Amenities   map[string]int `json:"amenities"`
	Clicks      map[string]int `json:"clicks"`
	TopCategory string         `json:"topCategory"`
	Rating      string         `json:"rating"`
	Distance    string         `json:"distance"`
}

// NewPreferences returns empty preference aggregates.
func NewPreferences() *Preferences {
	return &Preferences{
		Categories: make(map[string]int),
		Amenities:  make(map[string]int),
		Clicks:     make(map[string]int),
	}
}

// InteractionEvent is one in-memory event record. Append-only for the
// lifetime of the session.
type InteractionEvent struct {
	Type      string         `json:"eventType"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// SearchQuery captures one search submission.
type SearchQuery struct {
	Query      string `json:"query"`
	SearchType string `json:"searchType,omitempty"`
	Category   string `json:"category,omitempty"`
	Rating     string `json:"rating,omitempty"`
	Radius     string `json:"radius,omitempty"`
}

// Session is the in-memory, page-lifetime record of per-visit activity.
type Session struct {
	ID           string             `json:"sessionId"`
	StartTime    time.Time          `json:"startTime"`
	LastActivity time.Time          `json:"lastActivity"`
	PageViews    int                `json:"pageViews"`
	Path         string             `json:"path,omitempty"`
	Referrer     string             `json:"referrer,omitempty"`
	UserAgent    string             `json:"userAgent,omitempty"`
	Interactions []InteractionEvent `json:"interactions"`
	Searches     []SearchQuery      `json:"searches"`
}

// SessionSummary is the remote per-session summary document. Written with
// merge (upsert) semantics on every event.
type SessionSummary struct {
	SessionID       string    `json:"sessionId"`
	CallerIP        string    `json:"callerIp,omitempty"`
	StartTime       time.Time `json:"startTime"`
	LastActivity    time.Time `json:"lastActivity"`
	PageViews       int       `json:"pageViews"`
	DurationSeconds int       `json:"duration"`
	Searches        int       `json:"searches"`
	Interactions    int       `json:"interactions"`
}

// EventRow is one remote per-session event entry.
type EventRow struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId"`
	CallerIP  string         `json:"callerIp,omitempty"`
	EventType string         `json:"eventType"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// SearchRow is one remote search log entry.
type SearchRow struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	CallerIP  string    `json:"callerIp,omitempty"`
	Query     SearchQuery
	CreatedAt time.Time `json:"createdAt"`
}

// Event is one client-reported UI event. FilterClick events carry exactly
// one of Amenity, Rating or Distance; which one is present determines the
// sub-kind, checked in that order.
type Event struct {
	Type     string         `json:"type"`
	Value    string         `json:"value,omitempty"`
	Amenity  *string        `json:"amenity,omitempty"`
	Rating   *string        `json:"rating,omitempty"`
	Distance *string        `json:"distance,omitempty"`
	Search   *SearchQuery   `json:"search,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// Client event types accepted by the state endpoint.
const (
	EventCategoryClick = "CategoryClick"
	EventFilterClick   = "FilterClick"
	EventClick         = "Click"
	EventSearch        = "Search"
	EventPageView      = "PageView"
)

// AuthUser is the payload of a signed-in auth state change.
type AuthUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// VisitRequest is the body of the session initialization call.
type VisitRequest struct {
	Path      string  `json:"path,omitempty"`
	Referrer  string  `json:"referrer,omitempty"`
	UserAgent *string `json:"userAgent,omitempty"`
}

// AuthStateRequest is the body of the auth state change call. A nil User
// means signed out.
type AuthStateRequest struct {
	SessionID string    `json:"sessionId"`
	User      *AuthUser `json:"user"`
}

// StateRequest is the body of the event ingestion call.
type StateRequest struct {
	SessionID string  `json:"sessionId"`
	Events    []Event `json:"events"`
}

// Post is one content post document.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// FeedItem is one rendered entry of the posts feed. Kind is either "post"
// or "promo".
type FeedItem struct {
	Kind string `json:"kind"`
	Post *Post  `json:"post,omitempty"`
	Slot int    `json:"slot,omitempty"`
}

// Insights is the read-only projection of current in-memory state.
type Insights struct {
	Visits   InsightVisits   `json:"visits"`
	Behavior InsightBehavior `json:"behavior"`
}

type InsightVisits struct {
	Count     int  `json:"count"`
	Returning bool `json:"returning"`
}

type InsightBehavior struct {
	SessionDurationSeconds int      `json:"sessionDurationSeconds"`
	PageViews              int      `json:"pageViews"`
	Searches               int      `json:"searches"`
	TopPreferences         []string `json:"topPreferences"`
}

// DashboardRequest is the body of the analytics dashboard summary call.
type DashboardRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DashboardData is the analytics dashboard summary.
type DashboardData struct {
	Visitors  DashboardVisitors `json:"visitors"`
	Countries map[string]int    `json:"countries"`
	Searches  []DashboardSearch `json:"searches"`
}

type DashboardVisitors struct {
	Total      int `json:"total"`
	Unique     int `json:"unique"`
	Registered int `json:"registered"`
	Pageviews  int `json:"pageviews"`
}

type DashboardSearch struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
	Type  string `json:"type"`
}
