// Package events dispatches client-reported UI events to the session
// tracker.
package events

import (
	"log"

	"github.com/mwdirectory/mwtrack-go/models"
	"github.com/mwdirectory/mwtrack-go/tracker"
)

// Processor routes an array of events for one session, handling each type
// appropriately. Unknown types are logged and skipped; one bad event
// never blocks the rest of the batch.
type Processor struct {
	sessionID string
	tracker   *tracker.Tracker
}

// NewProcessor creates a processor bound to one session's tracker.
func NewProcessor(sessionID string, t *tracker.Tracker) *Processor {
	return &Processor{
		sessionID: sessionID,
		tracker:   t,
	}
}

// ProcessEvents applies a batch of events in order. In-memory aggregate
// updates happen synchronously; the mirrored remote writes are
// fire-and-forget with no ordering guarantee between them.
func (p *Processor) ProcessEvents(evts []models.Event) {
	for _, event := range evts {
		switch event.Type {
		case models.EventCategoryClick:
			p.tracker.RecordPreference("category", event.Value)

		case models.EventFilterClick:
			p.processFilterClick(event)

		case models.EventClick:
			p.tracker.RecordPreference("click", event.Value)

		case models.EventSearch:
			if event.Search == nil {
				log.Printf("WARNING: Processor - search event without query for session %s", p.sessionID)
				continue
			}
			p.tracker.RecordSearch(*event.Search)

		case models.EventPageView:
			p.tracker.LogEvent("pageview", event.Details)

		default:
			log.Printf("WARNING: Processor - unknown event type: %s for event: %+v", event.Type, event)
		}
	}
}

// processFilterClick distinguishes the three filter sub-kinds by which
// attribute is present, checked in the order amenity, rating, distance.
func (p *Processor) processFilterClick(event models.Event) {
	switch {
	case event.Amenity != nil:
		p.tracker.RecordPreference("amenity", *event.Amenity)
	case event.Rating != nil:
		p.tracker.RecordPreference("rating", *event.Rating)
	case event.Distance != nil:
		p.tracker.RecordPreference("distance", *event.Distance)
	default:
		log.Printf("WARNING: Processor - filter click without a filter attribute for session %s", p.sessionID)
	}
}
