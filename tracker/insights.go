package tracker

import (
	"sort"
	"time"

	"github.com/mwdirectory/mwtrack-go/models"
)

// Insights is a pure read-only projection of current in-memory state. No
// side effects, no remote calls.
func (t *Tracker) Insights() *models.Insights {
	t.mu.Lock()
	defer t.mu.Unlock()

	previous := 0
	if t.previousVisits != nil {
		previous = *t.previousVisits
	}

	return &models.Insights{
		Visits: models.InsightVisits{
			Count:     previous + 1,
			Returning: t.returning,
		},
		Behavior: models.InsightBehavior{
			SessionDurationSeconds: int(time.Now().UTC().Sub(t.session.StartTime).Seconds()),
			PageViews:              t.session.PageViews,
			Searches:               len(t.session.Searches),
			TopPreferences:         topLabels(t.prefs.Categories, 3),
		},
	}
}

// topLabels returns up to n labels by descending frequency. Equal counts
// keep the underlying map's iteration order, which is not stable.
func topLabels(counts map[string]int, n int) []string {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return counts[labels[i]] > counts[labels[j]]
	})
	if len(labels) > n {
		labels = labels[:n]
	}
	return labels
}
