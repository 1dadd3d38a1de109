package report

import (
	"time"

	billing "illuminator-billing/internal/billing/domain"
)

// Stats summarizes a parsed export for the caller's status display.
type Stats struct {
	Rows       int       `json:"rows"`
	Clubs      int       `json:"clubs"`
	Facilities int       `json:"facilities"`
	FirstDay   time.Time `json:"first_day"`
	LastDay    time.Time `json:"last_day"`
}

// CollectStats derives row counts, distinct clubs and facilities and
// the covered date range from normalized events.
func CollectStats(events []billing.UsageEvent) Stats {
	stats := Stats{Rows: len(events)}
	clubs := make(map[string]struct{})
	facilities := make(map[string]struct{})

	for _, event := range events {
		clubs[event.Club] = struct{}{}
		facilities[event.Facility] = struct{}{}
		day := event.Day()
		if stats.FirstDay.IsZero() || day.Before(stats.FirstDay) {
			stats.FirstDay = day
		}
		if stats.LastDay.IsZero() || day.After(stats.LastDay) {
			stats.LastDay = day
		}
	}

	stats.Clubs = len(clubs)
	stats.Facilities = len(facilities)
	return stats
}
