package billing

import (
	"strings"
	"time"
)

// UsageEvent is one controller-logged lighting session from an
// Illuminator Central export. Events are immutable once parsed; overlap
// resolution annotates them through ResolvedEvent instead of mutating.
type UsageEvent struct {
	Club         string
	Facility     string
	Lighting     string
	TurnOn       time.Time
	TurnOff      time.Time
	RatedPowerKW float64

	// CostPerKWh is the per-row rate from the export, nil when the column
	// is absent or the value did not parse ("rate unknown").
	CostPerKWh *float64
}

// ScenarioKey is the join key between usage data, area mappings and
// composite rules: facility plus the lighting label with surrounding
// dashes trimmed.
func (e UsageEvent) ScenarioKey() string {
	return e.Facility + " - " + strings.Trim(e.Lighting, "-")
}

// ScenarioName is the customer-facing lighting label used in summary lines.
func (e UsageEvent) ScenarioName() string {
	name := strings.TrimSpace(strings.Trim(e.Lighting, "-"))
	if name == "" {
		return "Unknown"
	}
	return name
}

// Day is the calendar date the session is booked to. Sessions spanning
// midnight belong to their turn-on date.
func (e UsageEvent) Day() time.Time {
	t := e.TurnOn
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RedundantPeriod is a time sub-range within an event excluded from
// billing because a superseding scenario was concurrently active.
// Invariant: TurnOn <= Start < End <= TurnOff of the owning event.
type RedundantPeriod struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// Minutes returns the period duration in fractional minutes.
func (p RedundantPeriod) Minutes() float64 {
	return p.End.Sub(p.Start).Minutes()
}

// ResolvedEvent pairs an immutable usage event with the redundant
// periods assigned to it during overlap resolution.
type ResolvedEvent struct {
	UsageEvent
	Redundant []RedundantPeriod
}
