package billing

import (
	"fmt"
	"math"
	"time"
)

// DefaultFallbackRatePerKWh is charged when neither a caller override
// nor a usable per-row rate is available.
const DefaultFallbackRatePerKWh = 0.263

// Breakdown is the billable/redundant split for one event, with
// minutes rounded to whole values at this output boundary.
type Breakdown struct {
	// BillableMinutes may be negative when overlapping redundant
	// periods double-cover the same time; callers surface it for
	// audit rather than clamping.
	BillableMinutes  int
	RedundantMinutes int
	Notes            []string
}

// ComputeBreakdown converts an annotated event into billable minutes,
// redundant minutes and human-readable exclusion notes. Intermediate
// arithmetic stays in fractional minutes; rounding happens once here.
func ComputeBreakdown(event ResolvedEvent) Breakdown {
	total := event.TurnOff.Sub(event.TurnOn).Minutes()
	if len(event.Redundant) == 0 {
		return Breakdown{BillableMinutes: roundMinutes(total)}
	}

	var redundant float64
	notes := make([]string, 0, len(event.Redundant))
	for _, period := range event.Redundant {
		redundant += period.Minutes()
		notes = append(notes, fmt.Sprintf("%s-%s: %s",
			period.Start.Format("15:04"), period.End.Format("15:04"), period.Reason))
	}

	return Breakdown{
		BillableMinutes:  roundMinutes(total - redundant),
		RedundantMinutes: roundMinutes(redundant),
		Notes:            notes,
	}
}

// EffectiveRate resolves the rate per kWh for one event. Resolution
// order: caller override, then the event's own per-row rate, then the
// fixed fallback.
func EffectiveRate(override, rowRate *float64, fallback float64) float64 {
	if override != nil {
		return *override
	}
	if rowRate != nil {
		return *rowRate
	}
	return fallback
}

// Cost prices the billable minutes against the event's rated power,
// rounded to cents at this output boundary.
func Cost(billableMinutes int, ratedPowerKW, ratePerKWh float64) float64 {
	hours := float64(billableMinutes) / 60
	return round2(hours * ratedPowerKW * ratePerKWh)
}

func roundMinutes(minutes float64) int {
	return int(math.Round(minutes))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
