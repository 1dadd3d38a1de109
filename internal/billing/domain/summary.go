package billing

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DailySummary is one invoice unit: everything billed for a club's
// billable area on one date. Immutable after creation; the engine
// hands the sequence to the caller for export and persists nothing.
type DailySummary struct {
	Day             time.Time `json:"date"`
	Club            string    `json:"club"`
	Area            string    `json:"area"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	DetailedSummary string    `json:"detailed_summary"`
	ShortSummary    string    `json:"short_summary"`
	TotalCost       float64   `json:"total_cost"`

	// Anomalies counts events whose billable minutes went negative
	// through double-covered redundant periods. Surfaced, not fixed.
	Anomalies int `json:"anomalies,omitempty"`
}

// Aggregator reduces overlap-resolved usage events into combined
// per (date, club, area) daily summaries.
type Aggregator struct {
	mapping      AreaMapping
	rules        RuleSet
	rateOverride *float64
	fallbackRate float64
}

// NewAggregator constructs an Aggregator. A nil rate override means
// per-row rates apply; a zero fallback selects the default rate.
func NewAggregator(mapping AreaMapping, rules RuleSet, rateOverride *float64, fallbackRate float64) (*Aggregator, error) {
	if mapping == nil {
		return nil, ErrNilMapping
	}
	if rateOverride != nil && *rateOverride < 0 {
		return nil, ErrNegativeRate
	}
	if fallbackRate < 0 {
		return nil, ErrNegativeRate
	}
	if fallbackRate == 0 {
		fallbackRate = DefaultFallbackRatePerKWh
	}
	return &Aggregator{
		mapping:      mapping,
		rules:        rules,
		rateOverride: rateOverride,
		fallbackRate: fallbackRate,
	}, nil
}

type groupKey struct {
	day  time.Time
	club string
}

// GenerateDailySummaries groups events by (date, club), resolves
// scenario overlaps within each group, buckets the group's events by
// billable area and reduces every bucket to one summary. Groups are
// emitted in ascending (date, club) order; area buckets and the events
// inside them keep table order.
func (a *Aggregator) GenerateDailySummaries(events []UsageEvent) ([]DailySummary, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	groups := make(map[groupKey][]UsageEvent)
	var keys []groupKey
	for _, event := range events {
		key := groupKey{day: event.Day(), club: event.Club}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], event)
	}
	sort.Slice(keys, func(i, j int) bool {
		if !keys[i].day.Equal(keys[j].day) {
			return keys[i].day.Before(keys[j].day)
		}
		return keys[i].club < keys[j].club
	})

	var summaries []DailySummary
	for _, key := range keys {
		resolved := ResolveOverlaps(groups[key], a.rules)

		buckets := make(map[string][]ResolvedEvent)
		var areaOrder []string
		for _, event := range resolved {
			area := a.mapping.AreaFor(event.ScenarioKey(), event.Facility)
			if _, ok := buckets[area]; !ok {
				areaOrder = append(areaOrder, area)
			}
			buckets[area] = append(buckets[area], event)
		}

		for _, area := range areaOrder {
			summaries = append(summaries, a.combine(key.day, key.club, area, buckets[area]))
		}
	}
	return summaries, nil
}

// combine folds all scenarios of one (date, club, area) bucket into a
// single summary: a short invoice line listing only positive-billable
// scenarios, and a detailed audit block including fully redundant ones.
func (a *Aggregator) combine(day time.Time, club, area string, events []ResolvedEvent) DailySummary {
	var (
		detailLines   []string
		shortItems    []string
		totalCost     float64
		totalMinutes  int
		anomalies     int
		earliestStart time.Time
		latestEnd     time.Time
	)

	facility := events[0].Facility

	for _, event := range events {
		breakdown := ComputeBreakdown(event)

		if earliestStart.IsZero() || event.TurnOn.Before(earliestStart) {
			earliestStart = event.TurnOn
		}
		if latestEnd.IsZero() || event.TurnOff.After(latestEnd) {
			latestEnd = event.TurnOff
		}

		rate := EffectiveRate(a.rateOverride, event.CostPerKWh, a.fallbackRate)
		cost := Cost(breakdown.BillableMinutes, event.RatedPowerKW, rate)
		totalCost += cost
		totalMinutes += breakdown.BillableMinutes
		if breakdown.BillableMinutes < 0 {
			anomalies++
		}

		startTime := event.TurnOn.Format("15:04")
		endTime := event.TurnOff.Format("15:04")
		scenario := event.ScenarioName()

		detail := fmt.Sprintf("%s: %s-%s | %d min | $%.2f", scenario, startTime, endTime, breakdown.BillableMinutes, cost)
		supersededBy := ""
		if breakdown.RedundantMinutes > 0 {
			supersededBy = supersedingLabel(breakdown.Notes)
			detail += fmt.Sprintf(" (%d min in %s)", breakdown.RedundantMinutes, supersededBy)
		}
		detailLines = append(detailLines, detail)

		if breakdown.BillableMinutes > 0 {
			item := fmt.Sprintf("%s: %s-%s (%dmin)", scenario, startTime, endTime, breakdown.BillableMinutes)
			if breakdown.RedundantMinutes > 0 && supersededBy != "" {
				item += fmt.Sprintf(" (%dmin in %s)", breakdown.RedundantMinutes, supersededBy)
			}
			shortItems = append(shortItems, item)
		}
	}

	var detailed strings.Builder
	fmt.Fprintf(&detailed, "%s | %s | Date: %s (%s) | Club: %s\n",
		facility, area, day.Format("2006-01-02"), day.Format("Mon"), club)
	fmt.Fprintf(&detailed, "Session: %s-%s | Total Duration: %d min | Total Cost: $%.2f\n",
		earliestStart.Format("15:04"), latestEnd.Format("15:04"), totalMinutes, totalCost)
	detailed.WriteString(strings.Join(detailLines, "\n"))

	short := strings.Join(shortItems, " | ") + fmt.Sprintf(" | Total: $%.2f", totalCost)

	return DailySummary{
		Day:             day,
		Club:            club,
		Area:            area,
		StartTime:       earliestStart.Format("15:04"),
		EndTime:         latestEnd.Format("15:04"),
		DurationMinutes: totalMinutes,
		DetailedSummary: detailed.String(),
		ShortSummary:    short,
		TotalCost:       round2(totalCost),
		Anomalies:       anomalies,
	}
}

// supersedingLabel pulls the lighting label of the superseding scenario
// out of the exclusion notes, for summary lines like
// "(30 min in North 100 lux)". Falls back to a generic label when no
// note names a scenario.
func supersedingLabel(notes []string) string {
	label := "higher lux"
	for _, note := range notes {
		_, after, found := strings.Cut(note, "Included in ")
		if !found {
			continue
		}
		if idx := strings.LastIndex(after, " - "); idx >= 0 {
			label = after[idx+len(" - "):]
		} else {
			label = after
		}
	}
	return label
}
