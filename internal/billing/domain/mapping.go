package billing

import "sort"

// AreaMapping maps a scenario key to the billable area customers book.
// Many scenarios may map to one area.
type AreaMapping map[string]string

// AreaFor returns the billable area for the scenario key, falling back
// to the raw facility name when no mapping is configured for it.
func (m AreaMapping) AreaFor(key, facility string) string {
	if area, ok := m[key]; ok {
		return area
	}
	return facility
}

// MappingGap describes a scenario present in the usage data but absent
// from the configured mapping.
type MappingGap struct {
	Scenario string `json:"scenario"`
	Facility string `json:"facility"`
	Count    int    `json:"count"`
}

// FindUnmappedScenarios cross-references every event's scenario key
// against the mapping and returns the gaps, deduplicated by key and
// sorted by descending occurrence count (most-used first). Ties keep
// first-occurrence order. A non-empty result makes the dataset
// unprocessable until the mapping is repaired.
func FindUnmappedScenarios(events []UsageEvent, mapping AreaMapping) []MappingGap {
	counts := make(map[string]int)
	var gaps []MappingGap

	for _, event := range events {
		key := event.ScenarioKey()
		if _, ok := mapping[key]; ok {
			continue
		}
		if _, seen := counts[key]; !seen {
			gaps = append(gaps, MappingGap{Scenario: key, Facility: event.Facility})
		}
		counts[key]++
	}

	for i := range gaps {
		gaps[i].Count = counts[gaps[i].Scenario]
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Count > gaps[j].Count
	})
	return gaps
}
