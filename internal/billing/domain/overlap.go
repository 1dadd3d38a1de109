package billing

// ResolveOverlaps applies the composite rules to one (date, club) group
// of events and returns the same events, in the same order, annotated
// with their redundant periods. The input slice is not modified.
//
// For every event whose scenario key carries a rule, every other event
// in the group whose key is in the rule's includes set gets the strict
// intersection of the two time ranges marked redundant. Touching
// intervals are not an overlap. Edges are not composed transitively.
//
// When two different superseding scenarios overlap the same subsumed
// event, each contributes its own period; periods that themselves
// overlap in time are kept as-is and later summed without
// deduplication (see Breakdown).
func ResolveOverlaps(events []UsageEvent, rules RuleSet) []ResolvedEvent {
	resolved := make([]ResolvedEvent, len(events))
	for i, event := range events {
		resolved[i] = ResolvedEvent{UsageEvent: event}
	}

	for i, event := range events {
		rule, ok := rules.Lookup(event.ScenarioKey())
		if !ok {
			continue
		}
		for j, other := range events {
			if i == j {
				continue
			}
			if !rule.Subsumes(other.ScenarioKey()) {
				continue
			}
			start := maxTime(event.TurnOn, other.TurnOn)
			end := minTime(event.TurnOff, other.TurnOff)
			if !start.Before(end) {
				continue
			}
			resolved[j].Redundant = append(resolved[j].Redundant, RedundantPeriod{
				Start:  start,
				End:    end,
				Reason: "Included in " + event.ScenarioKey(),
			})
		}
	}
	return resolved
}
