package billing

// CompositeRule declares that one scenario subsumes others: while the
// superseding scenario is active, overlapping time on any included
// scenario is not billable. Rules are directional and non-transitive;
// only explicit includes edges are followed.
type CompositeRule struct {
	// Includes lists the scenario keys this rule subsumes.
	Includes []string

	// PowerKW is an optional authoritative power rating for the rule,
	// zero when unset. Carried from configuration for reference; costs
	// always use the event's own rated power.
	PowerKW float64
}

// Subsumes reports whether the rule's includes set contains the key.
func (r CompositeRule) Subsumes(key string) bool {
	for _, included := range r.Includes {
		if included == key {
			return true
		}
	}
	return false
}

// RuleSet maps a superseding scenario key to its composite rule.
// Whether a scenario acts as superseding is a plain presence check.
type RuleSet map[string]CompositeRule

// Lookup returns the rule keyed by the scenario, if any.
func (s RuleSet) Lookup(key string) (CompositeRule, bool) {
	rule, ok := s[key]
	return rule, ok
}
