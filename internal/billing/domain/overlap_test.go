package billing

import (
	"testing"
	"time"
)

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 3, 5, hour, min, 0, 0, time.UTC)
}

func lightingEvent(t *testing.T, facility, lighting string, onHour, onMin, offHour, offMin int) UsageEvent {
	t.Helper()
	return UsageEvent{
		Club:         "Riverside",
		Facility:     facility,
		Lighting:     lighting,
		TurnOn:       at(t, onHour, onMin),
		TurnOff:      at(t, offHour, offMin),
		RatedPowerKW: 1.2,
	}
}

func TestResolveOverlapsMarksIncludedScenario(t *testing.T) {
	low := lightingEvent(t, "Admiral Park", "North 50 lux", 9, 0, 10, 0)
	high := lightingEvent(t, "Admiral Park", "North 100 lux", 9, 30, 10, 0)
	rules := RuleSet{
		"Admiral Park - North 100 lux": {Includes: []string{"Admiral Park - North 50 lux"}},
	}

	resolved := ResolveOverlaps([]UsageEvent{low, high}, rules)

	if len(resolved[0].Redundant) != 1 {
		t.Fatalf("expected 1 redundant period on low event, got %d", len(resolved[0].Redundant))
	}
	period := resolved[0].Redundant[0]
	if !period.Start.Equal(at(t, 9, 30)) || !period.End.Equal(at(t, 10, 0)) {
		t.Fatalf("unexpected period %v-%v", period.Start, period.End)
	}
	if period.Reason != "Included in Admiral Park - North 100 lux" {
		t.Fatalf("unexpected reason %q", period.Reason)
	}
	if len(resolved[1].Redundant) != 0 {
		t.Fatalf("superseding event must not be marked redundant")
	}
}

func TestResolveOverlapsTouchingIntervalsAreNotOverlaps(t *testing.T) {
	low := lightingEvent(t, "Admiral Park", "North 50 lux", 9, 0, 9, 30)
	high := lightingEvent(t, "Admiral Park", "North 100 lux", 9, 30, 10, 0)
	rules := RuleSet{
		"Admiral Park - North 100 lux": {Includes: []string{"Admiral Park - North 50 lux"}},
	}

	resolved := ResolveOverlaps([]UsageEvent{low, high}, rules)
	if len(resolved[0].Redundant) != 0 {
		t.Fatalf("touching intervals must not produce a redundant period, got %v", resolved[0].Redundant)
	}
}

func TestResolveOverlapsIsDirectional(t *testing.T) {
	low := lightingEvent(t, "Admiral Park", "North 50 lux", 9, 0, 10, 0)
	high := lightingEvent(t, "Admiral Park", "North 100 lux", 9, 0, 10, 0)
	// Rule points the wrong way round: 50 lux "includes" 100 lux.
	rules := RuleSet{
		"Admiral Park - North 50 lux": {Includes: []string{"Admiral Park - North 100 lux"}},
	}

	resolved := ResolveOverlaps([]UsageEvent{low, high}, rules)
	if len(resolved[0].Redundant) != 0 {
		t.Fatalf("low event must not be marked by a reversed rule")
	}
	if len(resolved[1].Redundant) != 1 {
		t.Fatalf("expected the high event marked under the reversed rule")
	}
}

func TestResolveOverlapsDoesNotComposeRuleChains(t *testing.T) {
	a := lightingEvent(t, "Admiral Park", "North 200 lux", 9, 0, 10, 0)
	b := lightingEvent(t, "Admiral Park", "North 100 lux", 9, 0, 10, 0)
	c := lightingEvent(t, "Admiral Park", "North 50 lux", 9, 0, 10, 0)
	rules := RuleSet{
		"Admiral Park - North 200 lux": {Includes: []string{"Admiral Park - North 100 lux"}},
		"Admiral Park - North 100 lux": {Includes: []string{"Admiral Park - North 50 lux"}},
	}

	resolved := ResolveOverlaps([]UsageEvent{a, b, c}, rules)

	// 200 includes 100, 100 includes 50; 200 does not reach 50.
	if len(resolved[1].Redundant) != 1 {
		t.Fatalf("expected 100 lux marked once, got %d", len(resolved[1].Redundant))
	}
	if len(resolved[2].Redundant) != 1 {
		t.Fatalf("expected 50 lux marked only by the explicit 100 lux edge, got %d", len(resolved[2].Redundant))
	}
	if resolved[2].Redundant[0].Reason != "Included in Admiral Park - North 100 lux" {
		t.Fatalf("unexpected reason %q", resolved[2].Redundant[0].Reason)
	}
}

func TestResolveOverlapsIgnoresSelfComparison(t *testing.T) {
	// A scenario whose rule lists itself must not mark its own event.
	event := lightingEvent(t, "Admiral Park", "North 100 lux", 9, 0, 10, 0)
	rules := RuleSet{
		"Admiral Park - North 100 lux": {Includes: []string{"Admiral Park - North 100 lux"}},
	}

	resolved := ResolveOverlaps([]UsageEvent{event}, rules)
	if len(resolved[0].Redundant) != 0 {
		t.Fatalf("self comparison must be excluded")
	}
}

func TestResolveOverlapsTwoSupersedersAppendIndependentPeriods(t *testing.T) {
	subsumed := lightingEvent(t, "Admiral Park", "North 50 lux", 9, 0, 10, 0)
	first := lightingEvent(t, "Admiral Park", "North 100 lux", 9, 0, 9, 45)
	second := lightingEvent(t, "Admiral Park", "North 200 lux", 9, 15, 10, 0)
	rules := RuleSet{
		"Admiral Park - North 100 lux": {Includes: []string{"Admiral Park - North 50 lux"}},
		"Admiral Park - North 200 lux": {Includes: []string{"Admiral Park - North 50 lux"}},
	}

	resolved := ResolveOverlaps([]UsageEvent{subsumed, first, second}, rules)
	if len(resolved[0].Redundant) != 2 {
		t.Fatalf("expected independent periods per superseder, got %d", len(resolved[0].Redundant))
	}
}

func TestResolveOverlapsLeavesInputUntouched(t *testing.T) {
	low := lightingEvent(t, "Admiral Park", "North 50 lux", 9, 0, 10, 0)
	high := lightingEvent(t, "Admiral Park", "North 100 lux", 9, 0, 10, 0)
	events := []UsageEvent{low, high}
	rules := RuleSet{
		"Admiral Park - North 100 lux": {Includes: []string{"Admiral Park - North 50 lux"}},
	}

	_ = ResolveOverlaps(events, rules)
	if events[0] != low || events[1] != high {
		t.Fatalf("input events must stay immutable")
	}
}
