package customization

import "testing"

func TestEffectiveMaxSelections_NoRuleReturnsStatic(t *testing.T) {
	a := GroupAssignment{GroupID: "toppings", MaxSelections: 3}
	for _, trigger := range []string{NoTriggerSelection, "small", "anything"} {
		if got := EffectiveMaxSelections(a, trigger); got != 3 {
			t.Fatalf("trigger %q: expected 3, got %d", trigger, got)
		}
	}
}

func TestEffectiveMaxSelections_MappedTrigger(t *testing.T) {
	a := GroupAssignment{GroupID: "toppings", MaxSelections: 3, ConditionalMax: &ConditionalRule{
		TriggerGroupID: "sizes",
		MaxByOption:    map[string]int{"small": 2, "large": 5},
	}}
	if got := EffectiveMaxSelections(a, "small"); got != 2 {
		t.Fatalf("expected 2 for small, got %d", got)
	}
	if got := EffectiveMaxSelections(a, "large"); got != 5 {
		t.Fatalf("expected 5 for large, got %d", got)
	}
}

func TestEffectiveMaxSelections_UncoveredTriggerFallsBack(t *testing.T) {
	a := GroupAssignment{GroupID: "toppings", MaxSelections: 3, ConditionalMax: &ConditionalRule{
		TriggerGroupID: "sizes",
		MaxByOption:    map[string]int{"small": 2, "large": 5},
	}}
	// "medium" is not in the mapping: the designed fallback, not an error.
	if got := EffectiveMaxSelections(a, "medium"); got != 3 {
		t.Fatalf("expected static fallback 3, got %d", got)
	}
}

func TestEffectiveMaxSelections_NoSelectionYetFallsBack(t *testing.T) {
	a := GroupAssignment{GroupID: "toppings", MaxSelections: 4, ConditionalMax: &ConditionalRule{
		TriggerGroupID: "sizes",
		MaxByOption:    map[string]int{"small": 1},
	}}
	if got := EffectiveMaxSelections(a, NoTriggerSelection); got != 4 {
		t.Fatalf("expected static 4 before any trigger selection, got %d", got)
	}
}

func TestEffectiveMaxSelections_NilMapFallsBack(t *testing.T) {
	a := GroupAssignment{GroupID: "toppings", MaxSelections: 2, ConditionalMax: &ConditionalRule{TriggerGroupID: "sizes"}}
	if got := EffectiveMaxSelections(a, "small"); got != 2 {
		t.Fatalf("expected static 2 with nil mapping, got %d", got)
	}
}
