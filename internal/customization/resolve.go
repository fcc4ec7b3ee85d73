package customization

// NoTriggerSelection is the triggerOptionID value meaning the customer has not
// chosen anything in the trigger group yet.
const NoTriggerSelection = ""

// EffectiveMaxSelections resolves the max-selection ceiling actually enforced
// at order time for one assignment.
//
// Without a conditional rule the static maxSelections applies. With a rule, the
// trigger group's current selection is looked up in the rule's mapping; no
// selection yet, or an option the mapping does not cover, falls back to the
// static max. The fallback is a designed path, not an error: it is exercised
// deliberately when the catalog changes out from under an existing rule.
//
// Only the ceiling is conditional. The minimum is always static, so a rule can
// never make a group silently mandatory-but-unsatisfiable.
func EffectiveMaxSelections(a GroupAssignment, triggerOptionID string) int {
	rule := a.ConditionalMax
	if rule == nil || triggerOptionID == NoTriggerSelection {
		return a.MaxSelections
	}
	if max, ok := rule.MaxByOption[triggerOptionID]; ok {
		return max
	}
	return a.MaxSelections
}
