package customization

import (
	"fmt"
)

// Issue is a single validation finding. Severity is the list it lands in
// (Result.Errors vs Result.Warnings), not a field on the issue itself.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Valid reports whether the configuration can be submitted (warnings allowed).
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// ErrorMessage joins error messages for contexts that need a single string
// (bulk failure reporting). Empty when there are no errors.
func (r Result) ErrorMessage() string {
	switch len(r.Errors) {
	case 0:
		return ""
	case 1:
		return r.Errors[0].Message
	default:
		return fmt.Sprintf("%s (and %d more)", r.Errors[0].Message, len(r.Errors)-1)
	}
}

// Validate checks a product configuration against the catalog.
//
// Contract:
// - Pure and deterministic; never mutates cfg or cat.
// - Every check is evaluated; findings are never short-circuited.
// - Malformed-but-representable data produces issues, never a failure.
//
// Errors block submission; warnings block only until explicitly confirmed.
func Validate(cfg ProductConfig, cat Catalog) Result {
	// Both lists start non-nil so a clean result serializes as [] rather than
	// null and API clients never have to null-check the issue lists.
	res := Result{Errors: []Issue{}, Warnings: []Issue{}}

	seen := make(map[string]bool, len(cfg.Groups))
	for _, a := range cfg.Groups {
		field := "optionGroup_" + a.GroupID

		// Structural checks on the selection range.
		if a.MinSelections < 0 {
			res.errorf(field+".minSelections", "minSelections must not be negative")
		}
		if a.MaxSelections < 1 {
			res.errorf(field+".maxSelections", "maxSelections must be at least 1")
		}
		if a.MaxSelections < a.MinSelections {
			res.errorf(field+".maxSelections", "maxSelections (%d) must not be less than minSelections (%d)", a.MaxSelections, a.MinSelections)
		}
		if a.IsRequired && a.MinSelections == 0 {
			res.errorf(field+".minSelections", "required group must allow at least one selection")
		}

		// Referential integrity against the catalog.
		if _, ok := cat.Group(a.GroupID); !ok {
			res.errorf(field+".groupId", "unknown option group %q", a.GroupID)
		}

		if seen[a.GroupID] {
			res.errorf(field+".groupId", "option group %q assigned more than once", a.GroupID)
		}
		seen[a.GroupID] = true

		validateConditionalRule(&res, field, a, cat)

		// Likely-unintended: a price override on a group the customer can skip
		// entirely never has a guaranteed effect on the order total.
		if a.PriceOverride != nil && a.MinSelections == 0 {
			res.warnf(field+".priceOverride", "price override set on a group with zero mandatory selections")
		}
	}

	validateDefaults(&res, cfg, cat)

	return res
}

func validateConditionalRule(res *Result, field string, a GroupAssignment, cat Catalog) {
	rule := a.ConditionalMax
	if rule == nil {
		return
	}
	field += ".conditionalMaxSelections"

	if rule.TriggerGroupID == a.GroupID {
		res.errorf(field+".triggerGroupId", "self-referential conditional rule on group %q", a.GroupID)
		return
	}

	trigger, ok := cat.Group(rule.TriggerGroupID)
	if !ok {
		res.errorf(field+".triggerGroupId", "unknown trigger group %q", rule.TriggerGroupID)
		return
	}

	covered := 0
	for optionID, max := range rule.MaxByOption {
		// A dangling mapping key is an error, not a silent no-op: the ordering UI
		// cannot guess a replacement at runtime.
		if !trigger.HasOption(optionID) {
			res.errorf(field+".mapping", "unknown trigger option %q in group %q", optionID, rule.TriggerGroupID)
			continue
		}
		covered++
		if max < 0 {
			res.errorf(field+".mapping", "conditional maxSelections for option %q must not be negative", optionID)
		}
	}

	// Incomplete coverage is a deliberate fallback (uncovered options use the
	// static max), so it only warrants a warning.
	if covered < len(trigger.Options) {
		res.warnf(field+".mapping", "rule does not cover every option in group %q; uncovered options fall back to the static max", rule.TriggerGroupID)
	}
}

func validateDefaults(res *Result, cfg ProductConfig, cat Catalog) {
	defaults := 0
	for _, a := range cfg.Containers {
		if !cat.HasContainer(a.ContainerID) {
			res.errorf("container_"+a.ContainerID, "unknown container %q", a.ContainerID)
		}
		if a.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		res.errorf("containers", "more than one default container selected")
	}
	if len(cfg.Containers) > 0 && defaults == 0 {
		res.warnf("containers", "no default container selected")
	}

	defaults = 0
	for _, a := range cfg.Sizes {
		if !cat.HasSize(a.SizeID) {
			res.errorf("size_"+a.SizeID, "unknown size %q", a.SizeID)
		}
		if a.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		res.errorf("sizes", "more than one default size selected")
	}
	if len(cfg.Sizes) > 0 && defaults == 0 {
		res.warnf("sizes", "no default size selected")
	}
}

func (r *Result) errorf(field, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warnf(field, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}
