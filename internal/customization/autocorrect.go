package customization

// AutoCorrect returns a copy of cfg with unambiguous, safe corrections applied:
//
// - a required group's minSelections is raised to at least 1;
// - minSelections is clamped down to maxSelections when it exceeds it.
//
// The corrector only ever narrows a problematic range; it never raises
// maxSelections, since loosening the ceiling changes customer-visible behavior
// in a way shrinking a minimum does not. When maxSelections itself is invalid
// (< 1) the config is left for Validate to reject.
//
// AutoCorrect is idempotent: AutoCorrect(AutoCorrect(x)) == AutoCorrect(x).
func AutoCorrect(cfg ProductConfig) ProductConfig {
	out := cfg.Clone()
	for i := range out.Groups {
		a := &out.Groups[i]
		if a.IsRequired && a.MinSelections < 1 {
			a.MinSelections = 1
		}
		if a.MinSelections > a.MaxSelections {
			a.MinSelections = a.MaxSelections
		}
	}
	return out
}

// DropUnknownGroups returns a copy of cfg with assignments referencing groups
// absent from the catalog removed. Stale references are validation errors on the
// interactive editing path; this removal is applied only when explicitly
// requested (the bulk-assign path), so a multi-product write is not blocked by
// one product's leftover reference to a deleted group.
func DropUnknownGroups(cfg ProductConfig, cat Catalog) ProductConfig {
	out := cfg.Clone()
	kept := out.Groups[:0]
	for _, a := range out.Groups {
		if _, ok := cat.Group(a.GroupID); ok {
			kept = append(kept, a)
		}
	}
	out.Groups = kept
	return out
}

// MergeAssignment returns a copy of cfg with the given assignment upserted:
// an existing assignment with the same groupId is replaced in place, otherwise
// the assignment is appended.
func MergeAssignment(cfg ProductConfig, a GroupAssignment) ProductConfig {
	out := cfg.Clone()
	for i := range out.Groups {
		if out.Groups[i].GroupID == a.GroupID {
			out.Groups[i] = a.clone()
			return out
		}
	}
	out.Groups = append(out.Groups, a.clone())
	return out
}
