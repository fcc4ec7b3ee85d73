package customization

import (
	"github.com/shopspring/decimal"
)

type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// FieldChange records one scalar product field that differs between snapshots.
type FieldChange struct {
	Field  string `json:"field"`
	Before any    `json:"before"`
	After  any    `json:"after"`
}

// GroupChange records one option-group assignment that was added, removed, or
// modified. WasRequired is set on removals so the caller can force an explicit
// confirmation before a destructive edit reaches persistence.
type GroupChange struct {
	Kind        ChangeKind       `json:"kind"`
	GroupID     string           `json:"groupId"`
	GroupName   string           `json:"groupName,omitempty"`
	WasRequired bool             `json:"wasRequired,omitempty"`
	Before      *GroupAssignment `json:"before,omitempty"`
	After       *GroupAssignment `json:"after,omitempty"`
}

type ContainerChange struct {
	Kind        ChangeKind           `json:"kind"`
	ContainerID string               `json:"containerId"`
	Before      *ContainerAssignment `json:"before,omitempty"`
	After       *ContainerAssignment `json:"after,omitempty"`
}

type SizeChange struct {
	Kind   ChangeKind      `json:"kind"`
	SizeID string          `json:"sizeId"`
	Before *SizeAssignment `json:"before,omitempty"`
	After  *SizeAssignment `json:"after,omitempty"`
}

// ChangeSet is the structured result of diffing two configuration snapshots.
// Computed once at submit time, never mutated afterwards, consumed only by the
// preview/confirmation step.
type ChangeSet struct {
	Fields     []FieldChange     `json:"fields,omitempty"`
	Groups     []GroupChange     `json:"optionGroups,omitempty"`
	Containers []ContainerChange `json:"containers,omitempty"`
	Sizes      []SizeChange      `json:"sizes,omitempty"`
}

func (cs ChangeSet) HasChanges() bool {
	return len(cs.Fields)+len(cs.Groups)+len(cs.Containers)+len(cs.Sizes) > 0
}

// HasRequiredGroupRemoval reports whether any removed option-group assignment
// was required. Removing a mandatory choice silently could let a customer
// complete an order with no valid default configuration, so this case is
// surfaced as a distinguished, higher-severity change.
func (cs ChangeSet) HasRequiredGroupRemoval() bool {
	for _, c := range cs.Groups {
		if c.Kind == ChangeRemoved && c.WasRequired {
			return true
		}
	}
	return false
}

// Diff compares an original configuration snapshot against the current one.
//
// Presence/absence/modification is keyed by the stable id of each assignment
// kind, so reordering the collections themselves is not a change — but a
// displayOrder change on an assignment is, since it is visible to the customer.
// The catalog is used only to resolve display names for the preview.
func Diff(original, current ProductConfig, cat Catalog) ChangeSet {
	var cs ChangeSet

	cs.Fields = diffScalars(original, current)
	cs.Groups = diffGroups(original.Groups, current.Groups, cat)
	cs.Containers = diffContainers(original.Containers, current.Containers)
	cs.Sizes = diffSizes(original.Sizes, current.Sizes)

	return cs
}

func diffScalars(original, current ProductConfig) []FieldChange {
	var out []FieldChange
	if original.Name != current.Name {
		out = append(out, FieldChange{Field: "name", Before: original.Name, After: current.Name})
	}
	if original.Category != current.Category {
		out = append(out, FieldChange{Field: "category", Before: original.Category, After: current.Category})
	}
	if !original.Price.Equal(current.Price) {
		out = append(out, FieldChange{Field: "price", Before: original.Price, After: current.Price})
	}
	if original.IsAvailable != current.IsAvailable {
		out = append(out, FieldChange{Field: "isAvailable", Before: original.IsAvailable, After: current.IsAvailable})
	}
	if !stringSlicesEqual(original.Tags, current.Tags) {
		out = append(out, FieldChange{Field: "tags", Before: original.Tags, After: current.Tags})
	}
	return out
}

func diffGroups(original, current []GroupAssignment, cat Catalog) []GroupChange {
	currentByID := make(map[string]GroupAssignment, len(current))
	for _, a := range current {
		currentByID[a.GroupID] = a
	}
	originalByID := make(map[string]GroupAssignment, len(original))
	for _, a := range original {
		originalByID[a.GroupID] = a
	}

	groupName := func(id string) string {
		g, _ := cat.Group(id)
		return g.Name
	}

	var out []GroupChange
	for _, before := range original {
		before := before
		after, ok := currentByID[before.GroupID]
		if !ok {
			out = append(out, GroupChange{
				Kind:        ChangeRemoved,
				GroupID:     before.GroupID,
				GroupName:   groupName(before.GroupID),
				WasRequired: before.IsRequired,
				Before:      &before,
			})
			continue
		}
		if !groupAssignmentsEqual(before, after) {
			out = append(out, GroupChange{
				Kind:      ChangeModified,
				GroupID:   before.GroupID,
				GroupName: groupName(before.GroupID),
				Before:    &before,
				After:     &after,
			})
		}
	}
	for _, after := range current {
		after := after
		if _, ok := originalByID[after.GroupID]; !ok {
			out = append(out, GroupChange{
				Kind:      ChangeAdded,
				GroupID:   after.GroupID,
				GroupName: groupName(after.GroupID),
				After:     &after,
			})
		}
	}
	return out
}

func diffContainers(original, current []ContainerAssignment) []ContainerChange {
	currentByID := make(map[string]ContainerAssignment, len(current))
	for _, a := range current {
		currentByID[a.ContainerID] = a
	}
	originalByID := make(map[string]ContainerAssignment, len(original))
	for _, a := range original {
		originalByID[a.ContainerID] = a
	}

	var out []ContainerChange
	for _, before := range original {
		before := before
		after, ok := currentByID[before.ContainerID]
		if !ok {
			out = append(out, ContainerChange{Kind: ChangeRemoved, ContainerID: before.ContainerID, Before: &before})
			continue
		}
		if before.IsDefault != after.IsDefault {
			out = append(out, ContainerChange{Kind: ChangeModified, ContainerID: before.ContainerID, Before: &before, After: &after})
		}
	}
	for _, after := range current {
		after := after
		if _, ok := originalByID[after.ContainerID]; !ok {
			out = append(out, ContainerChange{Kind: ChangeAdded, ContainerID: after.ContainerID, After: &after})
		}
	}
	return out
}

func diffSizes(original, current []SizeAssignment) []SizeChange {
	currentByID := make(map[string]SizeAssignment, len(current))
	for _, a := range current {
		currentByID[a.SizeID] = a
	}
	originalByID := make(map[string]SizeAssignment, len(original))
	for _, a := range original {
		originalByID[a.SizeID] = a
	}

	var out []SizeChange
	for _, before := range original {
		before := before
		after, ok := currentByID[before.SizeID]
		if !ok {
			out = append(out, SizeChange{Kind: ChangeRemoved, SizeID: before.SizeID, Before: &before})
			continue
		}
		if before.IsDefault != after.IsDefault {
			out = append(out, SizeChange{Kind: ChangeModified, SizeID: before.SizeID, Before: &before, After: &after})
		}
	}
	for _, after := range current {
		after := after
		if _, ok := originalByID[after.SizeID]; !ok {
			out = append(out, SizeChange{Kind: ChangeAdded, SizeID: after.SizeID, After: &after})
		}
	}
	return out
}

// groupAssignmentsEqual compares the tracked fields of two assignments for the
// same group id. Conditional rules are compared too: a rule edit changes what
// the customer is allowed to pick, so it must show up in the preview.
func groupAssignmentsEqual(a, b GroupAssignment) bool {
	if a.IsRequired != b.IsRequired ||
		a.MinSelections != b.MinSelections ||
		a.MaxSelections != b.MaxSelections ||
		a.DisplayOrder != b.DisplayOrder {
		return false
	}
	if !decimalPtrEqual(a.PriceOverride, b.PriceOverride) {
		return false
	}
	return conditionalRulesEqual(a.ConditionalMax, b.ConditionalMax)
}

func conditionalRulesEqual(a, b *ConditionalRule) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.TriggerGroupID != b.TriggerGroupID || len(a.MaxByOption) != len(b.MaxByOption) {
		return false
	}
	for k, v := range a.MaxByOption {
		if bv, ok := b.MaxByOption[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
