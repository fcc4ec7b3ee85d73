package customization

import (
	"github.com/shopspring/decimal"
)

// Option is a single selectable item inside an option group (e.g. "Pistachio").
// Leaf reference data; never mutated by this package.
type Option struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
}

// OptionGroup is a catalog-level named set of options (e.g. "Toppings").
// Groups are shared across products and immutable from the engine's point of view.
type OptionGroup struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Icon    string   `json:"icon,omitempty"`
	Options []Option `json:"options"`
}

// HasOption reports whether the group defines an option with the given id.
func (g OptionGroup) HasOption(optionID string) bool {
	for _, o := range g.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// ContainerInfo and SizeInfo are catalog reference records for the
// container/size pickers (cup vs cone, small vs large).
type ContainerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SizeInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is the read-only snapshot every engine call receives.
// It is hydrated by the persistence layer before any validation/resolution call,
// so referential checks are total functions over known shapes.
type Catalog struct {
	Groups     []OptionGroup   `json:"groups"`
	Containers []ContainerInfo `json:"containers"`
	Sizes      []SizeInfo      `json:"sizes"`
}

// Group returns the catalog group with the given id.
func (c Catalog) Group(groupID string) (OptionGroup, bool) {
	for _, g := range c.Groups {
		if g.ID == groupID {
			return g, true
		}
	}
	return OptionGroup{}, false
}

func (c Catalog) HasContainer(containerID string) bool {
	for _, ct := range c.Containers {
		if ct.ID == containerID {
			return true
		}
	}
	return false
}

func (c Catalog) HasSize(sizeID string) bool {
	for _, s := range c.Sizes {
		if s.ID == sizeID {
			return true
		}
	}
	return false
}

// ConditionalRule overrides a group's max-selection ceiling based on what the
// customer picked in another ("trigger") group. Only the ceiling is conditional;
// the minimum stays static so a group can never become mandatory-but-unsatisfiable
// through a rule.
type ConditionalRule struct {
	TriggerGroupID string `json:"triggerGroupId"`

	// MaxByOption maps a trigger option id to the max-selection override for the
	// owning group. Options absent from the map fall back to the static max.
	MaxByOption map[string]int `json:"maxByOption"`
}

// GroupAssignment binds a product to one catalog option group along with its
// selection rules. A product holds at most one assignment per group id.
type GroupAssignment struct {
	GroupID        string           `json:"groupId"`
	IsRequired     bool             `json:"isRequired"`
	MinSelections  int              `json:"minSelections"`
	MaxSelections  int              `json:"maxSelections"`
	DisplayOrder   int              `json:"displayOrder"`
	PriceOverride  *decimal.Decimal `json:"priceOverride,omitempty"`
	ConditionalMax *ConditionalRule `json:"conditionalMaxSelections,omitempty"`
}

// ContainerAssignment / SizeAssignment are structurally identical: one row per
// selectable container/size, at most one default per kind.
type ContainerAssignment struct {
	ContainerID string `json:"containerId"`
	IsDefault   bool   `json:"isDefault"`
}

type SizeAssignment struct {
	SizeID    string `json:"sizeId"`
	IsDefault bool   `json:"isDefault"`
}

// ProductConfig is the aggregate the admin edits: the product's core fields plus
// its three assignment collections. The engine treats the core fields as opaque
// beyond existence/diffing.
type ProductConfig struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
	Tags        []string        `json:"tags,omitempty"`

	Groups     []GroupAssignment     `json:"optionGroups"`
	Containers []ContainerAssignment `json:"containers"`
	Sizes      []SizeAssignment      `json:"sizes"`
}

// Clone returns a deep copy. Engine functions that return a modified config
// clone first so callers keep an untouched original for diffing.
func (c ProductConfig) Clone() ProductConfig {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Groups != nil {
		out.Groups = make([]GroupAssignment, len(c.Groups))
		for i, a := range c.Groups {
			out.Groups[i] = a.clone()
		}
	}
	if c.Containers != nil {
		out.Containers = append([]ContainerAssignment(nil), c.Containers...)
	}
	if c.Sizes != nil {
		out.Sizes = append([]SizeAssignment(nil), c.Sizes...)
	}
	return out
}

func (a GroupAssignment) clone() GroupAssignment {
	out := a
	if a.PriceOverride != nil {
		p := *a.PriceOverride
		out.PriceOverride = &p
	}
	if a.ConditionalMax != nil {
		r := ConditionalRule{TriggerGroupID: a.ConditionalMax.TriggerGroupID}
		if a.ConditionalMax.MaxByOption != nil {
			r.MaxByOption = make(map[string]int, len(a.ConditionalMax.MaxByOption))
			for k, v := range a.ConditionalMax.MaxByOption {
				r.MaxByOption[k] = v
			}
		}
		out.ConditionalMax = &r
	}
	return out
}
