package customization

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func testCatalog() Catalog {
	return Catalog{
		Groups: []OptionGroup{
			{ID: "toppings", Name: "Toppings", Options: []Option{
				{ID: "pistachio", Name: "Pistachio", BasePrice: decimal.RequireFromString("0.50")},
				{ID: "oreo", Name: "Oreo", BasePrice: decimal.RequireFromString("0.75")},
				{ID: "xl", Name: "Extra Large Scoop", BasePrice: decimal.RequireFromString("1.00")},
			}},
			{ID: "sizes", Name: "Sizes", Options: []Option{
				{ID: "small", Name: "Small"},
				{ID: "medium", Name: "Medium"},
				{ID: "large", Name: "Large"},
			}},
			{ID: "sauces", Name: "Sauces", Options: []Option{
				{ID: "chocolate", Name: "Chocolate"},
				{ID: "caramel", Name: "Caramel"},
			}},
		},
		Containers: []ContainerInfo{{ID: "cup", Name: "Cup"}, {ID: "cone", Name: "Cone"}},
		Sizes:      []SizeInfo{{ID: "s", Name: "Small"}, {ID: "l", Name: "Large"}},
	}
}

func findIssue(issues []Issue, substr string) *Issue {
	for i := range issues {
		if strings.Contains(issues[i].Message, substr) {
			return &issues[i]
		}
	}
	return nil
}

func TestValidate_CleanConfigHasNoIssues(t *testing.T) {
	cfg := ProductConfig{
		ProductID: "p1",
		Name:      "Soft Serve",
		Price:     decimal.RequireFromString("4.50"),
		Groups: []GroupAssignment{
			{GroupID: "toppings", IsRequired: true, MinSelections: 1, MaxSelections: 3},
			{GroupID: "sauces", MinSelections: 0, MaxSelections: 2, DisplayOrder: 1},
		},
		Containers: []ContainerAssignment{{ContainerID: "cup", IsDefault: true}, {ContainerID: "cone"}},
		Sizes:      []SizeAssignment{{SizeID: "s", IsDefault: true}},
	}

	res := Validate(cfg, testCatalog())
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
	if !res.Valid() {
		t.Fatalf("expected valid result")
	}
}

func TestValidate_IssueListsSerializeAsEmptyArrays(t *testing.T) {
	res := Validate(ProductConfig{}, testCatalog())
	if res.Errors == nil || res.Warnings == nil {
		t.Fatalf("issue lists must be non-nil, got %#v", res)
	}
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"errors":[]`) || !strings.Contains(string(b), `"warnings":[]`) {
		t.Fatalf("clean result must serialize lists as [], got %s", b)
	}
}

func TestValidate_StructuralRangeErrors(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{
			{GroupID: "toppings", MinSelections: 5, MaxSelections: 2},
			{GroupID: "sauces", IsRequired: true, MinSelections: 0, MaxSelections: 1},
		},
	}

	res := Validate(cfg, testCatalog())
	if findIssue(res.Errors, "must not be less than minSelections") == nil {
		t.Fatalf("expected max<min error, got %v", res.Errors)
	}
	if findIssue(res.Errors, "required group must allow at least one selection") == nil {
		t.Fatalf("expected required-with-zero-min error, got %v", res.Errors)
	}
}

func TestValidate_MaxSelectionsBelowOne(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{{GroupID: "toppings", MinSelections: 0, MaxSelections: 0}},
	}
	res := Validate(cfg, testCatalog())
	if findIssue(res.Errors, "maxSelections must be at least 1") == nil {
		t.Fatalf("expected max<1 error, got %v", res.Errors)
	}
}

func TestValidate_UnknownGroupIsError(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{{GroupID: "ghost", MinSelections: 0, MaxSelections: 1}},
	}
	res := Validate(cfg, testCatalog())
	issue := findIssue(res.Errors, `unknown option group "ghost"`)
	if issue == nil {
		t.Fatalf("expected unknown group error, got %v", res.Errors)
	}
	if issue.Field != "optionGroup_ghost.groupId" {
		t.Fatalf("unexpected field path %q", issue.Field)
	}
}

func TestValidate_DuplicateGroupIsError(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{
			{GroupID: "toppings", MinSelections: 0, MaxSelections: 1},
			{GroupID: "toppings", MinSelections: 0, MaxSelections: 2},
		},
	}
	res := Validate(cfg, testCatalog())
	if findIssue(res.Errors, "assigned more than once") == nil {
		t.Fatalf("expected duplicate group error, got %v", res.Errors)
	}
}

func TestValidate_DanglingTriggerOptionIsError(t *testing.T) {
	// "xl" exists in the toppings group, but the rule triggers on sizes — the
	// check must be scoped to the trigger group, not the whole catalog.
	cfg := ProductConfig{
		Groups: []GroupAssignment{
			{GroupID: "toppings", MinSelections: 0, MaxSelections: 3, ConditionalMax: &ConditionalRule{
				TriggerGroupID: "sizes",
				MaxByOption:    map[string]int{"small": 2, "large": 5, "xl": 8},
			}},
		},
	}
	res := Validate(cfg, testCatalog())
	if findIssue(res.Errors, `unknown trigger option "xl"`) == nil {
		t.Fatalf("expected dangling trigger option error, got %v", res.Errors)
	}
}

func TestValidate_SelfReferentialRuleIsError(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{
			{GroupID: "toppings", MinSelections: 0, MaxSelections: 3, ConditionalMax: &ConditionalRule{
				TriggerGroupID: "toppings",
				MaxByOption:    map[string]int{"oreo": 1},
			}},
		},
	}
	res := Validate(cfg, testCatalog())
	if findIssue(res.Errors, "self-referential conditional rule") == nil {
		t.Fatalf("expected self-reference error, got %v", res.Errors)
	}
}

func TestValidate_UnknownTriggerGroupIsError(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{
			{GroupID: "toppings", MinSelections: 0, MaxSelections: 3, ConditionalMax: &ConditionalRule{
				TriggerGroupID: "ghost",
				MaxByOption:    map[string]int{"small": 2},
			}},
		},
	}
	res := Validate(cfg, testCatalog())
	if findIssue(res.Errors, `unknown trigger group "ghost"`) == nil {
		t.Fatalf("expected unknown trigger group error, got %v", res.Errors)
	}
}

func TestValidate_IncompleteCoverageIsWarning(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{
			{GroupID: "toppings", MinSelections: 0, MaxSelections: 3, ConditionalMax: &ConditionalRule{
				TriggerGroupID: "sizes",
				MaxByOption:    map[string]int{"small": 2, "large": 5}, // medium uncovered
			}},
		},
	}
	res := Validate(cfg, testCatalog())
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if findIssue(res.Warnings, "does not cover every option") == nil {
		t.Fatalf("expected coverage warning, got %v", res.Warnings)
	}
}

func TestValidate_MissingDefaultContainerIsSingleWarning(t *testing.T) {
	cfg := ProductConfig{
		Containers: []ContainerAssignment{{ContainerID: "cup"}, {ContainerID: "cone"}},
	}
	res := Validate(cfg, testCatalog())
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", res.Warnings)
	}
	if res.Warnings[0].Message != "no default container selected" {
		t.Fatalf("unexpected warning %q", res.Warnings[0].Message)
	}
}

func TestValidate_MultipleDefaultsIsError(t *testing.T) {
	cfg := ProductConfig{
		Sizes: []SizeAssignment{{SizeID: "s", IsDefault: true}, {SizeID: "l", IsDefault: true}},
	}
	res := Validate(cfg, testCatalog())
	if findIssue(res.Errors, "more than one default size") == nil {
		t.Fatalf("expected multiple-default error, got %v", res.Errors)
	}
}

func TestValidate_EmptyContainerListIsNotAnIssue(t *testing.T) {
	res := Validate(ProductConfig{}, testCatalog())
	if len(res.Errors) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("expected empty result, got errors=%v warnings=%v", res.Errors, res.Warnings)
	}
}

func TestValidate_PriceOverrideOnOptionalGroupIsWarning(t *testing.T) {
	override := decimal.RequireFromString("2.00")
	cfg := ProductConfig{
		Groups: []GroupAssignment{
			{GroupID: "sauces", MinSelections: 0, MaxSelections: 2, PriceOverride: &override},
		},
	}
	res := Validate(cfg, testCatalog())
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
	if findIssue(res.Warnings, "zero mandatory selections") == nil {
		t.Fatalf("expected price override warning, got %v", res.Warnings)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	cfg := ProductConfig{
		Groups: []GroupAssignment{{GroupID: "toppings", MinSelections: 9, MaxSelections: 1}},
	}
	_ = Validate(cfg, testCatalog())
	if cfg.Groups[0].MinSelections != 9 {
		t.Fatalf("validate mutated its input")
	}
}
