package customization

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu        sync.Mutex
	configs   map[string]ProductConfig
	submitted map[string]ProductConfig
	loadDelay map[string]time.Duration
}

func newFakeStore(configs map[string]ProductConfig) *fakeStore {
	return &fakeStore{
		configs:   configs,
		submitted: make(map[string]ProductConfig),
		loadDelay: make(map[string]time.Duration),
	}
}

func (s *fakeStore) Load(ctx context.Context, productID string) (ProductConfig, error) {
	s.mu.Lock()
	delay := s.loadDelay[productID]
	cfg, ok := s.configs[productID]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ProductConfig{}, ctx.Err()
		}
	}
	if !ok {
		return ProductConfig{}, ErrProductNotFound
	}
	return cfg.Clone(), nil
}

func (s *fakeStore) Submit(ctx context.Context, cfg ProductConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.submitted[cfg.ProductID] = cfg
	s.mu.Unlock()
	return nil
}

func toppingsAssignment() GroupAssignment {
	return GroupAssignment{GroupID: "toppings", IsRequired: true, MinSelections: 1, MaxSelections: 3}
}

func TestBulkAssign_PartialFailureIsIndependent(t *testing.T) {
	store := newFakeStore(map[string]ProductConfig{
		"p1": {ProductID: "p1"},
		// p2 carries an assignment the merge cannot fix: max 0 stays invalid
		// through autocorrect, so validation fails for p2 only.
		"p2": {ProductID: "p2", Groups: []GroupAssignment{
			{GroupID: "sauces", MinSelections: 0, MaxSelections: 0},
		}},
	})

	b := NewBulkAssigner(store, 4, 0)
	res := b.Assign(context.Background(), testCatalog(), []string{"p1", "p2"}, toppingsAssignment())

	if len(res.Succeeded) != 1 || res.Succeeded[0] != "p1" {
		t.Fatalf("expected p1 to succeed, got %v", res.Succeeded)
	}
	if len(res.Failed) != 1 || res.Failed[0].ProductID != "p2" {
		t.Fatalf("expected p2 to fail, got %v", res.Failed)
	}
	if !strings.Contains(res.Failed[0].Error, "validation failed") {
		t.Fatalf("expected validation failure reason, got %q", res.Failed[0].Error)
	}
	if _, ok := store.submitted["p2"]; ok {
		t.Fatalf("p2 must not be submitted on validation failure")
	}
}

func TestBulkAssign_MissingProductReported(t *testing.T) {
	store := newFakeStore(map[string]ProductConfig{"p1": {ProductID: "p1"}})

	b := NewBulkAssigner(store, 2, 0)
	res := b.Assign(context.Background(), testCatalog(), []string{"p1", "ghost"}, toppingsAssignment())

	if len(res.Succeeded) != 1 || res.Succeeded[0] != "p1" {
		t.Fatalf("expected p1 to succeed, got %v", res.Succeeded)
	}
	if len(res.Failed) != 1 || res.Failed[0].Error != "product not found" {
		t.Fatalf("expected not-found failure, got %v", res.Failed)
	}
}

func TestBulkAssign_UpsertReplacesExistingAssignment(t *testing.T) {
	store := newFakeStore(map[string]ProductConfig{
		"p1": {ProductID: "p1", Groups: []GroupAssignment{
			{GroupID: "toppings", MinSelections: 0, MaxSelections: 1},
			{GroupID: "sauces", MinSelections: 0, MaxSelections: 2},
		}},
	})

	b := NewBulkAssigner(store, 1, 0)
	res := b.Assign(context.Background(), testCatalog(), []string{"p1"}, toppingsAssignment())
	if len(res.Failed) != 0 {
		t.Fatalf("unexpected failures %v", res.Failed)
	}

	got := store.submitted["p1"]
	if len(got.Groups) != 2 {
		t.Fatalf("upsert must not duplicate the group, got %d groups", len(got.Groups))
	}
	if got.Groups[0].GroupID != "toppings" || got.Groups[0].MaxSelections != 3 || !got.Groups[0].IsRequired {
		t.Fatalf("expected toppings replaced in place, got %+v", got.Groups[0])
	}
}

func TestBulkAssign_DropsStaleGroupReferences(t *testing.T) {
	store := newFakeStore(map[string]ProductConfig{
		"p1": {ProductID: "p1", Groups: []GroupAssignment{
			{GroupID: "deleted-group", MinSelections: 0, MaxSelections: 1},
		}},
	})

	b := NewBulkAssigner(store, 1, 0)
	res := b.Assign(context.Background(), testCatalog(), []string{"p1"}, toppingsAssignment())
	if len(res.Failed) != 0 {
		t.Fatalf("stale reference must not block bulk assign, got %v", res.Failed)
	}

	got := store.submitted["p1"]
	for _, a := range got.Groups {
		if a.GroupID == "deleted-group" {
			t.Fatalf("stale assignment survived: %+v", got.Groups)
		}
	}
}

func TestBulkAssign_PerProductTimeoutDoesNotCancelSiblings(t *testing.T) {
	store := newFakeStore(map[string]ProductConfig{
		"slow": {ProductID: "slow"},
		"fast": {ProductID: "fast"},
	})
	store.loadDelay["slow"] = 500 * time.Millisecond

	b := NewBulkAssigner(store, 2, 50*time.Millisecond)
	res := b.Assign(context.Background(), testCatalog(), []string{"slow", "fast"}, toppingsAssignment())

	if len(res.Succeeded) != 1 || res.Succeeded[0] != "fast" {
		t.Fatalf("expected fast to succeed, got %v", res.Succeeded)
	}
	if len(res.Failed) != 1 || res.Failed[0].ProductID != "slow" {
		t.Fatalf("expected slow to time out, got %v", res.Failed)
	}
}

func TestBulkAssign_ResultKeepsInputOrder(t *testing.T) {
	store := newFakeStore(map[string]ProductConfig{
		"a": {ProductID: "a"},
		"b": {ProductID: "b"},
		"c": {ProductID: "c"},
	})
	// Stagger loads so completion order differs from input order.
	store.loadDelay["a"] = 30 * time.Millisecond
	store.loadDelay["b"] = 10 * time.Millisecond

	b := NewBulkAssigner(store, 3, 0)
	res := b.Assign(context.Background(), testCatalog(), []string{"a", "b", "c"}, toppingsAssignment())

	want := []string{"a", "b", "c"}
	if len(res.Succeeded) != len(want) {
		t.Fatalf("expected all to succeed, got %v / %v", res.Succeeded, res.Failed)
	}
	for i, id := range want {
		if res.Succeeded[i] != id {
			t.Fatalf("expected input order %v, got %v", want, res.Succeeded)
		}
	}
}

func TestBulkAssign_SequentialWhenLimitIsOne(t *testing.T) {
	store := newFakeStore(map[string]ProductConfig{
		"p1": {ProductID: "p1"},
		"p2": {ProductID: "p2"},
	})
	b := NewBulkAssigner(store, 0, 0) // <=0 falls back to sequential
	res := b.Assign(context.Background(), testCatalog(), []string{"p1", "p2"}, toppingsAssignment())
	if len(res.Succeeded) != 2 {
		t.Fatalf("expected both to succeed, got %v / %v", res.Succeeded, res.Failed)
	}
}
