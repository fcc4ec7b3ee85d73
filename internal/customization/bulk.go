package customization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrProductNotFound is returned by ConfigStore implementations when the
// target product does not exist. Bulk failures caused by it are reported with
// a distinct message so the caller can tell "gone" apart from "invalid".
var ErrProductNotFound = errors.New("product not found")

// ConfigStore is the persistence collaborator the bulk executor fans out over.
type ConfigStore interface {
	Load(ctx context.Context, productID string) (ProductConfig, error)
	Submit(ctx context.Context, cfg ProductConfig) error
}

// BulkFailure reports one product's failure without affecting its siblings.
type BulkFailure struct {
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

// BulkResult is the per-product outcome of a bulk assignment. Entries keep the
// input order of the product ids.
type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// BulkAssigner applies a single option-group assignment to many products,
// each independently: load, merge the assignment as an upsert, drop stale
// group references, validate, submit. One product's failure never aborts,
// rolls back, or cancels the others — partial failure is a first-class,
// expected outcome here, not an edge case.
type BulkAssigner struct {
	store ConfigStore

	// maxConcurrency bounds the fan-out; <= 0 means sequential.
	maxConcurrency int

	// perProductTimeout applies to each product unit, never to the batch.
	// A batch deadline is the caller's concern via ctx.
	perProductTimeout time.Duration
}

func NewBulkAssigner(store ConfigStore, maxConcurrency int, perProductTimeout time.Duration) *BulkAssigner {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &BulkAssigner{
		store:             store,
		maxConcurrency:    maxConcurrency,
		perProductTimeout: perProductTimeout,
	}
}

// Assign fans the assignment out across productIDs. The engine performs no
// retries; the reported failure reason (validation vs not-found vs transport)
// tells the caller whether a retry is even sensible.
func (b *BulkAssigner) Assign(ctx context.Context, cat Catalog, productIDs []string, a GroupAssignment) BulkResult {
	type outcome struct {
		productID string
		err       error
	}
	outcomes := make([]outcome, len(productIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.maxConcurrency)
	for i, productID := range productIDs {
		i, productID := i, productID
		g.Go(func() error {
			// Worker errors are collected, never returned: returning one would
			// cancel the group context and propagate the failure to siblings.
			outcomes[i] = outcome{productID: productID, err: b.assignOne(ctx, cat, productID, a)}
			return nil
		})
	}
	_ = g.Wait()

	var res BulkResult
	for _, o := range outcomes {
		if o.err != nil {
			res.Failed = append(res.Failed, BulkFailure{ProductID: o.productID, Error: o.err.Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, o.productID)
	}
	return res
}

func (b *BulkAssigner) assignOne(ctx context.Context, cat Catalog, productID string, a GroupAssignment) error {
	if b.perProductTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.perProductTimeout)
		defer cancel()
	}

	cfg, err := b.store.Load(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("load: %w", err)
	}

	merged := MergeAssignment(cfg, a)
	// Bulk writes drop stale group references instead of erroring on them, so a
	// deleted catalog group on one product does not block the whole operation.
	merged = DropUnknownGroups(merged, cat)
	merged = AutoCorrect(merged)

	if res := Validate(merged, cat); !res.Valid() {
		return fmt.Errorf("validation failed: %s", res.ErrorMessage())
	}

	if err := b.store.Submit(ctx, merged); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}
