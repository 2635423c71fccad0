package reconcile

import (
	"context"
	"fmt"

	"rules-service/core/dataset"
	"rules-service/core/hash"
	"rules-service/core/signing"
	"rules-service/core/snapshot"

	"go.uber.org/zap"
)

// Reconciler applies fresh sets to stores and keeps their signed lists
// current.
type Reconciler struct {
	signer    signing.Signer
	snapshots *snapshot.Cache
	logger    *zap.Logger
}

// New creates a reconciler. signer may be nil.
func New(signer signing.Signer, snapshots *snapshot.Cache, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{signer: signer, snapshots: snapshots, logger: logger}
}

// Reconcile makes store hold exactly fresh.
func (r *Reconciler) Reconcile(ctx context.Context, store dataset.Store, fresh []dataset.Item) (*Result, error) {
	return r.ReconcileWithOptions(ctx, store, fresh, ReconcileOptions{})
}

// ReconcileWithOptions is Reconcile with a dry-run switch.
func (r *Reconciler) ReconcileWithOptions(ctx context.Context, store dataset.Store, fresh []dataset.Item, opts ReconcileOptions) (*Result, error) {
	kind := store.Kind()

	items, err := normalize(fresh)
	if err != nil {
		return nil, err
	}

	if opts.DryRun {
		existing, err := store.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: kind, Plan: BuildPlan(items, existing), DryRun: true}, nil
	}

	var plan *ReconcilePlan
	err = store.Transaction(ctx, func(w dataset.Writer) error {
		existing, err := w.ListAll(ctx)
		if err != nil {
			return err
		}
		plan = BuildPlan(items, existing)
		return ApplyPlan(ctx, w, r.signer, plan)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile %s: %w", kind, err)
	}

	changed, err := r.Refresh(ctx, store)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Reconciled dataset",
		zap.String("type", string(kind)),
		zap.Int("fresh", plan.Summary.Fresh),
		zap.Int("inserted", plan.Summary.Inserted),
		zap.Int("retained", plan.Summary.Retained),
		zap.Int("deleted", plan.Summary.Deleted),
		zap.Bool("signed_list_changed", changed),
	)

	return &Result{Kind: kind, Plan: plan, SnapshotChanged: changed}, nil
}

// Save upserts a single item outside of a reconciliation cycle and
// refreshes the signed list.
func (r *Reconciler) Save(ctx context.Context, store dataset.Store, item dataset.Item) error {
	items, err := normalize([]dataset.Item{item})
	if err != nil {
		return err
	}
	it := items[0]

	err = store.Transaction(ctx, func(w dataset.Writer) error {
		sig, err := signing.SignOptional(ctx, r.signer, it.Hash)
		if err != nil {
			return err
		}
		if r.signer != nil {
			it.Signature = sig
		}
		return w.Upsert(ctx, it)
	})
	if err != nil {
		return fmt.Errorf("failed to save %s %s: %w", store.Kind(), it.Identifier, err)
	}

	_, err = r.Refresh(ctx, store)
	return err
}

// Refresh recomputes the signed list of store from its current listing.
func (r *Reconciler) Refresh(ctx context.Context, store dataset.Store) (bool, error) {
	listing, err := store.ListAll(ctx)
	if err != nil {
		return false, err
	}
	changed, err := r.snapshots.UpdateListing(ctx, store.Kind(), listing)
	if err != nil {
		return false, fmt.Errorf("failed to update signed list %s: %w", store.Kind(), err)
	}
	return changed, nil
}

func validHash(it dataset.Item) bool {
	return hash.Valid(it.Hash) && hash.SumString(it.RawData) == it.Hash
}
