package catalog

import (
	"context"
	"fmt"
	"time"

	"rules-service/core/dataset"
	"rules-service/core/metrics"
	"rules-service/core/reconcile"

	"go.uber.org/zap"
)

// FetchFunc downloads the authoritative items of one dataset type.
type FetchFunc func(ctx context.Context, log *zap.Logger) ([]dataset.Item, error)

// SyncOptions controls a synchronization cycle.
type SyncOptions struct {
	// AllowEmpty applies an empty fetch result, wiping the store. When
	// false an empty result is treated as an upstream outage and the cycle
	// is skipped.
	AllowEmpty bool
	// DryRun computes the plan without applying it.
	DryRun bool
}

// Sync runs one synchronization cycle: fetch, then reconcile. It returns a
// nil result when the cycle was skipped.
func (s *Service) Sync(ctx context.Context, log *zap.Logger, fetch FetchFunc, opts SyncOptions) (*reconcile.Result, error) {
	kind := string(s.Kind())
	start := time.Now()
	log = log.With(zap.String("dataset", kind))
	log.Info("Download started")

	items, err := fetch(ctx, log)
	if err != nil {
		metrics.ObserveSync(kind, metrics.OutcomeFailure, start)
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
	}

	if len(items) == 0 && !opts.AllowEmpty {
		log.Warn("Upstream returned no items, skipping update")
		metrics.ObserveSync(kind, metrics.OutcomeSkipped, start)
		return nil, nil
	}

	if opts.DryRun {
		result, err := s.Plan(ctx, items)
		if err != nil {
			return nil, err
		}
		log.Info("Download finished (dry run)", summaryFields(result)...)
		return result, nil
	}

	result, err := s.Update(ctx, items)
	if err != nil {
		metrics.ObserveSync(kind, metrics.OutcomeFailure, start)
		return nil, fmt.Errorf("failed to reconcile %s: %w", kind, err)
	}

	metrics.ObserveSync(kind, metrics.OutcomeSuccess, start)
	metrics.AddSyncItems(kind, result.Plan.Summary.Inserted, result.Plan.Summary.Deleted)
	log.Info("Download finished", append(summaryFields(result), zap.Duration("took", time.Since(start)))...)
	return result, nil
}

// SyncJob adapts Sync to a scheduler job body.
func (s *Service) SyncJob(fetch FetchFunc, opts SyncOptions) func(ctx context.Context, log *zap.Logger) error {
	return func(ctx context.Context, log *zap.Logger) error {
		_, err := s.Sync(ctx, log, fetch, opts)
		return err
	}
}

func summaryFields(r *reconcile.Result) []zap.Field {
	sum := r.Plan.Summary
	return []zap.Field{
		zap.Int("fresh", sum.Fresh),
		zap.Int("inserted", sum.Inserted),
		zap.Int("retained", sum.Retained),
		zap.Int("deleted", sum.Deleted),
		zap.Int("duplicates", sum.Duplicates),
		zap.Bool("signed_list_changed", r.SnapshotChanged),
	}
}
