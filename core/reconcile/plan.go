package reconcile

import (
	"context"
	"fmt"
	"strings"

	"rules-service/core/dataset"
	"rules-service/core/signing"
)

// BuildPlan diffs fresh against the stored listings. It does not mutate
// anything.
func BuildPlan(fresh []dataset.Item, existing []dataset.Listing) *ReconcilePlan {
	stored := make(map[dataset.Key]struct{}, len(existing))
	for _, l := range existing {
		stored[l.Key()] = struct{}{}
	}

	plan := &ReconcilePlan{}
	plan.Summary.Existing = len(existing)

	seen := make(map[dataset.Key]struct{}, len(fresh))
	for _, it := range fresh {
		key := it.Key()
		if _, dup := seen[key]; dup {
			plan.Summary.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		plan.Keep = append(plan.Keep, key)

		if _, ok := stored[key]; ok {
			plan.Summary.Retained++
			continue
		}
		plan.Inserts = append(plan.Inserts, it)
		plan.Actions = append(plan.Actions, Action{Type: ActionInsert, Key: key.String(), Identifier: it.Identifier})
	}
	plan.Summary.Fresh = len(seen)
	plan.Summary.Inserted = len(plan.Inserts)

	for _, l := range existing {
		if _, ok := seen[l.Key()]; !ok {
			plan.Summary.Deleted++
			plan.Actions = append(plan.Actions, Action{Type: ActionDelete, Key: l.Key().String(), Identifier: l.Identifier})
		}
	}

	return plan
}

// ApplyPlan executes plan through w. New items are signed before they are
// written; a signing failure aborts so the caller's transaction rolls back.
func ApplyPlan(ctx context.Context, w dataset.Writer, signer signing.Signer, plan *ReconcilePlan) error {
	var (
		deleted int
		err     error
	)
	if len(plan.Keep) == 0 {
		deleted, err = w.DeleteAll(ctx)
	} else {
		deleted, err = w.DeleteAllExcept(ctx, plan.Keep)
	}
	if err != nil {
		return err
	}
	plan.Summary.Deleted = deleted

	for _, it := range plan.Inserts {
		if signer != nil {
			sig, err := signing.SignOptional(ctx, signer, it.Hash)
			if err != nil {
				return err
			}
			it.Signature = sig
		}
		if err := w.Upsert(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

// normalize upper-cases country codes and verifies every hash.
func normalize(fresh []dataset.Item) ([]dataset.Item, error) {
	out := make([]dataset.Item, len(fresh))
	for i, it := range fresh {
		if !validHash(it) {
			return nil, fmt.Errorf("%w: %s %s", ErrHashMismatch, it.Identifier, it.Hash)
		}
		it.Country = strings.ToUpper(it.Country)
		out[i] = it
	}
	return out, nil
}
