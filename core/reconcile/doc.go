// Package reconcile replaces the content of a dataset store with a freshly
// fetched authoritative set.
//
// A reconciliation cycle runs in four steps:
//
// 1. Verify: every fresh item's hash must equal the SHA-256 of its raw data.
//    A single mismatch aborts the cycle before the store is touched.
//
// 2. Plan: compare the keys of the fresh set with the keys already stored.
//    Keys only present in the store are deleted, keys only present in the
//    fresh set are inserted, keys in both are retained as they are. A key
//    that appears twice in the fresh set keeps its first occurrence.
//
// 3. Apply: inside one store transaction, delete stale items (or every item
//    when the fresh set is empty), then sign and insert the new ones.
//    Retained items keep their stored signature and are never re-signed.
//
// 4. Snapshot: recompute the signed list from the committed listing. The
//    list is only rewritten when its hash changed.
//
// # Usage
//
//	rec := reconcile.New(signer, snapshots, logger)
//	result, err := rec.Reconcile(ctx, store, fresh)
//
//	// Plan only
//	result, err := rec.ReconcileWithOptions(ctx, store, fresh, reconcile.ReconcileOptions{DryRun: true})
package reconcile
