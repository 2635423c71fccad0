// Package dataset defines the records the service distributes and the
// stores that hold them.
//
// Every record is a DatasetItem: an opaque raw payload identified by the
// SHA-256 of that payload. Country scoped kinds (Rules, DomesticRules) key
// their items by country code plus hash, the other kinds by hash alone.
//
// # Stores
//
// A Store is the current, durable set of items of one kind. All mutations
// run inside Store.Transaction so a reconciliation cycle is applied entirely
// or not at all:
//
//   - GormStore persists items in a table (business_rules, valuesets).
//   - MemoryStore keeps items in process memory. Transactions work on a
//     copy that replaces the visible state only on success, so readers
//     observe either the state before or after a transaction.
//
// # Usage
//
//	store := dataset.NewGormStore(db, dataset.KindRules)
//	err := store.Transaction(ctx, func(w dataset.Writer) error {
//	    return w.Upsert(ctx, item)
//	})
package dataset
