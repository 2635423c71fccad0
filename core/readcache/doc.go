// Package readcache memoizes read operations per dataset type.
//
// Each dataset type owns a named Cache (business_rules, value_sets,
// country_list, domestic_rules). Reads go through Get, which loads a value
// once per key and shares it between concurrent callers through
// singleflight. Any mutation of the type runs inside WithInvalidation, which
// evicts every entry of that cache once the mutation returns.
//
// Invalidation bumps a generation counter. A load that started before the
// invalidation finishes normally for its callers but is not stored, so a
// stale value can never outlive the mutation that made it stale.
//
// # Usage
//
//	registry := readcache.NewRegistry(0)
//	rules := registry.Named("business_rules")
//
//	list, err := readcache.Get(rules, "list", func() ([]dataset.Listing, error) {
//	    return store.ListAll(ctx)
//	})
//
//	err = readcache.WithInvalidation(rules, func() error {
//	    _, err := reconciler.Reconcile(ctx, store, fresh)
//	    return err
//	})
package readcache
