// Package catalog serves the list-shaped dataset types (Rules, ValueSets,
// DomesticRules) to readers and applies updates to them.
//
// Every read goes through the type's read cache. Every write goes through
// the reconciler inside readcache.WithInvalidation, so readers see either
// the state before or after an update.
package catalog

import (
	"context"
	"errors"
	"strings"

	"rules-service/core/dataset"
	"rules-service/core/readcache"
	"rules-service/core/reconcile"
	"rules-service/core/snapshot"
)

// Service is the cached read/update facade of one dataset store.
type Service struct {
	store      dataset.Store
	reconciler *reconcile.Reconciler
	snapshots  *snapshot.Cache
	cache      *readcache.Cache
}

// NewService creates a service over store using cache for reads.
func NewService(store dataset.Store, reconciler *reconcile.Reconciler, snapshots *snapshot.Cache, cache *readcache.Cache) *Service {
	return &Service{store: store, reconciler: reconciler, snapshots: snapshots, cache: cache}
}

// Kind returns the dataset type served.
func (s *Service) Kind() dataset.Kind { return s.store.Kind() }

// Init makes sure the signed list reflects the store at startup.
func (s *Service) Init(ctx context.Context) error {
	return readcache.WithInvalidation(s.cache, func() error {
		_, err := s.reconciler.Refresh(ctx, s.store)
		return err
	})
}

// List returns the listing of every item.
func (s *Service) List(ctx context.Context) ([]dataset.Listing, error) {
	return readcache.Get(s.cache, "list", func() ([]dataset.Listing, error) {
		return s.store.ListAll(ctx)
	})
}

// ListByCountry returns the listing of one country.
func (s *Service) ListByCountry(ctx context.Context, country string) ([]dataset.Listing, error) {
	return readcache.Get(s.cache, "country:"+strings.ToUpper(country), func() ([]dataset.Listing, error) {
		return s.store.ListByCountry(ctx, country)
	})
}

// SignedList returns the signed list. When none was stored yet it falls
// back to an unsigned rendering of the current listing.
func (s *Service) SignedList(ctx context.Context) (*snapshot.SignedList, error) {
	return readcache.Get(s.cache, "signed", func() (*snapshot.SignedList, error) {
		list, err := s.snapshots.Get(ctx, s.store.Kind())
		if err == nil {
			return list, nil
		}
		if !errors.Is(err, dataset.ErrNotFound) {
			return nil, err
		}

		listing, err := s.store.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := dataset.MarshalListing(s.store.Kind(), listing)
		if err != nil {
			return nil, err
		}
		return &snapshot.SignedList{ListType: s.store.Kind(), RawData: string(raw)}, nil
	})
}

// Get returns a single item or dataset.ErrNotFound.
func (s *Service) Get(ctx context.Context, key dataset.Key) (*dataset.Item, error) {
	key.Country = strings.ToUpper(key.Country)
	return readcache.Get(s.cache, "item:"+key.String(), func() (*dataset.Item, error) {
		return s.store.GetByKey(ctx, key)
	})
}

// Update reconciles the store against fresh.
func (s *Service) Update(ctx context.Context, fresh []dataset.Item) (*reconcile.Result, error) {
	var result *reconcile.Result
	err := readcache.WithInvalidation(s.cache, func() error {
		var err error
		result, err = s.reconciler.Reconcile(ctx, s.store, fresh)
		return err
	})
	return result, err
}

// Plan computes the reconciliation plan for fresh without applying it.
func (s *Service) Plan(ctx context.Context, fresh []dataset.Item) (*reconcile.Result, error) {
	return s.reconciler.ReconcileWithOptions(ctx, s.store, fresh, reconcile.ReconcileOptions{DryRun: true})
}

// Save stores one item directly.
func (s *Service) Save(ctx context.Context, item dataset.Item) error {
	return readcache.WithInvalidation(s.cache, func() error {
		return s.reconciler.Save(ctx, s.store, item)
	})
}
