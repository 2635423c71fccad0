package countrylist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rules-service/core/dataset"
	"rules-service/core/hash"
	"rules-service/core/metrics"
	"rules-service/core/readcache"
	"rules-service/core/signing"
	"rules-service/core/snapshot"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// EmptyList is served before the first download.
const EmptyList = "[]"

// FetchFunc downloads the country list as a JSON array.
type FetchFunc func(ctx context.Context, log *zap.Logger) (string, error)

// Service reads and updates the country list.
type Service struct {
	repo      Repository
	signer    signing.Signer
	snapshots *snapshot.Cache
	cache     *readcache.Cache
	logger    *zap.Logger
}

// NewService creates a new country list service. signer may be nil.
func NewService(repo Repository, signer signing.Signer, snapshots *snapshot.Cache, cache *readcache.Cache, logger *zap.Logger) *Service {
	return &Service{repo: repo, signer: signer, snapshots: snapshots, cache: cache, logger: logger}
}

// Get returns the current country list. Before the first update it
// returns an unsigned empty list.
func (s *Service) Get(ctx context.Context) (*Entity, error) {
	return readcache.Get(s.cache, "countrylist", func() (*Entity, error) {
		e, err := s.repo.Find(ctx)
		if errors.Is(err, dataset.ErrNotFound) {
			return &Entity{ID: recordID, RawData: EmptyList, Hash: hash.SumString(EmptyList)}, nil
		}
		return e, err
	})
}

// Update replaces the country list with raw. It reports whether the record
// changed; an identical payload leaves the record untouched. Both
// signatures are computed before anything is written, so a signing
// failure persists nothing.
func (s *Service) Update(ctx context.Context, raw string) (bool, error) {
	if !json.Valid([]byte(raw)) {
		return false, errors.New("country list is not valid json")
	}

	changed := false
	err := readcache.WithInvalidation(s.cache, func() error {
		current, err := s.repo.Find(ctx)
		if err != nil && !errors.Is(err, dataset.ErrNotFound) {
			return err
		}

		var next *Entity
		if current == nil || current.RawData != raw {
			next = &Entity{RawData: raw, Hash: hash.SumString(raw)}
			next.Signature, err = signing.SignOptional(ctx, s.signer, next.Hash)
			if err != nil {
				return fmt.Errorf("failed to sign country list: %w", err)
			}
		}

		// Also runs for an unchanged record, repairing a signed list left
		// behind by an earlier failed update.
		if _, err := s.snapshots.UpdateRaw(ctx, dataset.KindCountryList, []byte(raw)); err != nil {
			return fmt.Errorf("failed to update country list signed list: %w", err)
		}

		if next == nil {
			return nil
		}
		if err := s.repo.Save(ctx, next); err != nil {
			return fmt.Errorf("failed to save country list: %w", err)
		}
		changed = true
		return nil
	})
	return changed, err
}

// Init makes sure a signed list exists for the stored country list.
func (s *Service) Init(ctx context.Context) error {
	current, err := s.repo.Find(ctx)
	raw := EmptyList
	switch {
	case err == nil:
		raw = current.RawData
	case !errors.Is(err, dataset.ErrNotFound):
		return err
	}
	return readcache.WithInvalidation(s.cache, func() error {
		_, err := s.snapshots.UpdateRaw(ctx, dataset.KindCountryList, []byte(raw))
		return err
	})
}

// Sync downloads the country list and applies it. An empty download is
// skipped unless allowEmpty is set.
func (s *Service) Sync(ctx context.Context, log *zap.Logger, fetch FetchFunc, allowEmpty bool) error {
	kind := string(dataset.KindCountryList)
	start := time.Now()
	log = log.With(zap.String("dataset", kind))
	log.Info("Download started")

	raw, err := fetch(ctx, log)
	if err != nil {
		metrics.ObserveSync(kind, metrics.OutcomeFailure, start)
		return fmt.Errorf("failed to fetch country list: %w", err)
	}

	var countries []string
	if err := json.Unmarshal([]byte(raw), &countries); err != nil {
		metrics.ObserveSync(kind, metrics.OutcomeFailure, start)
		return fmt.Errorf("country list is not a json array of strings: %w", err)
	}
	if len(countries) == 0 && !allowEmpty {
		log.Warn("Upstream returned no items, skipping update")
		metrics.ObserveSync(kind, metrics.OutcomeSkipped, start)
		return nil
	}

	changed, err := s.Update(ctx, raw)
	if err != nil {
		metrics.ObserveSync(kind, metrics.OutcomeFailure, start)
		return err
	}
	metrics.ObserveSync(kind, metrics.OutcomeSuccess, start)
	log.Info("Download finished",
		zap.Int("countries", len(countries)),
		zap.Bool("changed", changed),
		zap.Duration("took", time.Since(start)))
	return nil
}
