package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rules-service/core/dataset"
	"rules-service/core/hash"
	"rules-service/core/metrics"
	"rules-service/core/signing"

	"go.uber.org/zap"
)

// Cache keeps the signed list of every dataset type current.
type Cache struct {
	repo      Repository
	signer    signing.Signer
	publisher Publisher
	logger    *zap.Logger

	mu sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithPublisher mirrors written lists through p.
func WithPublisher(p Publisher) Option {
	return func(c *Cache) { c.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New creates a cache over repo. signer may be nil.
func New(repo Repository, signer signing.Signer, opts ...Option) *Cache {
	c := &Cache{repo: repo, signer: signer, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the stored list of kind or dataset.ErrNotFound.
func (c *Cache) Get(ctx context.Context, kind dataset.Kind) (*SignedList, error) {
	return c.repo.Find(ctx, kind)
}

// UpdateListing serializes listings for kind and stores them if their hash
// changed. It reports whether the stored list was written.
func (c *Cache) UpdateListing(ctx context.Context, kind dataset.Kind, listings []dataset.Listing) (bool, error) {
	raw, err := dataset.MarshalListing(kind, listings)
	if err != nil {
		return false, fmt.Errorf("failed to serialize %s listing: %w", kind, err)
	}
	return c.UpdateRaw(ctx, kind, raw)
}

// UpdateRaw stores raw as the signed list of kind if its hash changed.
func (c *Cache) UpdateRaw(ctx context.Context, kind dataset.Kind, raw []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := hash.Sum(raw)

	existing, err := c.repo.Find(ctx, kind)
	if err != nil && !errors.Is(err, dataset.ErrNotFound) {
		return false, err
	}
	if existing != nil && existing.Hash == sum {
		return false, nil
	}

	signature, err := signing.SignOptional(ctx, c.signer, sum)
	if err != nil {
		return false, err
	}

	list := &SignedList{ListType: kind, Hash: sum, Signature: signature, RawData: string(raw)}
	if err := c.repo.Save(ctx, list); err != nil {
		return false, err
	}
	metrics.IncSignedListUpdate(string(kind))

	if existing == nil {
		c.logger.Info("Signed list created", zap.String("type", string(kind)), zap.String("hash", sum))
	} else {
		c.logger.Info("Signed list updated", zap.String("type", string(kind)), zap.String("old_hash", existing.Hash), zap.String("hash", sum))
	}

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx, list); err != nil {
			c.logger.Warn("Failed to publish signed list", zap.String("type", string(kind)), zap.Error(err))
		}
	}
	return true, nil
}
