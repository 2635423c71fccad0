package dataset

import "context"

// Store holds the current set of items of one kind.
type Store interface {
	// Kind returns the dataset kind held by the store.
	Kind() Kind
	// ListAll returns the metadata of every item, ordered by identifier and
	// then by insertion order.
	ListAll(ctx context.Context) ([]Listing, error)
	// ListByCountry returns the listings of one country, ignoring case.
	ListByCountry(ctx context.Context, country string) ([]Listing, error)
	// GetByKey returns a full item or ErrNotFound.
	GetByKey(ctx context.Context, key Key) (*Item, error)
	// Transaction runs fn atomically. If fn returns an error nothing it did
	// becomes visible.
	Transaction(ctx context.Context, fn func(w Writer) error) error
}

// Writer mutates a store inside a transaction.
type Writer interface {
	// ListAll returns the listings as seen by the transaction.
	ListAll(ctx context.Context) ([]Listing, error)
	// Upsert inserts the item or overwrites the item with the same key.
	Upsert(ctx context.Context, item Item) error
	// DeleteAllExcept removes every item whose key is not in keep and
	// returns how many were removed.
	DeleteAllExcept(ctx context.Context, keep []Key) (int, error)
	// DeleteAll removes every item and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)
}
