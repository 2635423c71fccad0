package dataset

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
)

type memoryState struct {
	items map[Key]Item
	seq   map[Key]int64
	next  int64
}

func (s *memoryState) clone() *memoryState {
	return &memoryState{items: maps.Clone(s.items), seq: maps.Clone(s.seq), next: s.next}
}

func (s *memoryState) listings() []Listing {
	out := make([]Listing, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Listing())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Identifier != out[j].Identifier {
			return out[i].Identifier < out[j].Identifier
		}
		return s.seq[out[i].Key()] < s.seq[out[j].Key()]
	})
	return out
}

// MemoryStore is an ephemeral Store living in process memory.
type MemoryStore struct {
	kind Kind

	writeMu sync.Mutex
	mu      sync.RWMutex
	state   *memoryState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(kind Kind) *MemoryStore {
	return &MemoryStore{
		kind:  kind,
		state: &memoryState{items: map[Key]Item{}, seq: map[Key]int64{}, next: 1},
	}
}

// Kind returns the dataset kind.
func (s *MemoryStore) Kind() Kind { return s.kind }

func (s *MemoryStore) current() *memoryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ListAll returns the listings of every item.
func (s *MemoryStore) ListAll(_ context.Context) ([]Listing, error) {
	return s.current().listings(), nil
}

// ListByCountry returns the listings of one country.
func (s *MemoryStore) ListByCountry(ctx context.Context, country string) ([]Listing, error) {
	all, _ := s.ListAll(ctx)
	return FilterByCountry(all, country), nil
}

// GetByKey returns the item stored under key.
func (s *MemoryStore) GetByKey(_ context.Context, key Key) (*Item, error) {
	it, ok := s.current().items[Key{Country: strings.ToUpper(key.Country), Hash: key.Hash}]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

// Transaction applies fn to a copy of the state and publishes the copy
// when fn succeeds. Transactions are serialized.
func (s *MemoryStore) Transaction(_ context.Context, fn func(w Writer) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	draft := s.current().clone()
	if err := fn(&memoryWriter{state: draft}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = draft
	s.mu.Unlock()
	return nil
}

type memoryWriter struct {
	state *memoryState
}

func (w *memoryWriter) ListAll(_ context.Context) ([]Listing, error) {
	return w.state.listings(), nil
}

func (w *memoryWriter) Upsert(_ context.Context, item Item) error {
	item.Country = strings.ToUpper(item.Country)
	key := item.Key()
	if _, ok := w.state.seq[key]; !ok {
		w.state.seq[key] = w.state.next
		w.state.next++
	}
	w.state.items[key] = item
	return nil
}

func (w *memoryWriter) DeleteAllExcept(_ context.Context, keep []Key) (int, error) {
	retain := make(map[Key]struct{}, len(keep))
	for _, k := range keep {
		retain[k] = struct{}{}
	}
	deleted := 0
	for k := range w.state.items {
		if _, ok := retain[k]; !ok {
			delete(w.state.items, k)
			delete(w.state.seq, k)
			deleted++
		}
	}
	return deleted, nil
}

func (w *memoryWriter) DeleteAll(_ context.Context) (int, error) {
	n := len(w.state.items)
	w.state.items = map[Key]Item{}
	w.state.seq = map[Key]int64{}
	return n, nil
}
