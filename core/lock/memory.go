package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLocker is a process local Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	token string
	until time.Time
}

// NewMemoryLocker creates an empty locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: map[string]memoryEntry{}, now: time.Now}
}

// TryAcquire takes name unless a live entry exists.
func (l *MemoryLocker) TryAcquire(_ context.Context, name string, maxHold time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.locks[name]; ok && now.Before(e.until) {
		return nil, ErrNotAcquired
	}

	token := uuid.NewString()
	l.locks[name] = memoryEntry{token: token, until: now.Add(maxHold)}
	return &memoryLease{locker: l, name: name, token: token, acquiredAt: now}, nil
}

type memoryLease struct {
	locker     *MemoryLocker
	name       string
	token      string
	acquiredAt time.Time
}

func (m *memoryLease) AcquiredAt() time.Time { return m.acquiredAt }

func (m *memoryLease) Release(_ context.Context, keepUntil time.Time) error {
	l := m.locker
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.locks[m.name]
	if !ok || e.token != m.token {
		return nil
	}
	if l.now().Before(keepUntil) {
		e.until = keepUntil
		l.locks[m.name] = e
		return nil
	}
	delete(l.locks, m.name)
	return nil
}
