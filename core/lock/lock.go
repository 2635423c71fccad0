package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// ErrNotAcquired is returned by Locker.TryAcquire when another holder owns
// the lock.
var ErrNotAcquired = errors.New("lock: not acquired")

// Lease is a held lock.
type Lease interface {
	// AcquiredAt is the time the lock was taken.
	AcquiredAt() time.Time
	// Release gives the lock up. If keepUntil is in the future the lock
	// stays held until then and expires on its own.
	Release(ctx context.Context, keepUntil time.Time) error
}

// Locker hands out named leases.
type Locker interface {
	// TryAcquire takes the lock for at most maxHold, or returns
	// ErrNotAcquired without waiting.
	TryAcquire(ctx context.Context, name string, maxHold time.Duration) (Lease, error)
}

// WithDistributedLock runs fn while holding the named lock. When the lock is
// held elsewhere fn is not run and ran is false. The lock is kept until at
// least acquiredAt+minHold.
func WithDistributedLock(ctx context.Context, locker Locker, name string, minHold, maxHold time.Duration, fn func(ctx context.Context) error) (ran bool, err error) {
	if maxHold <= 0 {
		return false, fmt.Errorf("lock %s: max hold must be positive", name)
	}
	if minHold > maxHold {
		minHold = maxHold
	}

	lease, err := locker.TryAcquire(ctx, name, maxHold)
	if errors.Is(err, ErrNotAcquired) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}

	defer func() {
		// Release with a fresh context so a cancelled run still frees the lock
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if relErr := lease.Release(releaseCtx, lease.AcquiredAt().Add(minHold)); relErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to release lock %s: %w", name, relErr))
		}
	}()

	return true, fn(ctx)
}

// ownerID identifies this process as a lock holder.
func ownerID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return host + "/" + uuid.NewString()[:8]
}
