// Package lock provides the named distributed lock that keeps a
// synchronization job from running on two instances at once.
//
// A lock is acquired with a maximum hold (the lease TTL, so a crashed holder
// cannot block others forever) and released with a minimum hold: a lock
// released earlier than acquiredAt+minHold stays held until then, which
// keeps fast jobs on several instances from running back to back.
//
// Contenders that cannot acquire the lock skip the run silently.
//
// Three lockers are available:
//
//   - RedisLocker: SET NX PX with a token checked on release.
//   - DBLocker: a shedlock table, insert or take over an expired row.
//   - MemoryLocker: process local, for single-instance setups and tests.
//
// # Usage
//
//	ran, err := lock.WithDistributedLock(ctx, locker, "rules_download", 0, 30*time.Minute, func(ctx context.Context) error {
//	    return syncRules(ctx)
//	})
package lock
