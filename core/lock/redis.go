package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock if the caller still owns it, or shortens
// it to the remaining minimum hold.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
local keep = tonumber(ARGV[2])
if keep > 0 then
	return redis.call("PEXPIRE", KEYS[1], keep)
end
return redis.call("DEL", KEYS[1])
`)

// RedisLocker implements Locker on a Redis key per lock.
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	owner  string
	now    func() time.Time
}

// NewRedisLocker creates a locker storing keys under prefix.
func NewRedisLocker(client redis.UniversalClient, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, owner: ownerID(), now: time.Now}
}

// TryAcquire sets the key if absent with maxHold as TTL.
func (l *RedisLocker) TryAcquire(ctx context.Context, name string, maxHold time.Duration) (Lease, error) {
	key := l.prefix + name
	token := l.owner + "/" + uuid.NewString()
	acquiredAt := l.now()

	ok, err := l.client.SetNX(ctx, key, token, maxHold).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SETNX %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &redisLease{locker: l, key: key, token: token, acquiredAt: acquiredAt}, nil
}

type redisLease struct {
	locker     *RedisLocker
	key        string
	token      string
	acquiredAt time.Time
}

func (r *redisLease) AcquiredAt() time.Time { return r.acquiredAt }

func (r *redisLease) Release(ctx context.Context, keepUntil time.Time) error {
	keep := keepUntil.Sub(r.locker.now()).Milliseconds()
	if keep < 0 {
		keep = 0
	}
	if err := releaseScript.Run(ctx, r.locker.client, []string{r.key}, r.token, keep).Err(); err != nil {
		return fmt.Errorf("redis release %s: %w", r.key, err)
	}
	return nil
}
