package lock

// Config holds configuration for the distributed lock.
type Config struct {
	// Backend selects the locker (memory, redis, database).
	Backend string `mapstructure:"backend" default:"memory"`
	// KeyPrefix namespaces Redis lock keys.
	KeyPrefix string `mapstructure:"key_prefix" default:"rules-service:lock:"`
}

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendDatabase = "database"
)
