package readcache

import "time"

// Config holds configuration for the read caches.
type Config struct {
	// TTL expires entries after this duration. Zero keeps entries until
	// the next invalidation.
	TTL time.Duration `mapstructure:"ttl" default:"0s"`
}
