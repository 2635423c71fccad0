// Package redis builds the shared go-redis client from configuration.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds configuration for the Redis connection.
type Config struct {
	// URL is the redis:// connection URL. Empty disables Redis.
	URL string `mapstructure:"url" default:""`
	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size" default:"10"`
	// DialTimeout bounds connection setup.
	DialTimeout time.Duration `mapstructure:"dial_timeout" default:"5s"`
	// ReadTimeout bounds socket reads.
	ReadTimeout time.Duration `mapstructure:"read_timeout" default:"3s"`
	// WriteTimeout bounds socket writes.
	WriteTimeout time.Duration `mapstructure:"write_timeout" default:"3s"`
}

// New creates and pings a client. It returns nil when no URL is configured.
func New(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
