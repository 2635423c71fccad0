// Package config loads the service configuration.
//
// Values come from environment variables, optionally seeded from a .env
// file. Every field declares its default in a `default` struct tag and its
// key in a `mapstructure` tag; nested keys map to upper-case environment
// variables joined by underscores (sync.rules.interval is read from
// SYNC_RULES_INTERVAL).
//
// # Configuration Structure
//
//   - Server: port, API key, test API, swagger
//   - Log: level and format
//   - Database: driver (mysql, sqlite) and connection
//   - Storage: S3/MinIO credentials, bucket and publish prefix
//   - Redis: connection URL
//   - Lock: backend (memory, redis, database)
//   - Signing: mode (none, local, transit) and key material
//   - Sync: per dataset schedule (enabled, interval, lock_min, lock_max)
//   - Gateway: upstream gateway URL and limits
//   - Domestic: domestic rule source prefix
//   - Cache: read cache TTL
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
