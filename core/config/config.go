package config

import (
	"fmt"
	"reflect"
	"strings"

	"rules-service/core/database"
	"rules-service/core/lock"
	"rules-service/core/logger"
	"rules-service/core/readcache"
	"rules-service/core/redis"
	"rules-service/core/scheduler"
	"rules-service/core/server"
	"rules-service/core/signing"
	"rules-service/core/storage"
	"rules-service/feature/domestic"
	"rules-service/feature/gateway"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Redis holds configuration for the Redis connection.
	Redis redis.Config `mapstructure:"redis"`
	// Lock selects the distributed lock backend.
	Lock lock.Config `mapstructure:"lock"`
	// Signing selects the signer.
	Signing signing.Config `mapstructure:"signing"`
	// Sync holds the download schedules.
	Sync scheduler.Config `mapstructure:"sync"`
	// Gateway holds configuration for the upstream gateway.
	Gateway gateway.Config `mapstructure:"gateway"`
	// Domestic holds configuration for the domestic rules.
	Domestic domestic.Config `mapstructure:"domestic"`
	// Cache holds configuration for the read caches.
	Cache readcache.Config `mapstructure:"cache"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_RULES_INTERVAL -> sync.rules.interval)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects combinations the service cannot run with.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}

	switch c.Lock.Backend {
	case lock.BackendMemory, lock.BackendDatabase:
	case lock.BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("lock backend %q requires redis.url", c.Lock.Backend)
		}
	default:
		return fmt.Errorf("unknown lock backend %q", c.Lock.Backend)
	}

	switch c.Signing.Mode {
	case signing.ModeNone, signing.ModeTransit:
	case signing.ModeLocal:
		if c.Signing.KeyFile == "" {
			return fmt.Errorf("signing mode %q requires signing.key_file", c.Signing.Mode)
		}
	default:
		return fmt.Errorf("unknown signing mode %q", c.Signing.Mode)
	}

	if c.Domestic.Enabled && !c.Storage.Enabled {
		return fmt.Errorf("domestic rules require storage.enabled")
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
