package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Lock.Backend)
	assert.Equal(t, "none", cfg.Signing.Mode)
	assert.True(t, cfg.Sync.Rules.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Rules.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Sync.ValueSets.LockMax)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
	assert.Equal(t, 4, cfg.Gateway.MaxConcurrency)
	assert.False(t, cfg.Domestic.Enabled)
	assert.Equal(t, "signedlists", cfg.Storage.PublishPrefix)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SYNC_RULES_INTERVAL=90s\nSYNC_ALLOW_EMPTY=true\nLOCK_BACKEND=database\nGATEWAY_BASE_URL=https://gw.example.org\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"SYNC_RULES_INTERVAL", "SYNC_ALLOW_EMPTY", "LOCK_BACKEND", "GATEWAY_BASE_URL"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Sync.Rules.Interval)
	assert.True(t, cfg.Sync.AllowEmpty)
	assert.Equal(t, "database", cfg.Lock.Backend)
	assert.Equal(t, "https://gw.example.org", cfg.Gateway.BaseURL)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Lock.Backend = "zookeeper"
	assert.ErrorContains(t, cfg.Validate(), "lock backend")

	cfg = base()
	cfg.Lock.Backend = "redis"
	assert.ErrorContains(t, cfg.Validate(), "redis.url")

	cfg = base()
	cfg.Signing.Mode = "local"
	assert.ErrorContains(t, cfg.Validate(), "key_file")

	cfg = base()
	cfg.Domestic.Enabled = true
	assert.ErrorContains(t, cfg.Validate(), "storage.enabled")

	cfg = base()
	cfg.Server.Port = "http"
	assert.Error(t, cfg.Validate())
}
