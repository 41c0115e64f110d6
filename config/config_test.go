package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "quote-topic", cfg.Kafka.QuoteTopic)
	assert.Equal(t, 30*time.Minute, cfg.Checkout.ExpireAfter)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("CATALOG_SERVER_ADDRESS", ":8088")
	t.Setenv("CATALOG_STORAGE_DRIVER", "mongodb")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.Server.Address)
	assert.Equal(t, "mongodb", cfg.Storage.Driver)
}

func TestValidate_RejectsUnknownStorage(t *testing.T) {
	var cfg Config
	cfg.Storage.Driver = "redis"
	cfg.Auth.JWTSecret = "x"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")
}
