package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Local", cfg.QuietHoursTZ)
	assert.Equal(t, []string{"127.0.0.0/8", "::1"}, cfg.TrustedNetworks)
	assert.Equal(t, 5*time.Minute, cfg.SettingsCacheTTL)
	assert.Equal(t, 16, cfg.DispatchConcurrency)
	assert.Equal(t, "notify:messages", cfg.EventsChannel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("QUIET_HOURS_TZ", "UTC")
	t.Setenv("TRUSTED_NETWORKS", "10.0.0.0/8,192.168.1.1")
	t.Setenv("SETTINGS_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.HTTPPort)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedNetworks)
	assert.Equal(t, 90*time.Second, cfg.SettingsCacheTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("QUIET_HOURS_TZ", "Nowhere/Special")
		_, err := Load()
		assert.ErrorContains(t, err, "QUIET_HOURS_TZ")
	})
	t.Run("concurrency", func(t *testing.T) {
		t.Setenv("DISPATCH_CONCURRENCY", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "DISPATCH_CONCURRENCY")
	})
	t.Run("ttl", func(t *testing.T) {
		t.Setenv("SETTINGS_CACHE_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
