package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "mortgage-calculator", cfg.OTELServiceName)
	assert.Equal(t, 10_000_000.0, cfg.MaxLoanAmount)
	assert.Equal(t, 30.0, cfg.MaxInterestRate)
	assert.Equal(t, 50, cfg.MaxTermYears)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("MAX_INTEREST_RATE", "25.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 25.5, cfg.MaxInterestRate)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown cache backend", key: "CACHE_BACKEND", value: "memcached"},
		{name: "port not a number", key: "PORT", value: "http"},
		{name: "port out of range", key: "PORT", value: "70000"},
		{name: "zero scenarios", key: "MAX_SCENARIOS", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestDefaultMatchesEmptyEnvironment(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 20, cfg.MaxScenarios)
}
