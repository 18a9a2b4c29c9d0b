package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// empty values are treated as unset
	for _, key := range []string{"PORT", "SETTLEMENT_LOCK_TTL", "ACCOUNT_RECEIVABLE", "RATE_LIMIT", "ALLOW_NEGATIVE_STOCK"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.SettlementLockTTL)
	assert.Equal(t, "1100", cfg.Accounts.Receivable)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.False(t, cfg.AllowNegativeStock)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("ALLOW_NEGATIVE_STOCK", "true")
	t.Setenv("SETTLEMENT_LOCK_TTL", "5s")
	t.Setenv("BASE_CURRENCY", "eur")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_CONNECT_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.AllowNegativeStock)
	assert.Equal(t, 5*time.Second, cfg.SettlementLockTTL)
	assert.Equal(t, "EUR", cfg.BaseCurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
}
