package config

import (
	"testing"
	"time"

	"github.com/flexprice/billing-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, types.LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, "usd", cfg.Pricing.DefaultCurrency)
	assert.False(t, cfg.Billing.AlignStartToDay)
	assert.True(t, cfg.Billing.AlignEndToDay)
	assert.True(t, cfg.Billing.AlignToCalendar)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Empty(t, cfg.Quote.PlanFile)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FLEXPRICE_PRICING_DEFAULT_CURRENCY", "EUR")
	t.Setenv("FLEXPRICE_BILLING_ALIGN_START_TO_DAY", "true")
	t.Setenv("FLEXPRICE_CACHE_ENABLED", "true")
	t.Setenv("FLEXPRICE_CACHE_TTL", "5m")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "eur", cfg.Pricing.DefaultCurrency)
	assert.True(t, cfg.Billing.AlignStartToDay)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestNewConfig_InvalidLogLevel(t *testing.T) {
	t.Setenv("FLEXPRICE_LOGGING_LEVEL", "verbose")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{name: "default", mutate: func(*Configuration) {}},
		{name: "missing currency", mutate: func(c *Configuration) { c.Pricing.DefaultCurrency = "" }, wantErr: true},
		{name: "long currency", mutate: func(c *Configuration) { c.Pricing.DefaultCurrency = "dollar" }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Configuration) { c.Logging.Level = "trace" }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Configuration) { c.Cache.TTL = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
