package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/billing-engine/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Logging LoggingConfig `validate:"required"`
	Billing BillingConfig
	Pricing PricingConfig `validate:"required"`
	Quote   QuoteConfig
	Cache   CacheConfig
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required,oneof=debug info warn error"`
}

// BillingConfig holds the default alignment options applied when a caller
// does not set them explicitly.
type BillingConfig struct {
	AlignStartToDay bool `mapstructure:"align_start_to_day"`
	AlignEndToDay   bool `mapstructure:"align_end_to_day"`
	AlignToCalendar bool `mapstructure:"align_to_calendar"`
}

type PricingConfig struct {
	DefaultCurrency string `mapstructure:"default_currency" validate:"required,len=3"`
}

// CacheConfig controls the in-memory cache of computed billing cycles
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// QuoteConfig configures the quote command.
type QuoteConfig struct {
	PlanFile   string           `mapstructure:"plan_file"`
	Quantities map[string]int64 `mapstructure:"quantities"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/flexprice")

	v.SetEnvPrefix("FLEXPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Pricing.DefaultCurrency = strings.ToLower(config.Pricing.DefaultCurrency)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("billing.align_start_to_day", false)
	v.SetDefault("billing.align_end_to_day", true)
	v.SetDefault("billing.align_to_calendar", true)
	v.SetDefault("pricing.default_currency", "usd")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "30m")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Logging.Level.Validate()
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: types.LogLevelDebug},
		Billing: BillingConfig{
			AlignStartToDay: false,
			AlignEndToDay:   true,
			AlignToCalendar: true,
		},
		Pricing: PricingConfig{DefaultCurrency: "usd"},
		Cache:   CacheConfig{Enabled: false, TTL: 30 * time.Minute},
	}
}
