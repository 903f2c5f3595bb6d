package service

import (
	"github.com/flexprice/billing-engine/internal/cache"
	"github.com/flexprice/billing-engine/internal/config"
	"github.com/flexprice/billing-engine/internal/domain/billing"
	"github.com/flexprice/billing-engine/internal/domain/proration"
	"github.com/flexprice/billing-engine/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	ProrationCalculator proration.Calculator
}

// NewServiceParams creates a new ServiceParams with the default second
// based proration calculator
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
) ServiceParams {
	return ServiceParams{
		Logger:              logger,
		Config:              config,
		Cache:               cache,
		ProrationCalculator: proration.NewCalculator(proration.CalculatorTypeSecond),
	}
}

// alignment returns the configured cycle alignment defaults
func (p ServiceParams) alignment() billing.Alignment {
	if p.Config == nil {
		return billing.DefaultAlignment()
	}
	return billing.Alignment{
		AlignStartToDay: p.Config.Billing.AlignStartToDay,
		AlignEndToDay:   p.Config.Billing.AlignEndToDay,
		AlignToCalendar: p.Config.Billing.AlignToCalendar,
	}
}
