package main

import (
	"github.com/flexprice/billing-engine/internal/cache"
	"github.com/flexprice/billing-engine/internal/config"
	"github.com/flexprice/billing-engine/internal/logger"
	"github.com/flexprice/billing-engine/internal/service"
	"github.com/flexprice/billing-engine/internal/validator"
	govalidator "github.com/go-playground/validator/v10"
	"go.uber.org/fx"
)

// deps is everything a quote run needs from the container
type deps struct {
	Config       *config.Configuration
	Logger       *logger.Logger
	QuoteService service.QuoteService
}

// buildDeps wires the engine the same way for every command. Only the
// populated target is returned, the container itself is discarded since
// nothing registers lifecycle hooks.
func buildDeps() (*deps, error) {
	var out deps
	var opts []fx.Option

	opts = append(opts,
		fx.NopLogger,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,
		),
	)

	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPriceService,
			service.NewPlanService,
			service.NewBillingService,
			service.NewProrationService,
			service.NewQuoteService,
		),
	)

	opts = append(opts,
		fx.Invoke(registerValidator),
		fx.Populate(&out.Config, &out.Logger, &out.QuoteService),
	)

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return nil, err
	}
	return &out, nil
}

// registerValidator forces the custom validation tags to be registered
// before any request is decoded
func registerValidator(v *govalidator.Validate, log *logger.Logger) {
	log.Debugw("validator registered", "tags", []string{"currency", "billing_anchor"})
}
