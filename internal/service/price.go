package service

import (
	"context"

	"github.com/flexprice/billing-engine/internal/api/dto"
	"github.com/flexprice/billing-engine/internal/domain/price"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PriceService interface {
	// CalculatePrice prices a single feature configuration
	CalculatePrice(ctx context.Context, cfg price.Config, quantity int64, prorate *decimal.Decimal) (*price.Result, error)
	// CalculateFeaturePrice validates a raw feature definition and prices it
	CalculateFeaturePrice(ctx context.Context, req dto.FeatureRequest, currency string, quantity int64, prorate *decimal.Decimal) (*price.Result, error)
	// GetFreeUnits returns the units of a feature that cost nothing
	GetFreeUnits(ctx context.Context, cfg price.Config) float64
}

type priceService struct {
	ServiceParams
}

func NewPriceService(params ServiceParams) PriceService {
	return &priceService{ServiceParams: params}
}

func (s *priceService) CalculatePrice(ctx context.Context, cfg price.Config, quantity int64, prorate *decimal.Decimal) (*price.Result, error) {
	log := s.Logger.WithContext(ctx)

	result, err := price.CalculatePrice(cfg, quantity, prorate)
	if err != nil {
		log.Errorw("failed to calculate price",
			zap.Error(err),
			zap.Int64("quantity", quantity),
		)
		return nil, err
	}

	log.Debugw("calculated price",
		zap.String("feature_type", string(cfg.FeatureType())),
		zap.Int64("quantity", quantity),
		zap.String("unit_price", result.UnitPrice.Display),
		zap.String("total_price", result.TotalPrice.Display),
	)
	return result, nil
}

func (s *priceService) CalculateFeaturePrice(ctx context.Context, req dto.FeatureRequest, currency string, quantity int64, prorate *decimal.Decimal) (*price.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg, err := req.ToConfig(currency)
	if err != nil {
		return nil, err
	}

	return s.CalculatePrice(ctx, cfg, quantity, prorate)
}

func (s *priceService) GetFreeUnits(_ context.Context, cfg price.Config) float64 {
	return price.FreeUnits(cfg)
}
