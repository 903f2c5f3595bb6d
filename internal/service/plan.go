package service

import (
	"context"

	"github.com/flexprice/billing-engine/internal/api/dto"
	"github.com/flexprice/billing-engine/internal/domain/plan"
	"github.com/flexprice/billing-engine/internal/domain/price"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PlanService interface {
	// ParsePlanVersion validates a raw plan version and converts it into the domain model
	ParsePlanVersion(ctx context.Context, req dto.PlanVersionRequest) (*plan.PlanVersion, error)
	// CalculateFlatPrice sums the fixed fees of a plan version
	CalculateFlatPrice(ctx context.Context, pv *plan.PlanVersion, prorate *decimal.Decimal) (price.Amount, error)
	// CalculateTotalPrice prices every feature of a plan version
	CalculateTotalPrice(ctx context.Context, pv *plan.PlanVersion, quantities map[string]int64, prorate *decimal.Decimal) (*plan.Quote, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) ParsePlanVersion(ctx context.Context, req dto.PlanVersionRequest) (*plan.PlanVersion, error) {
	log := s.Logger.WithContext(ctx)

	if err := req.Validate(); err != nil {
		log.Debugw("invalid plan version", zap.String("plan_version_id", req.ID), zap.Error(err))
		return nil, err
	}

	pv, err := req.ToPlanVersion()
	if err != nil {
		log.Debugw("invalid plan version", zap.String("plan_version_id", req.ID), zap.Error(err))
		return nil, err
	}

	log.Debugw("parsed plan version",
		zap.String("plan_version_id", pv.ID),
		zap.String("currency", pv.Currency),
		zap.Int("features", len(pv.Features)),
	)
	return pv, nil
}

func (s *planService) CalculateFlatPrice(ctx context.Context, pv *plan.PlanVersion, prorate *decimal.Decimal) (price.Amount, error) {
	amount, err := plan.CalculateFlatPrice(pv, prorate)
	if err != nil {
		s.Logger.WithContext(ctx).Errorw("failed to calculate flat price",
			zap.String("plan_version_id", pv.ID),
			zap.Error(err),
		)
		return price.Amount{}, err
	}
	return amount, nil
}

func (s *planService) CalculateTotalPrice(ctx context.Context, pv *plan.PlanVersion, quantities map[string]int64, prorate *decimal.Decimal) (*plan.Quote, error) {
	log := s.Logger.WithContext(ctx)

	quote, err := plan.CalculateTotalPrice(pv, quantities, prorate)
	if err != nil {
		log.Errorw("failed to calculate plan price",
			zap.String("plan_version_id", pv.ID),
			zap.Error(err),
		)
		return nil, err
	}

	for _, item := range quote.LineItems {
		log.Debugw("priced feature",
			zap.String("plan_version_id", pv.ID),
			zap.String("feature", item.Slug),
			zap.Int64("quantity", item.Quantity),
			zap.String("total_price", item.TotalPrice.Display),
		)
	}
	return quote, nil
}
