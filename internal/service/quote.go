package service

import (
	"context"

	"github.com/flexprice/billing-engine/internal/api/dto"
	"github.com/flexprice/billing-engine/internal/types"
	"go.uber.org/zap"
)

type QuoteService interface {
	// CreateQuote prices the current cycle of a plan version and the optional plan change
	CreateQuote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error)
}

type quoteService struct {
	ServiceParams
	planService      PlanService
	billingService   BillingService
	prorationService ProrationService
}

func NewQuoteService(
	params ServiceParams,
	planService PlanService,
	billingService BillingService,
	prorationService ProrationService,
) QuoteService {
	return &quoteService{
		ServiceParams:    params,
		planService:      planService,
		billingService:   billingService,
		prorationService: prorationService,
	}
}

func (s *quoteService) CreateQuote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error) {
	ctx = types.WithRequestID(ctx)
	log := s.Logger.WithContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	pv, err := s.planService.ParsePlanVersion(ctx, req.Plan)
	if err != nil {
		return nil, err
	}

	cycle, err := s.billingService.ComputeCycleForConfig(ctx, pv.BillingConfig, req.Cycle)
	if err != nil {
		return nil, err
	}

	factor := cycle.ProrationFactor
	quote, err := s.planService.CalculateTotalPrice(ctx, pv, req.Quantities, &factor)
	if err != nil {
		return nil, err
	}

	flatPrice, err := s.planService.CalculateFlatPrice(ctx, pv, &factor)
	if err != nil {
		return nil, err
	}

	resp := &dto.QuoteResponse{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUOTE),
		Number:        types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_QUOTE),
		PlanVersionID: pv.ID,
		Cycle:         cycle,
		FlatPrice:     flatPrice,
		Quote:         quote,
	}

	if req.Change != nil {
		params := PlanChangeParams{
			Current:     pv,
			Cycle:       req.Cycle,
			Action:      req.Change.Action,
			EffectiveAt: req.Change.EffectiveAt,
			BillingMode: req.Change.BillingMode,
		}

		if req.Change.NextPlan != nil {
			if params.Next, err = s.planService.ParsePlanVersion(ctx, *req.Change.NextPlan); err != nil {
				return nil, err
			}
		}

		if params.OriginalAmountPaid, params.PreviousCreditsIssued, err = req.Change.ParseAmounts(pv.Currency); err != nil {
			return nil, err
		}

		if resp.Proration, err = s.prorationService.CalculatePlanChange(ctx, params); err != nil {
			return nil, err
		}
	}

	log.Infow("created quote",
		zap.String("quote_id", resp.ID),
		zap.String("plan_version_id", pv.ID),
		zap.String("total", quote.Total.Display),
	)
	return resp, nil
}
