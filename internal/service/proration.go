package service

import (
	"context"
	"time"

	"github.com/flexprice/billing-engine/internal/api/dto"
	"github.com/flexprice/billing-engine/internal/domain/plan"
	"github.com/flexprice/billing-engine/internal/domain/proration"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// PlanChangeParams describes a plan change or cancellation in the middle of
// the cycle that Cycle positions
type PlanChangeParams struct {
	Current *plan.PlanVersion
	// Next is the plan switched to, nil for cancellation
	Next        *plan.PlanVersion
	Cycle       dto.CycleRequest
	Action      types.ProrationAction
	EffectiveAt time.Time
	BillingMode types.BillingMode
	Behavior    types.ProrationBehavior
	// OriginalAmountPaid defaults to the fixed fees billed for the cycle
	OriginalAmountPaid    *types.Money
	PreviousCreditsIssued *types.Money
}

type ProrationService interface {
	CalculatePlanChange(ctx context.Context, params PlanChangeParams) (*proration.ProrationResult, error)
}

type prorationService struct {
	ServiceParams
	billingService BillingService
}

// NewProrationService creates a new proration service.
func NewProrationService(params ServiceParams, billingService BillingService) ProrationService {
	return &prorationService{
		ServiceParams:  params,
		billingService: billingService,
	}
}

func (s *prorationService) CalculatePlanChange(ctx context.Context, params PlanChangeParams) (*proration.ProrationResult, error) {
	log := s.Logger.WithContext(ctx)

	if err := s.validatePlanChange(params); err != nil {
		return nil, err
	}

	currency := params.Current.Currency

	// the cycle as billed before the change
	cycleReq := params.Cycle
	cycleReq.ChangeAt = nil
	cycleReq.CancelAt = nil
	cycle, err := s.billingService.ComputeCycleForConfig(ctx, params.Current.BillingConfig, cycleReq)
	if err != nil {
		return nil, err
	}

	effectiveAt := params.EffectiveAt.UTC()
	if cycle.IsTrial() || cycle.IsOnetime() {
		log.Debugw("no proration outside recurring paid cycles",
			zap.String("plan_version_id", params.Current.ID),
			zap.Bool("trial", cycle.IsTrial()),
		)
		return emptyProration(params.Action, effectiveAt, currency), nil
	}

	oldAmount, err := plan.CalculateFlatPrice(params.Current, nil)
	if err != nil {
		return nil, err
	}

	newAmount := types.ZeroMoney(currency)
	if params.Next != nil {
		amount, err := plan.CalculateFlatPrice(params.Next, nil)
		if err != nil {
			return nil, err
		}
		newAmount = amount.Money
	}

	originalAmountPaid := lo.FromPtrOr(params.OriginalAmountPaid, oldAmount.Money.Scale(cycle.ProrationFactor))
	previousCredits := lo.FromPtrOr(params.PreviousCreditsIssued, types.ZeroMoney(currency))

	result, err := s.ProrationCalculator.Calculate(proration.ProrationParams{
		CycleStart:            cycle.FullCycleStart,
		CycleEnd:              cycle.FullCycleEnd,
		BillingMode:           lo.Ternary(params.BillingMode == "", types.BillingModeInAdvance, params.BillingMode),
		Action:                params.Action,
		ProrationDate:         effectiveAt,
		OldAmount:             oldAmount.Money,
		NewAmount:             newAmount,
		ProrationBehavior:     lo.Ternary(params.Behavior == "", types.ProrationBehaviorCreateProrations, params.Behavior),
		OriginalAmountPaid:    originalAmountPaid,
		PreviousCreditsIssued: previousCredits,
	})
	if err != nil {
		log.Errorw("proration calculation failed",
			zap.Error(err),
			zap.String("plan_version_id", params.Current.ID),
			zap.String("action", string(params.Action)),
		)
		return nil, err
	}

	if result == nil {
		log.Debugw("proration disabled", zap.String("plan_version_id", params.Current.ID))
		return emptyProration(params.Action, effectiveAt, currency), nil
	}

	log.Debugw("proration calculation completed",
		zap.String("plan_version_id", params.Current.ID),
		zap.String("action", string(params.Action)),
		zap.String("coefficient", result.Coefficient.String()),
		zap.String("net_amount", result.NetAmount.Display()),
	)
	return result, nil
}

func (s *prorationService) validatePlanChange(params PlanChangeParams) error {
	if params.Current == nil {
		return ierr.NewError("current plan version is required").
			WithHint("A plan change needs the plan version being left").
			Mark(ierr.ErrValidation)
	}

	if err := params.Action.Validate(); err != nil {
		return err
	}

	if params.EffectiveAt.IsZero() {
		return ierr.NewError("effective date is required").
			WithHint("A plan change needs the date it takes effect").
			Mark(ierr.ErrValidation)
	}

	switch params.Action {
	case types.ProrationActionCancellation:
		if params.Next != nil {
			return ierr.NewError("cancellation has no next plan").
				WithHint("Do not set a new plan when cancelling").
				Mark(ierr.ErrValidation)
		}
	default:
		if params.Next == nil {
			return ierr.NewErrorf("%s requires a next plan", params.Action).
				WithHintf("A new plan version is required to %s", params.Action).
				Mark(ierr.ErrValidation)
		}
		if params.Next.Currency != params.Current.Currency {
			return ierr.NewError("currency mismatch").
				WithHintf("Cannot change from a %s plan to a %s plan", params.Current.Currency, params.Next.Currency).
				WithReportableDetails(map[string]any{
					"current_currency": params.Current.Currency,
					"next_currency":    params.Next.Currency,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

func emptyProration(action types.ProrationAction, at time.Time, currency string) *proration.ProrationResult {
	return &proration.ProrationResult{
		CreditItems:   []proration.ProrationLineItem{},
		ChargeItems:   []proration.ProrationLineItem{},
		NetAmount:     types.ZeroMoney(currency),
		Currency:      currency,
		Action:        action,
		ProrationDate: at,
	}
}
