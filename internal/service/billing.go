package service

import (
	"context"

	"github.com/flexprice/billing-engine/internal/api/dto"
	"github.com/flexprice/billing-engine/internal/cache"
	"github.com/flexprice/billing-engine/internal/domain/billing"
	"github.com/flexprice/billing-engine/internal/types"
	"go.uber.org/zap"
)

type BillingService interface {
	// ComputeCycle computes a billing cycle with the alignment options given in params
	ComputeCycle(ctx context.Context, params billing.CycleParams) (*billing.Cycle, error)
	// ComputeCycleForConfig computes a billing cycle for cfg using the configured alignment defaults
	ComputeCycleForConfig(ctx context.Context, cfg billing.Config, req dto.CycleRequest) (*billing.Cycle, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

func (s *billingService) ComputeCycle(ctx context.Context, params billing.CycleParams) (*billing.Cycle, error) {
	log := s.Logger.WithContext(ctx)

	key := cycleCacheKey(params)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if cycle, ok := cached.(billing.Cycle); ok {
				log.Debugw("billing cycle cache hit", zap.String("key", key))
				return &cycle, nil
			}
		}
	}

	cycle, err := billing.ComputeCycle(params)
	if err != nil {
		log.Errorw("failed to compute billing cycle",
			zap.Error(err),
			zap.String("billing_interval", string(params.Config.Interval)),
			zap.Time("cycle_start_at", params.CurrentCycleStartAt),
		)
		return nil, err
	}

	log.Debugw("computed billing cycle",
		zap.String("billing_interval", string(params.Config.Interval)),
		zap.Int("billing_interval_count", params.Config.IntervalCount),
		zap.String("billing_anchor", params.Config.Anchor.String()),
		zap.String("cycle_start", types.FormatTime(cycle.CycleStart)),
		zap.String("cycle_end", types.FormatTime(cycle.CycleEnd)),
		zap.String("proration_factor", cycle.ProrationFactor.String()),
		zap.Bool("trial", cycle.IsTrial()),
	)

	if s.Cache != nil {
		s.Cache.Set(ctx, key, *cycle, 0)
	}
	return cycle, nil
}

func (s *billingService) ComputeCycleForConfig(ctx context.Context, cfg billing.Config, req dto.CycleRequest) (*billing.Cycle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.ComputeCycle(ctx, req.ToCycleParams(cfg, s.alignment()))
}

// cycleCacheKey identifies every input of a cycle computation
func cycleCacheKey(params billing.CycleParams) string {
	cfg := params.Config
	align := params.Alignment
	return cache.GenerateKey(cache.PrefixCycle,
		cfg.Interval, cfg.IntervalCount, cfg.Anchor, cfg.PlanType,
		params.TrialDays,
		params.CurrentCycleStartAt,
		params.EndAt,
		params.CancelAt,
		params.ChangeAt,
		align.AlignStartToDay, align.AlignEndToDay, align.AlignToCalendar,
	)
}
