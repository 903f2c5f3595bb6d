package dto

import (
	"time"

	"github.com/flexprice/billing-engine/internal/domain/billing"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/flexprice/billing-engine/internal/validator"
	"github.com/samber/lo"
)

// BillingConfigRequest is the raw billing configuration of a plan version
type BillingConfigRequest struct {
	BillingInterval      types.BillingInterval `json:"billing_interval" yaml:"billing_interval" validate:"required"`
	BillingIntervalCount int                   `json:"billing_interval_count,omitempty" yaml:"billing_interval_count,omitempty" validate:"omitempty,min=1"`
	BillingAnchor        types.BillingAnchor   `json:"billing_anchor,omitempty" yaml:"billing_anchor,omitempty" validate:"billing_anchor"`
	PlanType             types.PlanType        `json:"plan_type,omitempty" yaml:"plan_type,omitempty"`
}

func (r *BillingConfigRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.ToConfig().Validate()
}

// ToConfig applies the defaults: one interval, recurring, and onetime plans
// billed on the onetime interval
func (r *BillingConfigRequest) ToConfig() billing.Config {
	cfg := billing.Config{
		Interval:      r.BillingInterval,
		IntervalCount: lo.Ternary(r.BillingIntervalCount == 0, 1, r.BillingIntervalCount),
		Anchor:        r.BillingAnchor,
		PlanType:      lo.Ternary(r.PlanType == "", types.PlanTypeRecurring, r.PlanType),
	}
	if cfg.PlanType == types.PlanTypeOnetime {
		cfg.Interval = types.BillingIntervalOnetime
	}
	return cfg
}

// CycleRequest positions a subscription in time: when its current cycle
// starts and the dates that cut it short
type CycleRequest struct {
	StartAt   time.Time  `json:"start_at" yaml:"start_at"`
	TrialDays int        `json:"trial_days,omitempty" yaml:"trial_days,omitempty" validate:"min=0"`
	EndAt     *time.Time `json:"end_at,omitempty" yaml:"end_at,omitempty"`
	CancelAt  *time.Time `json:"cancel_at,omitempty" yaml:"cancel_at,omitempty"`
	ChangeAt  *time.Time `json:"change_at,omitempty" yaml:"change_at,omitempty"`
}

func (r *CycleRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.StartAt.IsZero() {
		return ierr.NewError("start_at is required").
			WithHint("Cycle start date is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToCycleParams builds the cycle calculator input for cfg
func (r *CycleRequest) ToCycleParams(cfg billing.Config, alignment billing.Alignment) billing.CycleParams {
	return billing.CycleParams{
		TrialDays:           r.TrialDays,
		CurrentCycleStartAt: r.StartAt.UTC(),
		Config:              cfg,
		EndAt:               utcPtr(r.EndAt),
		CancelAt:            utcPtr(r.CancelAt),
		ChangeAt:            utcPtr(r.ChangeAt),
		Alignment:           alignment,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return lo.ToPtr(t.UTC())
}
