package dto

import (
	"time"

	"github.com/flexprice/billing-engine/internal/domain/billing"
	"github.com/flexprice/billing-engine/internal/domain/plan"
	"github.com/flexprice/billing-engine/internal/domain/price"
	"github.com/flexprice/billing-engine/internal/domain/proration"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/flexprice/billing-engine/internal/validator"
)

// QuoteRequest is the content of a quote file: a plan version, where the
// subscription stands in its cycle, the reported usage and optionally a
// plan change to prorate
type QuoteRequest struct {
	Plan       PlanVersionRequest `json:"plan" yaml:"plan"`
	Cycle      CycleRequest       `json:"cycle" yaml:"cycle"`
	Quantities map[string]int64   `json:"quantities,omitempty" yaml:"quantities,omitempty" validate:"omitempty,dive,min=0"`
	Change     *PlanChangeRequest `json:"change,omitempty" yaml:"change,omitempty"`
}

func (r *QuoteRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Plan.Validate(); err != nil {
		return err
	}
	if err := r.Cycle.Validate(); err != nil {
		return err
	}
	if r.Change != nil {
		return r.Change.Validate()
	}
	return nil
}

// PlanChangeRequest is an upgrade, downgrade or cancellation taking effect
// at EffectiveAt. Amounts are decimal strings in the plan currency.
type PlanChangeRequest struct {
	Action                types.ProrationAction `json:"action" yaml:"action" validate:"required"`
	EffectiveAt           time.Time             `json:"effective_at" yaml:"effective_at"`
	NextPlan              *PlanVersionRequest   `json:"next_plan,omitempty" yaml:"next_plan,omitempty"`
	BillingMode           types.BillingMode     `json:"billing_mode,omitempty" yaml:"billing_mode,omitempty" validate:"omitempty,oneof=in_advance in_arrears"`
	OriginalAmountPaid    string                `json:"original_amount_paid,omitempty" yaml:"original_amount_paid,omitempty"`
	PreviousCreditsIssued string                `json:"previous_credits_issued,omitempty" yaml:"previous_credits_issued,omitempty"`
}

func (r *PlanChangeRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Action.Validate(); err != nil {
		return err
	}
	if r.EffectiveAt.IsZero() {
		return ierr.NewError("effective_at is required").
			WithHint("Plan change effective date is required").
			Mark(ierr.ErrValidation)
	}
	if r.NextPlan != nil {
		return r.NextPlan.Validate()
	}
	return nil
}

// ParseAmounts parses the optional paid and credited amounts
func (r *PlanChangeRequest) ParseAmounts(currency string) (paid *types.Money, credited *types.Money, err error) {
	if r.OriginalAmountPaid != "" {
		m, err := types.ParseMoney(r.OriginalAmountPaid, currency)
		if err != nil {
			return nil, nil, err
		}
		paid = &m
	}
	if r.PreviousCreditsIssued != "" {
		m, err := types.ParseMoney(r.PreviousCreditsIssued, currency)
		if err != nil {
			return nil, nil, err
		}
		credited = &m
	}
	return paid, credited, nil
}

// QuoteResponse is the priced current cycle of a plan version
type QuoteResponse struct {
	ID            string                     `json:"id"`
	Number        string                     `json:"number"`
	PlanVersionID string                     `json:"plan_version_id"`
	Cycle         *billing.Cycle             `json:"cycle"`
	FlatPrice     price.Amount               `json:"flat_price"`
	Quote         *plan.Quote                `json:"quote"`
	Proration     *proration.ProrationResult `json:"proration,omitempty"`
}
