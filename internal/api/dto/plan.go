package dto

import (
	"strings"

	"github.com/flexprice/billing-engine/internal/domain/plan"
	"github.com/flexprice/billing-engine/internal/validator"
)

// PlanVersionRequest is the raw definition of a plan version as found in a
// plan file
type PlanVersionRequest struct {
	ID       string               `json:"id" yaml:"id" validate:"required"`
	Currency string               `json:"currency" yaml:"currency" validate:"required,currency"`
	Billing  BillingConfigRequest `json:"billing" yaml:"billing"`
	Features []FeatureRequest     `json:"features" yaml:"features" validate:"required,min=1,dive"`
}

func (r *PlanVersionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.Billing.Validate(); err != nil {
		return err
	}

	for i := range r.Features {
		if err := r.Features[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToPlanVersion converts a validated request into a plan version
func (r *PlanVersionRequest) ToPlanVersion() (*plan.PlanVersion, error) {
	currency := strings.ToLower(r.Currency)

	pv := &plan.PlanVersion{
		ID:            r.ID,
		Currency:      currency,
		BillingConfig: r.Billing.ToConfig(),
		Features:      make([]plan.Feature, 0, len(r.Features)),
	}

	for i := range r.Features {
		f, err := r.Features[i].ToFeature(currency)
		if err != nil {
			return nil, err
		}
		pv.Features = append(pv.Features, f)
	}

	if err := pv.Validate(); err != nil {
		return nil, err
	}
	return pv, nil
}
