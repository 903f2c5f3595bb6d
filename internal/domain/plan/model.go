package plan

import (
	"github.com/flexprice/billing-engine/internal/domain/billing"
	"github.com/flexprice/billing-engine/internal/domain/price"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
)

// PlanVersion is a priced version of a plan: one billing configuration and
// the features billed under it, all in a single currency.
type PlanVersion struct {
	ID            string         `json:"id"`
	Currency      string         `json:"currency"`
	BillingConfig billing.Config `json:"billing_config"`
	Features      []Feature      `json:"features"`
}

// Feature is a billable component of a plan version
type Feature struct {
	Slug            string       `json:"slug"`
	Config          price.Config `json:"config"`
	DefaultQuantity int64        `json:"default_quantity"`
}

func (pv *PlanVersion) Validate() error {
	if err := types.ValidateCurrencyCode(pv.Currency); err != nil {
		return err
	}

	if err := pv.BillingConfig.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(pv.Features))
	for _, f := range pv.Features {
		if f.Slug == "" {
			return ierr.NewError("feature slug is required").
				WithHint("Every feature needs a slug").
				Mark(ierr.ErrValidation)
		}
		if _, ok := seen[f.Slug]; ok {
			return ierr.NewErrorf("duplicate feature %s", f.Slug).
				WithHintf("Feature %s is defined more than once", f.Slug).
				Mark(ierr.ErrValidation)
		}
		seen[f.Slug] = struct{}{}

		if f.Config == nil {
			return ierr.NewErrorf("feature %s has no pricing configuration", f.Slug).
				WithHintf("Feature %s needs a pricing configuration", f.Slug).
				Mark(ierr.ErrValidation)
		}
		if f.Config.CurrencyCode() != pv.Currency {
			return ierr.NewError("currency mismatch").
				WithHintf("Feature %s is priced in %s but the plan is in %s", f.Slug, f.Config.CurrencyCode(), pv.Currency).
				WithReportableDetails(map[string]any{
					"feature":          f.Slug,
					"feature_currency": f.Config.CurrencyCode(),
					"plan_currency":    pv.Currency,
				}).
				Mark(ierr.ErrValidation)
		}
		if f.DefaultQuantity < 0 {
			return ierr.NewErrorf("feature %s has a negative default quantity", f.Slug).
				WithHint("Default quantity must not be negative").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// FlatFeatures returns the features billed as a fixed fee
func (pv *PlanVersion) FlatFeatures() []Feature {
	return lo.Filter(pv.Features, func(f Feature, _ int) bool {
		return f.Config.FeatureType() == types.FeatureTypeFlat
	})
}

// GetFeature looks a feature up by slug
func (pv *PlanVersion) GetFeature(slug string) (Feature, bool) {
	return lo.Find(pv.Features, func(f Feature) bool {
		return f.Slug == slug
	})
}
