package dto

import (
	"github.com/flexprice/billing-engine/internal/domain/plan"
	"github.com/flexprice/billing-engine/internal/domain/price"
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/flexprice/billing-engine/internal/validator"
	"github.com/samber/lo"
)

// TierRequest is one tier of a tiered or usage tier feature. Amounts are
// decimal strings in the plan currency.
type TierRequest struct {
	FirstUnit int64  `json:"first_unit" yaml:"first_unit" validate:"required,min=1"`
	LastUnit  *int64 `json:"last_unit,omitempty" yaml:"last_unit,omitempty"`
	UnitPrice string `json:"unit_price" yaml:"unit_price" validate:"required"`
	FlatPrice string `json:"flat_price,omitempty" yaml:"flat_price,omitempty"`
}

// FeatureRequest is the raw pricing configuration of a feature.
// Which of the optional fields are required depends on FeatureType and,
// for usage features, on UsageMode.
type FeatureRequest struct {
	Slug            string            `json:"slug" yaml:"slug" validate:"required"`
	FeatureType     types.FeatureType `json:"feature_type" yaml:"feature_type" validate:"required"`
	UsageMode       types.UsageMode   `json:"usage_mode,omitempty" yaml:"usage_mode,omitempty"`
	TierMode        types.TierMode    `json:"tier_mode,omitempty" yaml:"tier_mode,omitempty"`
	Price           string            `json:"price,omitempty" yaml:"price,omitempty"`
	Units           int64             `json:"units,omitempty" yaml:"units,omitempty" validate:"omitempty,min=1"`
	Tiers           []TierRequest     `json:"tiers,omitempty" yaml:"tiers,omitempty" validate:"omitempty,dive"`
	DefaultQuantity *int64            `json:"default_quantity,omitempty" yaml:"default_quantity,omitempty" validate:"omitempty,min=0"`
}

func (r *FeatureRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.FeatureType.Validate(); err != nil {
		return err
	}

	switch r.FeatureType {
	case types.FeatureTypeFlat:
		return r.require("price", r.Price != "")
	case types.FeatureTypePackage:
		if err := r.require("price", r.Price != ""); err != nil {
			return err
		}
		return r.require("units", r.Units > 0)
	case types.FeatureTypeTier:
		return r.validateTiered()
	case types.FeatureTypeUsage:
		if err := r.UsageMode.Validate(); err != nil {
			return err
		}
		switch r.UsageMode {
		case types.UsageModeUnit:
			return r.require("price", r.Price != "")
		case types.UsageModePackage:
			if err := r.require("price", r.Price != ""); err != nil {
				return err
			}
			return r.require("units", r.Units > 0)
		case types.UsageModeTier:
			return r.validateTiered()
		}
	}
	return nil
}

func (r *FeatureRequest) validateTiered() error {
	if err := r.require("tiers", len(r.Tiers) > 0); err != nil {
		return err
	}
	return r.TierMode.Validate()
}

func (r *FeatureRequest) require(field string, present bool) error {
	if present {
		return nil
	}
	mode := string(r.FeatureType)
	if r.FeatureType == types.FeatureTypeUsage {
		mode += "/" + string(r.UsageMode)
	}
	return ierr.NewErrorf("%s is required", field).
		WithHintf("Feature %s: %s is required for %s pricing", r.Slug, field, mode).
		WithReportableDetails(map[string]any{
			"feature": r.Slug,
			"field":   field,
		}).
		Mark(ierr.ErrValidation)
}

// ToConfig parses the amounts in currency and builds the pricing
// configuration. Tier lists are checked for consecutiveness here so the
// calculator can trust them.
func (r *FeatureRequest) ToConfig(currency string) (price.Config, error) {
	switch r.FeatureType {
	case types.FeatureTypeFlat:
		amount, err := r.parsePrice(currency)
		if err != nil {
			return nil, err
		}
		return price.FlatConfig{Price: amount}, nil
	case types.FeatureTypePackage:
		amount, err := r.parsePrice(currency)
		if err != nil {
			return nil, err
		}
		return price.PackageConfig{Price: amount, Units: r.Units}, nil
	case types.FeatureTypeTier:
		tiers, err := r.toTiers(currency)
		if err != nil {
			return nil, err
		}
		return price.TierConfig{Tiers: tiers, TierMode: r.TierMode}, nil
	case types.FeatureTypeUsage:
		switch r.UsageMode {
		case types.UsageModeUnit:
			amount, err := r.parsePrice(currency)
			if err != nil {
				return nil, err
			}
			return price.UsageUnitConfig{Price: amount}, nil
		case types.UsageModePackage:
			amount, err := r.parsePrice(currency)
			if err != nil {
				return nil, err
			}
			return price.UsagePackageConfig{Price: amount, Units: r.Units}, nil
		case types.UsageModeTier:
			tiers, err := r.toTiers(currency)
			if err != nil {
				return nil, err
			}
			return price.UsageTierConfig{Tiers: tiers, TierMode: r.TierMode}, nil
		}
	}

	return nil, ierr.NewError("unsupported pricing configuration").
		WithHintf("Feature %s has an unsupported pricing configuration", r.Slug).
		WithReportableDetails(map[string]any{
			"feature_type": r.FeatureType,
			"usage_mode":   r.UsageMode,
		}).
		Mark(ierr.ErrValidation)
}

// parsePrice parses Price, which must not be negative
func (r *FeatureRequest) parsePrice(currency string) (types.Money, error) {
	amount, err := types.ParseMoney(r.Price, currency)
	if err != nil {
		return types.Money{}, err
	}
	if amount.IsNegative() {
		return types.Money{}, ierr.NewError("negative price").
			WithHintf("Feature %s: price must not be negative", r.Slug).
			Mark(ierr.ErrValidation)
	}
	return amount, nil
}

func (r *FeatureRequest) toTiers(currency string) ([]price.Tier, error) {
	tiers := make([]price.Tier, 0, len(r.Tiers))
	for _, t := range r.Tiers {
		unitPrice, err := types.ParseMoney(t.UnitPrice, currency)
		if err != nil {
			return nil, err
		}
		flatPrice := types.ZeroMoney(currency)
		if t.FlatPrice != "" {
			if flatPrice, err = types.ParseMoney(t.FlatPrice, currency); err != nil {
				return nil, err
			}
		}
		tiers = append(tiers, price.Tier{
			FirstUnit: t.FirstUnit,
			LastUnit:  t.LastUnit,
			UnitPrice: unitPrice,
			FlatPrice: flatPrice,
		})
	}

	if err := price.ValidateTiers(tiers); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Feature %s has invalid tiers", r.Slug).
			Mark(ierr.ErrValidation)
	}
	return tiers, nil
}

// ToFeature converts the request into a plan feature priced in currency.
// Flat features default to a quantity of one, everything else to zero.
func (r *FeatureRequest) ToFeature(currency string) (plan.Feature, error) {
	cfg, err := r.ToConfig(currency)
	if err != nil {
		return plan.Feature{}, err
	}

	defaultQuantity := int64(0)
	if r.FeatureType == types.FeatureTypeFlat {
		defaultQuantity = 1
	}

	return plan.Feature{
		Slug:            r.Slug,
		Config:          cfg,
		DefaultQuantity: lo.FromPtrOr(r.DefaultQuantity, defaultQuantity),
	}, nil
}
