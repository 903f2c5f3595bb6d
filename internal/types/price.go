package types

import (
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/samber/lo"
)

// FeatureType is the pricing model of a feature ex flat, tier
type FeatureType string

// UsageMode is how a usage feature turns reported units into a price
type UsageMode string

// TierMode defines how the tiers of a tiered price apply to a quantity
type TierMode string

const (
	// FeatureTypeFlat is a fixed fee independent of quantity
	FeatureTypeFlat FeatureType = "flat"
	// FeatureTypeTier prices a fixed quantity through tiers
	FeatureTypeTier FeatureType = "tier"
	// FeatureTypeUsage prices reported usage
	FeatureTypeUsage FeatureType = "usage"
	// FeatureTypePackage charges per block of units ex 1000 emails for $100
	FeatureTypePackage FeatureType = "package"

	UsageModeUnit    UsageMode = "unit"
	UsageModePackage UsageMode = "package"
	UsageModeTier    UsageMode = "tier"

	// TierModeVolume means all units price based on final tier reached.
	TierModeVolume TierMode = "volume"
	// TierModeGraduated means tiers apply progressively as quantity increases
	TierModeGraduated TierMode = "graduated"
)

func (f FeatureType) String() string {
	return string(f)
}

func (f FeatureType) Validate() error {
	allowed := []FeatureType{
		FeatureTypeFlat,
		FeatureTypeTier,
		FeatureTypeUsage,
		FeatureTypePackage,
	}
	if !lo.Contains(allowed, f) {
		return ierr.NewError("invalid feature type").
			WithHint("Invalid feature type").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": f,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (u UsageMode) String() string {
	return string(u)
}

func (u UsageMode) Validate() error {
	allowed := []UsageMode{UsageModeUnit, UsageModePackage, UsageModeTier}
	if !lo.Contains(allowed, u) {
		return ierr.NewError("invalid usage mode").
			WithHint("Invalid usage mode").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": u,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (t TierMode) String() string {
	return string(t)
}

func (t TierMode) Validate() error {
	allowed := []TierMode{TierModeVolume, TierModeGraduated}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid tier mode").
			WithHint("Invalid tier mode").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
