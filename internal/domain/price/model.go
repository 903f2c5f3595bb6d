package price

import (
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
)

// Config is the pricing configuration of a feature. It is a closed set of
// variants, one per feature type and usage mode:
// FlatConfig, PackageConfig, TierConfig, UsageUnitConfig,
// UsagePackageConfig and UsageTierConfig.
type Config interface {
	// FeatureType returns the pricing model of the variant
	FeatureType() types.FeatureType
	// CurrencyCode returns the currency all amounts of the variant are in
	CurrencyCode() string

	isConfig()
}

// UsageConfig is implemented by the usage variants
type UsageConfig interface {
	Config
	UsageMode() types.UsageMode
}

// FlatConfig is a fixed fee independent of the reported quantity
type FlatConfig struct {
	Price types.Money `json:"price"`
}

// PackageConfig charges Price for every started block of Units
type PackageConfig struct {
	Price types.Money `json:"price"`
	Units int64       `json:"units"`
}

// TierConfig prices a quantity through an ordered list of tiers
type TierConfig struct {
	Tiers    []Tier         `json:"tiers"`
	TierMode types.TierMode `json:"tier_mode"`
}

// UsageUnitConfig charges Price per reported unit
type UsageUnitConfig struct {
	Price types.Money `json:"price"`
}

// UsagePackageConfig charges Price for every started block of Units used
type UsagePackageConfig struct {
	Price types.Money `json:"price"`
	Units int64       `json:"units"`
}

// UsageTierConfig prices reported usage through tiers
type UsageTierConfig struct {
	Tiers    []Tier         `json:"tiers"`
	TierMode types.TierMode `json:"tier_mode"`
}

func (FlatConfig) FeatureType() types.FeatureType         { return types.FeatureTypeFlat }
func (PackageConfig) FeatureType() types.FeatureType      { return types.FeatureTypePackage }
func (TierConfig) FeatureType() types.FeatureType         { return types.FeatureTypeTier }
func (UsageUnitConfig) FeatureType() types.FeatureType    { return types.FeatureTypeUsage }
func (UsagePackageConfig) FeatureType() types.FeatureType { return types.FeatureTypeUsage }
func (UsageTierConfig) FeatureType() types.FeatureType    { return types.FeatureTypeUsage }

func (UsageUnitConfig) UsageMode() types.UsageMode    { return types.UsageModeUnit }
func (UsagePackageConfig) UsageMode() types.UsageMode { return types.UsageModePackage }
func (UsageTierConfig) UsageMode() types.UsageMode    { return types.UsageModeTier }

func (c FlatConfig) CurrencyCode() string         { return c.Price.Currency() }
func (c PackageConfig) CurrencyCode() string      { return c.Price.Currency() }
func (c TierConfig) CurrencyCode() string         { return tiersCurrency(c.Tiers) }
func (c UsageUnitConfig) CurrencyCode() string    { return c.Price.Currency() }
func (c UsagePackageConfig) CurrencyCode() string { return c.Price.Currency() }
func (c UsageTierConfig) CurrencyCode() string    { return tiersCurrency(c.Tiers) }

func (FlatConfig) isConfig()         {}
func (PackageConfig) isConfig()      {}
func (TierConfig) isConfig()         {}
func (UsageUnitConfig) isConfig()    {}
func (UsagePackageConfig) isConfig() {}
func (UsageTierConfig) isConfig()    {}

// Tier is a priced quantity range. LastUnit is nil for the unbounded last tier.
type Tier struct {
	FirstUnit int64       `json:"first_unit"`
	LastUnit  *int64      `json:"last_unit"`
	UnitPrice types.Money `json:"unit_price"`
	// FlatPrice is charged on top of UnitPrice*quantity when the quantity
	// lands in this tier
	FlatPrice types.Money `json:"flat_price"`
}

// IsUnbounded reports whether the tier has no upper limit
func (t Tier) IsUnbounded() bool {
	return t.LastUnit == nil
}

// Contains reports whether quantity falls in [FirstUnit, LastUnit]
func (t Tier) Contains(quantity int64) bool {
	if quantity < t.FirstUnit {
		return false
	}
	return t.IsUnbounded() || quantity <= *t.LastUnit
}

// Capacity returns the number of units the tier holds. The second value is
// false for the unbounded tier.
func (t Tier) Capacity() (int64, bool) {
	if t.IsUnbounded() {
		return 0, false
	}
	return *t.LastUnit - t.FirstUnit + 1, true
}

func tiersCurrency(tiers []Tier) string {
	if len(tiers) == 0 {
		return ""
	}
	currency, _ := lo.Coalesce(tiers[0].UnitPrice.Currency(), tiers[0].FlatPrice.Currency())
	return currency
}
