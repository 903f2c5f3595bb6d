package price

import (
	"math"
)

// FreeUnits returns how many units of a feature can be consumed without
// being charged. math.Inf(1) means free forever. The value is a unit count
// only and must never be turned into a money amount.
func FreeUnits(cfg Config) float64 {
	switch c := cfg.(type) {
	case FlatConfig:
		// a flat fee covers any usage of the feature
		return math.Inf(1)
	case PackageConfig:
		return freeWhenZero(c.Price.IsZero())
	case UsageUnitConfig:
		return freeWhenZero(c.Price.IsZero())
	case UsagePackageConfig:
		return freeWhenZero(c.Price.IsZero())
	case TierConfig:
		return freeTierUnits(c.Tiers)
	case UsageTierConfig:
		return freeTierUnits(c.Tiers)
	default:
		return 0
	}
}

func freeWhenZero(zero bool) float64 {
	if zero {
		return math.Inf(1)
	}
	return 0
}

// freeTierUnits counts the units covered by the leading tiers that charge
// neither a unit nor a flat price
func freeTierUnits(tiers []Tier) float64 {
	free := 0.0
	for _, tier := range tiers {
		if !tier.UnitPrice.IsZero() || !tier.FlatPrice.IsZero() {
			break
		}
		if tier.IsUnbounded() {
			return math.Inf(1)
		}
		free = float64(*tier.LastUnit)
	}
	return free
}
