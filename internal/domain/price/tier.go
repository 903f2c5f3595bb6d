package price

import (
	"fmt"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
)

// TierCharge is the outcome of pricing a quantity through a tier list
type TierCharge struct {
	// Total is the amount charged before proration and rounding
	Total types.Money
	// Tier is the tier the full quantity lands in
	Tier Tier
	// TierIndex is the position of Tier in the list
	TierIndex int
}

// ResolveVolumeTier returns the tier whose range contains quantity together
// with its index. A zero quantity resolves to the first tier.
func ResolveVolumeTier(tiers []Tier, quantity int64) (Tier, int, error) {
	if len(tiers) == 0 {
		return Tier{}, -1, ierr.NewError("no tiers configured").
			WithHint("Tiered price has no tiers").
			Mark(ierr.ErrCalculation)
	}

	if quantity == 0 {
		return tiers[0], 0, nil
	}

	tier, index, found := lo.FindIndexOf(tiers, func(t Tier) bool {
		return t.Contains(quantity)
	})
	if !found {
		return Tier{}, -1, ierr.NewError("no tier matches quantity").
			WithHintf("No tier found for quantity %d", quantity).
			WithReportableDetails(map[string]any{
				"quantity":   quantity,
				"tier_count": len(tiers),
			}).
			Mark(ierr.ErrCalculation)
	}

	return tier, index, nil
}

// CalculateVolumeTier charges every unit at the rate of the tier the quantity
// lands in, plus that tier's flat price.
func CalculateVolumeTier(tiers []Tier, quantity int64) (*TierCharge, error) {
	tier, index, err := ResolveVolumeTier(tiers, quantity)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		return &TierCharge{Total: types.ZeroMoney(tiersCurrency(tiers)), Tier: tier, TierIndex: index}, nil
	}

	total, err := tier.UnitPrice.MulInt(quantity).Add(tier.FlatPrice)
	if err != nil {
		return nil, err
	}

	return &TierCharge{Total: total, Tier: tier, TierIndex: index}, nil
}

// CalculateGraduatedTier walks the tiers in order, charging the units that
// fall in each tier at that tier's rate. Only the flat price of the tier the
// full quantity lands in is added.
func CalculateGraduatedTier(tiers []Tier, quantity int64) (*TierCharge, error) {
	if len(tiers) == 0 {
		return nil, ierr.NewError("no tiers configured").
			WithHint("Tiered price has no tiers").
			Mark(ierr.ErrCalculation)
	}

	currency := tiersCurrency(tiers)
	if quantity == 0 {
		return &TierCharge{Total: types.ZeroMoney(currency), Tier: tiers[0], TierIndex: 0}, nil
	}

	total := types.ZeroMoney(currency)
	remaining := quantity
	landing := -1

	for i, tier := range tiers {
		if remaining <= 0 {
			break
		}

		consumed := remaining
		if capacity, bounded := tier.Capacity(); bounded && capacity < remaining {
			consumed = capacity
		}

		var err error
		total, err = total.Add(tier.UnitPrice.MulInt(consumed))
		if err != nil {
			return nil, err
		}

		remaining -= consumed
		landing = i
	}

	if remaining > 0 {
		return nil, ierr.NewError("tiers exhausted").
			WithHintf("Tiers do not cover quantity %d", quantity).
			WithReportableDetails(map[string]any{
				"quantity":  quantity,
				"remaining": remaining,
			}).
			Mark(ierr.ErrCalculation)
	}

	total, err := total.Add(tiers[landing].FlatPrice)
	if err != nil {
		return nil, err
	}

	return &TierCharge{Total: total, Tier: tiers[landing], TierIndex: landing}, nil
}

// CalculateTier dispatches on the tier mode
func CalculateTier(tiers []Tier, mode types.TierMode, quantity int64) (*TierCharge, error) {
	switch mode {
	case types.TierModeVolume:
		return CalculateVolumeTier(tiers, quantity)
	case types.TierModeGraduated:
		return CalculateGraduatedTier(tiers, quantity)
	default:
		return nil, ierr.NewError("invalid tier mode").
			WithHintf("Unknown tier mode %q", mode).
			Mark(ierr.ErrCalculation)
	}
}

// ValidateTiers checks that tiers start at a positive unit, are consecutive,
// do not overlap, and that only the last tier is unbounded.
func ValidateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return ierr.NewError("tiers are required").
			WithHint("At least one tier is required").
			Mark(ierr.ErrValidation)
	}

	currency := tiersCurrency(tiers)
	for i, tier := range tiers {
		if tier.FirstUnit < 1 {
			return tierValidationError(i, "first unit must be at least 1")
		}
		if tier.LastUnit != nil && *tier.LastUnit < tier.FirstUnit {
			return tierValidationError(i, "last unit must not be lower than first unit")
		}
		if tier.IsUnbounded() && i != len(tiers)-1 {
			return tierValidationError(i, "only the last tier can be unbounded")
		}
		if i > 0 && !tiers[i-1].IsUnbounded() && tier.FirstUnit != *tiers[i-1].LastUnit+1 {
			return tierValidationError(i, fmt.Sprintf("first unit must be %d to follow the previous tier", *tiers[i-1].LastUnit+1))
		}
		if tier.UnitPrice.Currency() != currency || tier.FlatPrice.Currency() != currency {
			return tierValidationError(i, "all tier prices must share the same currency")
		}
		if tier.UnitPrice.IsNegative() || tier.FlatPrice.IsNegative() {
			return tierValidationError(i, "tier prices must not be negative")
		}
	}

	return nil
}

func tierValidationError(index int, reason string) error {
	return ierr.NewError("invalid tiers").
		WithHintf("Tier %d: %s", index+1, reason).
		WithReportableDetails(map[string]any{
			"tier_index": index,
			"reason":     reason,
		}).
		Mark(ierr.ErrValidation)
}

// tierDisplay formats the price of a tier ex "$5.00 + $0.10 per unit"
func tierDisplay(tier Tier, usage bool) string {
	display := fmt.Sprintf("%s per unit", tier.UnitPrice.Display())
	if tier.FlatPrice.IsPositive() {
		display = fmt.Sprintf("%s + %s", tier.FlatPrice.Display(), display)
	}
	if usage {
		display = startsAtPrefix + display
	}
	return display
}
