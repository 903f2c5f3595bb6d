package price

import (
	"fmt"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

const startsAtPrefix = "starts at "

// Amount is a money value together with its display string
type Amount struct {
	Money   types.Money `json:"amount"`
	Display string      `json:"display_amount"`
}

// Result is the price of a feature for a quantity
type Result struct {
	UnitPrice  Amount `json:"unit_price"`
	TotalPrice Amount `json:"total_price"`
}

func newAmount(m types.Money) Amount {
	return Amount{Money: m, Display: m.Display()}
}

// CalculatePrice returns the unit and total price of cfg for quantity.
// prorate scales the fixed charges (flat, package and tier features) and
// must be within [0,1]; nil means no proration. Usage features are never
// prorated. A zero quantity always yields a zero total.
func CalculatePrice(cfg Config, quantity int64, prorate *decimal.Decimal) (*Result, error) {
	if cfg == nil {
		return nil, ierr.NewError("missing pricing configuration").
			WithHint("Feature has no pricing configuration").
			Mark(ierr.ErrCalculation)
	}

	if quantity < 0 {
		return nil, ierr.NewError("negative quantity").
			WithHintf("Quantity must not be negative, got %d", quantity).
			Mark(ierr.ErrValidation)
	}

	factor, err := prorationFactor(prorate)
	if err != nil {
		return nil, err
	}

	switch c := cfg.(type) {
	case FlatConfig:
		return calculateFlat(c, quantity, factor), nil
	case PackageConfig:
		return calculatePackage(c.Price, c.Units, quantity, factor, false)
	case TierConfig:
		return calculateTiered(c.Tiers, c.TierMode, quantity, factor, false)
	case UsageUnitConfig:
		return calculateUsageUnit(c, quantity), nil
	case UsagePackageConfig:
		return calculatePackage(c.Price, c.Units, quantity, decimal.NewFromInt(1), true)
	case UsageTierConfig:
		return calculateTiered(c.Tiers, c.TierMode, quantity, decimal.NewFromInt(1), true)
	default:
		return nil, ierr.NewError("unsupported pricing configuration").
			WithHintf("Unsupported pricing configuration %T", cfg).
			WithReportableDetails(map[string]any{
				"feature_type": cfg.FeatureType(),
			}).
			Mark(ierr.ErrCalculation)
	}
}

func prorationFactor(prorate *decimal.Decimal) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if prorate == nil {
		return one, nil
	}
	if prorate.IsNegative() || prorate.GreaterThan(one) {
		return decimal.Zero, ierr.NewError("invalid proration factor").
			WithHintf("Proration factor must be between 0 and 1, got %s", prorate.String()).
			Mark(ierr.ErrValidation)
	}
	return *prorate, nil
}

// calculateFlat charges the fee once for any positive quantity
func calculateFlat(c FlatConfig, quantity int64, factor decimal.Decimal) *Result {
	unit := c.Price.Scale(factor)
	total := unit
	if quantity == 0 {
		total = types.ZeroMoney(c.Price.Currency())
	}
	return &Result{
		UnitPrice:  newAmount(unit),
		TotalPrice: newAmount(total.Round()),
	}
}

func calculatePackage(price types.Money, units, quantity int64, factor decimal.Decimal, usage bool) (*Result, error) {
	if units <= 0 {
		return nil, ierr.NewError("invalid package size").
			WithHintf("Package size must be positive, got %d", units).
			Mark(ierr.ErrCalculation)
	}

	// round up to the next whole package
	packages := (quantity + units - 1) / units
	total := price.MulInt(packages).Scale(factor)

	display := fmt.Sprintf("%s per %d units", price.Display(), units)
	if usage {
		display = startsAtPrefix + display
	}

	return &Result{
		UnitPrice:  Amount{Money: price, Display: display},
		TotalPrice: newAmount(total),
	}, nil
}

func calculateUsageUnit(c UsageUnitConfig, quantity int64) *Result {
	total := c.Price.MulInt(quantity).Round()
	return &Result{
		UnitPrice:  Amount{Money: c.Price, Display: fmt.Sprintf("%s%s per unit", startsAtPrefix, c.Price.Display())},
		TotalPrice: newAmount(total),
	}
}

func calculateTiered(tiers []Tier, mode types.TierMode, quantity int64, factor decimal.Decimal, usage bool) (*Result, error) {
	charge, err := CalculateTier(tiers, mode, quantity)
	if err != nil {
		return nil, err
	}

	return &Result{
		UnitPrice:  Amount{Money: charge.Tier.UnitPrice, Display: tierDisplay(charge.Tier, usage)},
		TotalPrice: newAmount(charge.Total.Scale(factor)),
	}, nil
}
