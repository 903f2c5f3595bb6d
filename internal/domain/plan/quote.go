package plan

import (
	"math"

	"github.com/flexprice/billing-engine/internal/domain/price"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem is the priced result of one feature
type LineItem struct {
	Slug        string            `json:"slug"`
	FeatureType types.FeatureType `json:"feature_type"`
	Quantity    int64             `json:"quantity"`
	FreeUnits   *float64          `json:"free_units"`
	price.Result
}

// Quote is the total price of a plan version for a set of quantities
type Quote struct {
	PlanVersionID string       `json:"plan_version_id"`
	Currency      string       `json:"currency"`
	LineItems     []LineItem   `json:"line_items"`
	Total         price.Amount `json:"total"`
}

// CalculateFlatPrice sums the fixed fees of the plan, prorated by prorate.
// Each flat feature is charged once whatever its default quantity.
func CalculateFlatPrice(pv *PlanVersion, prorate *decimal.Decimal) (price.Amount, error) {
	total := types.ZeroMoney(pv.Currency)
	for _, f := range pv.FlatFeatures() {
		result, err := price.CalculatePrice(f.Config, 1, prorate)
		if err != nil {
			return price.Amount{}, err
		}
		if total, err = total.Add(result.TotalPrice.Money); err != nil {
			return price.Amount{}, err
		}
	}
	return price.Amount{Money: total, Display: total.Display()}, nil
}

// CalculateTotalPrice prices every feature of the plan. Features missing
// from quantities are priced at their default quantity.
func CalculateTotalPrice(pv *PlanVersion, quantities map[string]int64, prorate *decimal.Decimal) (*Quote, error) {
	quote := &Quote{
		PlanVersionID: pv.ID,
		Currency:      pv.Currency,
		LineItems:     make([]LineItem, 0, len(pv.Features)),
	}

	total := types.ZeroMoney(pv.Currency)
	for _, f := range pv.Features {
		quantity, ok := quantities[f.Slug]
		if !ok {
			quantity = f.DefaultQuantity
		}

		result, err := price.CalculatePrice(f.Config, quantity, prorate)
		if err != nil {
			return nil, err
		}
		if total, err = total.Add(result.TotalPrice.Money); err != nil {
			return nil, err
		}

		quote.LineItems = append(quote.LineItems, LineItem{
			Slug:        f.Slug,
			FeatureType: f.Config.FeatureType(),
			Quantity:    quantity,
			FreeUnits:   finiteOrNil(price.FreeUnits(f.Config)),
			Result:      *result,
		})
	}

	quote.Total = price.Amount{Money: total, Display: total.Display()}
	return quote, nil
}

// finiteOrNil maps unlimited free units to a JSON null
func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 1) {
		return nil
	}
	return &v
}
