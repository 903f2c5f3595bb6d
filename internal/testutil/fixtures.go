package testutil

import (
	"time"

	"github.com/flexprice/billing-engine/internal/api/dto"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
)

// StarterPlanRequest is a monthly usd plan with a flat platform fee, seats
// sold in packs of five and graduated api usage with 1000 free calls
func StarterPlanRequest() dto.PlanVersionRequest {
	return dto.PlanVersionRequest{
		ID:       "pv_starter",
		Currency: "usd",
		Billing: dto.BillingConfigRequest{
			BillingInterval:      types.BillingIntervalMonth,
			BillingIntervalCount: 1,
			BillingAnchor:        1,
		},
		Features: []dto.FeatureRequest{
			{
				Slug:        "platform",
				FeatureType: types.FeatureTypeFlat,
				Price:       "30.00",
			},
			{
				Slug:            "seats",
				FeatureType:     types.FeatureTypePackage,
				Price:           "10.00",
				Units:           5,
				DefaultQuantity: lo.ToPtr[int64](5),
			},
			{
				Slug:        "api_calls",
				FeatureType: types.FeatureTypeUsage,
				UsageMode:   types.UsageModeTier,
				TierMode:    types.TierModeGraduated,
				Tiers: []dto.TierRequest{
					{FirstUnit: 1, LastUnit: lo.ToPtr[int64](1000), UnitPrice: "0"},
					{FirstUnit: 1001, UnitPrice: "0.002"},
				},
			},
		},
	}
}

// GrowthPlanRequest is the upgrade target of StarterPlanRequest
func GrowthPlanRequest() dto.PlanVersionRequest {
	req := StarterPlanRequest()
	req.ID = "pv_growth"
	req.Features[0].Price = "62.00"
	return req
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
