package billing

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 86400.0

func date(year int, month time.Month, d, hour, min int) time.Time {
	return time.Date(year, month, d, hour, min, 0, 0, time.UTC)
}

func endOf(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

func monthly(anchor types.BillingAnchor) Config {
	return Config{
		Interval:      types.BillingIntervalMonth,
		IntervalCount: 1,
		Anchor:        anchor,
		PlanType:      types.PlanTypeRecurring,
	}
}

func yearly(anchor types.BillingAnchor) Config {
	return Config{
		Interval:      types.BillingIntervalYear,
		IntervalCount: 1,
		Anchor:        anchor,
		PlanType:      types.PlanTypeRecurring,
	}
}

func TestComputeCycle(t *testing.T) {
	tests := []struct {
		name          string
		params        CycleParams
		wantStart     time.Time
		wantEnd       time.Time
		wantFullStart time.Time
		wantSeconds   float64
		wantBillable  float64
		wantFactor    string
	}{
		{
			name:          "month on anchor",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 1, 1, 0, 0), Config: monthly(1)},
			wantStart:     date(2024, 1, 1, 0, 0),
			wantEnd:       endOf(2024, 1, 31),
			wantFullStart: date(2024, 1, 1, 0, 0),
			wantSeconds:   31 * day,
			wantBillable:  31 * day,
			wantFactor:    "1",
		},
		{
			name:          "february of a leap year",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 2, 1, 0, 0), Config: monthly(1)},
			wantStart:     date(2024, 2, 1, 0, 0),
			wantEnd:       endOf(2024, 2, 29),
			wantFullStart: date(2024, 2, 1, 0, 0),
			wantSeconds:   29 * day,
			wantBillable:  29 * day,
			wantFactor:    "1",
		},
		{
			name:          "mid month start is prorated",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 1, 16, 0, 0), Config: monthly(1)},
			wantStart:     date(2024, 1, 16, 0, 0),
			wantEnd:       endOf(2024, 1, 31),
			wantFullStart: date(2024, 1, 1, 0, 0),
			wantSeconds:   31 * day,
			wantBillable:  16 * day,
			wantFactor:    "0.5161290322580645",
		},
		{
			name:          "mid day start keeps the hours",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 1, 16, 12, 0), Config: monthly(1)},
			wantStart:     date(2024, 1, 16, 12, 0),
			wantEnd:       endOf(2024, 1, 31),
			wantFullStart: date(2024, 1, 1, 0, 0),
			wantSeconds:   31 * day,
			wantBillable:  15.5 * day,
			wantFactor:    "0.5",
		},
		{
			name:          "start before anchor ends on the anchor",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 1, 10, 0, 0), Config: monthly(15)},
			wantStart:     date(2024, 1, 10, 0, 0),
			wantEnd:       endOf(2024, 1, 14),
			wantFullStart: date(2023, 12, 15, 0, 0),
			wantSeconds:   31 * day,
			wantBillable:  5 * day,
			wantFactor:    "0.1612903225806452",
		},
		{
			name:          "anchor 31 clamps to the end of february",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 2, 29, 0, 0), Config: monthly(31)},
			wantStart:     date(2024, 2, 29, 0, 0),
			wantEnd:       endOf(2024, 3, 30),
			wantFullStart: date(2024, 2, 29, 0, 0),
			wantSeconds:   31 * day,
			wantBillable:  31 * day,
			wantFactor:    "1",
		},
		{
			name:          "anchor 31 in a 30 day month",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 4, 15, 0, 0), Config: monthly(31)},
			wantStart:     date(2024, 4, 15, 0, 0),
			wantEnd:       endOf(2024, 4, 29),
			wantFullStart: date(2024, 3, 31, 0, 0),
			wantSeconds:   30 * day,
			wantBillable:  15 * day,
			wantFactor:    "0.5",
		},
		{
			name:          "day of creation anchors on the start day",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 1, 16, 0, 0), Config: monthly(types.BillingAnchorDayOfCreation)},
			wantStart:     date(2024, 1, 16, 0, 0),
			wantEnd:       endOf(2024, 2, 15),
			wantFullStart: date(2024, 1, 16, 0, 0),
			wantSeconds:   31 * day,
			wantBillable:  31 * day,
			wantFactor:    "1",
		},
		{
			name: "quarterly",
			params: CycleParams{
				CurrentCycleStartAt: date(2024, 1, 1, 0, 0),
				Config:              Config{Interval: types.BillingIntervalMonth, IntervalCount: 3, Anchor: 1},
			},
			wantStart:     date(2024, 1, 1, 0, 0),
			wantEnd:       endOf(2024, 3, 31),
			wantFullStart: date(2024, 1, 1, 0, 0),
			wantSeconds:   91 * day,
			wantBillable:  91 * day,
			wantFactor:    "1",
		},
		{
			name:          "year in a leap year",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 6, 1, 12, 0), Config: yearly(1)},
			wantStart:     date(2024, 6, 1, 12, 0),
			wantEnd:       endOf(2024, 12, 31),
			wantFullStart: date(2024, 1, 1, 0, 0),
			wantSeconds:   366 * day,
			wantBillable:  214*day - 43200,
			wantFactor:    decimal.NewFromInt(18446400).Div(decimal.NewFromInt(31622400)).String(),
		},
		{
			name:          "year before the anchor month",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 6, 1, 0, 0), Config: yearly(12)},
			wantStart:     date(2024, 6, 1, 0, 0),
			wantEnd:       endOf(2024, 11, 30),
			wantFullStart: date(2023, 12, 1, 0, 0),
			wantSeconds:   366 * day,
			wantBillable:  183 * day,
			wantFactor:    "0.5",
		},
		{
			name:          "year on anchor from creation",
			params:        CycleParams{CurrentCycleStartAt: date(2024, 3, 1, 0, 0), Config: yearly(types.BillingAnchorDayOfCreation)},
			wantStart:     date(2024, 3, 1, 0, 0),
			wantEnd:       endOf(2025, 2, 28),
			wantFullStart: date(2024, 3, 1, 0, 0),
			wantSeconds:   365 * day,
			wantBillable:  365 * day,
			wantFactor:    "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Alignment = DefaultAlignment()
			got, err := ComputeCycle(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, got.CycleStart)
			assert.Equal(t, tt.wantEnd, got.CycleEnd)
			assert.Equal(t, tt.wantFullStart, got.FullCycleStart)
			assert.Equal(t, tt.wantSeconds, got.SecondsInCycle)
			assert.Equal(t, tt.wantBillable, got.BillableSeconds)
			assert.Equal(t, tt.wantFactor, got.ProrationFactor.String())
			assert.False(t, got.IsTrial())
			assert.False(t, got.IsOnetime())
		})
	}
}

func TestComputeCycle_NotCalendarAligned(t *testing.T) {
	tests := []struct {
		name        string
		start       time.Time
		config      Config
		alignment   Alignment
		wantEnd     time.Time
		wantSeconds float64
	}{
		{
			name:        "days aligned to end of day",
			start:       date(2024, 1, 5, 10, 30),
			config:      Config{Interval: types.BillingIntervalDay, IntervalCount: 10},
			alignment:   DefaultAlignment(),
			wantEnd:     endOf(2024, 1, 15),
			wantSeconds: 10*day + 48600,
		},
		{
			name:        "days without alignment",
			start:       date(2024, 1, 5, 10, 30),
			config:      Config{Interval: types.BillingIntervalDay, IntervalCount: 10},
			alignment:   Alignment{},
			wantEnd:     date(2024, 1, 15, 10, 30).Add(-time.Millisecond),
			wantSeconds: 10 * day,
		},
		{
			name:        "month from the start date",
			start:       date(2024, 1, 16, 10, 0),
			config:      monthly(1),
			alignment:   Alignment{AlignEndToDay: true},
			wantEnd:     endOf(2024, 2, 16),
			wantSeconds: 31*day + 14*3600,
		},
		{
			name:        "minutes ignore day alignment",
			start:       date(2024, 1, 5, 10, 0),
			config:      Config{Interval: types.BillingIntervalMinute, IntervalCount: 30},
			alignment:   Alignment{AlignStartToDay: true, AlignEndToDay: true},
			wantEnd:     date(2024, 1, 5, 10, 30).Add(-time.Millisecond),
			wantSeconds: 1800,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeCycle(CycleParams{
				CurrentCycleStartAt: tt.start,
				Config:              tt.config,
				Alignment:           tt.alignment,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.start, got.CycleStart)
			assert.Equal(t, tt.wantEnd, got.CycleEnd)
			assert.Equal(t, tt.wantSeconds, got.SecondsInCycle)
			assert.Equal(t, got.SecondsInCycle, got.BillableSeconds)
			assert.Equal(t, "1", got.ProrationFactor.String())
		})
	}
}

func TestComputeCycle_AlignStartToDay(t *testing.T) {
	got, err := ComputeCycle(CycleParams{
		CurrentCycleStartAt: date(2024, 1, 16, 15, 0),
		Config:              monthly(1),
		Alignment:           Alignment{AlignStartToDay: true, AlignEndToDay: true, AlignToCalendar: true},
	})
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 16, 0, 0), got.CycleStart)
	assert.Equal(t, "0.5161290322580645", got.ProrationFactor.String())
}

func TestComputeCycle_Truncation(t *testing.T) {
	tests := []struct {
		name       string
		endAt      *time.Time
		cancelAt   *time.Time
		changeAt   *time.Time
		wantEnd    time.Time
		wantFactor string
	}{
		{
			name:       "end date",
			endAt:      lo.ToPtr(date(2024, 1, 11, 0, 0)),
			wantEnd:    endOf(2024, 1, 10),
			wantFactor: "0.3225806451612903",
		},
		{
			name:       "cancel mid day is billed to the end of that day",
			cancelAt:   lo.ToPtr(date(2024, 1, 10, 15, 0)),
			wantEnd:    endOf(2024, 1, 10),
			wantFactor: "0.3225806451612903",
		},
		{
			name:       "earliest date wins",
			endAt:      lo.ToPtr(date(2024, 1, 20, 0, 0)),
			cancelAt:   lo.ToPtr(date(2024, 1, 11, 0, 0)),
			changeAt:   lo.ToPtr(date(2024, 1, 25, 0, 0)),
			wantEnd:    endOf(2024, 1, 10),
			wantFactor: "0.3225806451612903",
		},
		{
			name:       "date after the cycle is ignored",
			endAt:      lo.ToPtr(date(2024, 3, 1, 0, 0)),
			wantEnd:    endOf(2024, 1, 31),
			wantFactor: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeCycle(CycleParams{
				CurrentCycleStartAt: date(2024, 1, 1, 0, 0),
				Config:              monthly(1),
				EndAt:               tt.endAt,
				CancelAt:            tt.cancelAt,
				ChangeAt:            tt.changeAt,
				Alignment:           DefaultAlignment(),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnd, got.CycleEnd)
			assert.Equal(t, endOf(2024, 1, 31), got.FullCycleEnd)
			assert.Equal(t, 31*day, got.SecondsInCycle)
			assert.Equal(t, tt.wantFactor, got.ProrationFactor.String())
		})
	}
}

func TestComputeCycle_Trial(t *testing.T) {
	start := date(2024, 1, 1, 0, 0)

	t.Run("full trial", func(t *testing.T) {
		got, err := ComputeCycle(CycleParams{
			TrialDays:           15,
			CurrentCycleStartAt: start,
			Config:              monthly(1),
			Alignment:           DefaultAlignment(),
		})
		require.NoError(t, err)
		require.True(t, got.IsTrial())
		assert.Equal(t, date(2024, 1, 16, 0, 0), *got.TrialEndsAt)
		assert.Equal(t, start, got.CycleStart)
		assert.Equal(t, endOf(2024, 1, 15), got.CycleEnd)
		assert.Equal(t, 15*day, got.SecondsInCycle)
		assert.Zero(t, got.BillableSeconds)
		assert.True(t, got.ProrationFactor.IsZero())
	})

	t.Run("cancelled during trial", func(t *testing.T) {
		got, err := ComputeCycle(CycleParams{
			TrialDays:           15,
			CurrentCycleStartAt: start,
			Config:              monthly(1),
			CancelAt:            lo.ToPtr(date(2024, 1, 10, 0, 0)),
			Alignment:           DefaultAlignment(),
		})
		require.NoError(t, err)
		assert.Equal(t, endOf(2024, 1, 9), got.CycleEnd)
		assert.Equal(t, date(2024, 1, 16, 0, 0), *got.TrialEndsAt)
		assert.True(t, got.ProrationFactor.IsZero())
	})

	t.Run("end after trial is ignored", func(t *testing.T) {
		got, err := ComputeCycle(CycleParams{
			TrialDays:           15,
			CurrentCycleStartAt: start,
			Config:              monthly(1),
			EndAt:               lo.ToPtr(date(2024, 2, 1, 0, 0)),
			Alignment:           DefaultAlignment(),
		})
		require.NoError(t, err)
		assert.Equal(t, endOf(2024, 1, 15), got.CycleEnd)
	})
}

func TestComputeCycle_Onetime(t *testing.T) {
	configs := map[string]Config{
		"onetime interval": {Interval: types.BillingIntervalOnetime},
		"onetime plan":     {Interval: types.BillingIntervalMonth, IntervalCount: 1, PlanType: types.PlanTypeOnetime},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			start := date(2024, 1, 16, 10, 0)
			got, err := ComputeCycle(CycleParams{
				CurrentCycleStartAt: start,
				Config:              cfg,
				TrialDays:           7,
				EndAt:               lo.ToPtr(date(2024, 1, 20, 0, 0)),
				Alignment:           DefaultAlignment(),
			})
			require.NoError(t, err)
			assert.True(t, got.IsOnetime())
			assert.False(t, got.IsTrial())
			assert.Equal(t, start, got.CycleStart)
			assert.Equal(t, types.OnetimeCycleEnd, got.CycleEnd)
			assert.True(t, math.IsInf(got.SecondsInCycle, 1))
			assert.Equal(t, "1", got.ProrationFactor.String())
			assert.False(t, got.IsProrated())
		})
	}
}

func TestComputeCycle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		params     CycleParams
		validation bool
	}{
		{
			name:       "missing start",
			params:     CycleParams{Config: monthly(1)},
			validation: true,
		},
		{
			name:       "negative trial",
			params:     CycleParams{CurrentCycleStartAt: date(2024, 1, 1, 0, 0), TrialDays: -1, Config: monthly(1)},
			validation: true,
		},
		{
			name:       "zero interval count",
			params:     CycleParams{CurrentCycleStartAt: date(2024, 1, 1, 0, 0), Config: Config{Interval: types.BillingIntervalDay}},
			validation: true,
		},
		{
			name:       "unknown interval",
			params:     CycleParams{CurrentCycleStartAt: date(2024, 1, 1, 0, 0), Config: Config{Interval: "fortnight", IntervalCount: 1}},
			validation: true,
		},
		{
			name: "end before start",
			params: CycleParams{
				CurrentCycleStartAt: date(2024, 1, 16, 0, 0),
				Config:              monthly(1),
				EndAt:               lo.ToPtr(date(2024, 1, 10, 0, 0)),
			},
		},
		{
			name: "trial cancelled before start",
			params: CycleParams{
				CurrentCycleStartAt: date(2024, 1, 16, 0, 0),
				TrialDays:           7,
				Config:              monthly(1),
				CancelAt:            lo.ToPtr(date(2024, 1, 10, 0, 0)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Alignment = DefaultAlignment()
			_, err := ComputeCycle(tt.params)
			require.Error(t, err)
			if tt.validation {
				assert.True(t, ierr.IsValidation(err), "expected validation error, got %v", err)
			} else {
				assert.True(t, ierr.IsCalculation(err), "expected calculation error, got %v", err)
			}
		})
	}
}

func TestComputeCycle_Pure(t *testing.T) {
	params := CycleParams{
		CurrentCycleStartAt: date(2024, 1, 16, 0, 0).In(time.FixedZone("IST", 5*3600+1800)),
		Config:              monthly(1),
		Alignment:           DefaultAlignment(),
	}
	first, err := ComputeCycle(params)
	require.NoError(t, err)
	second, err := ComputeCycle(params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, time.UTC, first.CycleStart.Location())
}

func TestCycle_MarshalJSON(t *testing.T) {
	cycle, err := ComputeCycle(CycleParams{
		CurrentCycleStartAt: date(2024, 1, 1, 0, 0),
		Config:              monthly(1),
		Alignment:           DefaultAlignment(),
	})
	require.NoError(t, err)

	out, err := json.Marshal(cycle)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"cycle_end":"2024-01-31T23:59:59.999Z"`)
	assert.Contains(t, string(out), `"seconds_in_cycle":2678400`)
	assert.NotContains(t, string(out), "trial_ends_at")

	onetime, err := ComputeCycle(CycleParams{
		CurrentCycleStartAt: date(2024, 1, 1, 0, 0),
		Config:              Config{Interval: types.BillingIntervalOnetime},
	})
	require.NoError(t, err)

	out, err = json.Marshal(onetime)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"seconds_in_cycle":null`)
	assert.Contains(t, string(out), `"billable_seconds":null`)
}
