package billing

import (
	"math"
	"time"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ComputeCycle computes the billing cycle that starts at
// params.CurrentCycleStartAt. It is pure: the same params always produce the
// same cycle.
func ComputeCycle(params CycleParams) (*Cycle, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	start := params.CurrentCycleStartAt.UTC()
	cfg := params.Config

	if cfg.IsOnetime() {
		return onetimeCycle(start), nil
	}

	truncateAt := earliest(params.EndAt, params.CancelAt, params.ChangeAt)

	if params.TrialDays > 0 {
		return trialCycle(start, params.TrialDays, truncateAt)
	}

	align := params.Alignment
	// day alignment is meaningless for minute cycles
	alignDays := cfg.Interval != types.BillingIntervalMinute

	var fullStart, fullEnd time.Time
	if cfg.Interval.IsCalendar() && align.AlignToCalendar {
		fullStart, fullEnd = calendarWindow(start, cfg)
	} else {
		if align.AlignStartToDay && alignDays {
			start = types.StartOfDay(start)
		}
		next, err := types.NextBillingDate(start, cfg.IntervalCount, cfg.Interval)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Unable to compute the next billing date").
				Mark(ierr.ErrValidation)
		}
		fullStart, fullEnd = start, next
		if align.AlignEndToDay && alignDays {
			fullEnd = types.EndOfDay(fullEnd.Add(-time.Millisecond)).Add(time.Millisecond)
		}
	}

	// fullEnd is exclusive, cycle ends are the last billable millisecond
	lastMs := fullEnd.Add(-time.Millisecond)

	effectiveStart := types.MaxTime(start, fullStart)
	if align.AlignStartToDay && alignDays {
		effectiveStart = types.MaxTime(types.StartOfDay(effectiveStart), fullStart)
	}

	effectiveEnd := lastMs
	if truncateAt != nil && truncateAt.Before(fullEnd) {
		effectiveEnd = truncateAt.UTC().Add(-time.Millisecond)
		if align.AlignEndToDay && alignDays {
			effectiveEnd = types.MinTime(types.EndOfDay(effectiveEnd), lastMs)
		}
	}

	if effectiveStart.After(effectiveEnd) {
		return nil, orderingError(effectiveStart, effectiveEnd)
	}

	fullMs := fullEnd.Sub(fullStart).Milliseconds()
	billableMs := effectiveEnd.Add(time.Millisecond).Sub(effectiveStart).Milliseconds()

	return &Cycle{
		CycleStart:      effectiveStart,
		CycleEnd:        effectiveEnd,
		FullCycleStart:  fullStart,
		FullCycleEnd:    lastMs,
		SecondsInCycle:  msToSeconds(fullMs),
		BillableSeconds: msToSeconds(billableMs),
		ProrationFactor: ratio(billableMs, fullMs),
	}, nil
}

// calendarWindow returns the reference cycle [start, end) for month and year
// intervals snapped to the billing anchor.
//
// A cycle starting on the anchor runs for the full interval count. A cycle
// starting between anchors ends on the next anchor and its reference cycle is
// the interval count that ends there.
func calendarWindow(start time.Time, cfg Config) (time.Time, time.Time) {
	y, m, d := start.Date()
	anchor := cfg.Anchor.Resolve(cfg.Interval, start)
	count := cfg.IntervalCount

	if cfg.Interval == types.BillingIntervalYear {
		month := time.Month(anchor)
		current := time.Date(y, month, 1, 0, 0, 0, 0, time.UTC)
		switch {
		case m == month && d == 1:
			return current, types.AddYears(current, count)
		case start.After(current):
			next := types.AddYears(current, 1)
			return types.AddYears(next, -count), next
		default:
			return types.AddYears(current, -count), current
		}
	}

	// AnchorDate clamps the anchor to the month length, so a 31 anchor lands
	// on the last day of shorter months
	current := types.AnchorDate(y, m, anchor)
	switch {
	case d == current.Day():
		return current, types.AnchorDate(y, m+time.Month(count), anchor)
	case d > current.Day():
		next := types.AnchorDate(y, m+1, anchor)
		return types.AnchorDate(y, m+1-time.Month(count), anchor), next
	default:
		return types.AnchorDate(y, m-time.Month(count), anchor), current
	}
}

func onetimeCycle(start time.Time) *Cycle {
	inf := math.Inf(1)
	return &Cycle{
		CycleStart:      start,
		CycleEnd:        types.OnetimeCycleEnd,
		FullCycleStart:  start,
		FullCycleEnd:    types.OnetimeCycleEnd,
		SecondsInCycle:  inf,
		BillableSeconds: inf,
		ProrationFactor: decimal.NewFromInt(1),
	}
}

// trialCycle bills nothing. The cycle runs until the trial is over or until
// the earliest truncation date when that comes first.
func trialCycle(start time.Time, trialDays int, truncateAt *time.Time) (*Cycle, error) {
	trialEndsAt := start.AddDate(0, 0, trialDays)
	lastMs := trialEndsAt.Add(-time.Millisecond)

	end := lastMs
	if truncateAt != nil && truncateAt.Before(trialEndsAt) {
		end = truncateAt.UTC().Add(-time.Millisecond)
	}

	if start.After(end) {
		return nil, orderingError(start, end)
	}

	return &Cycle{
		CycleStart:      start,
		CycleEnd:        end,
		TrialEndsAt:     &trialEndsAt,
		FullCycleStart:  start,
		FullCycleEnd:    lastMs,
		SecondsInCycle:  msToSeconds(trialEndsAt.Sub(start).Milliseconds()),
		BillableSeconds: 0,
		ProrationFactor: decimal.Zero,
	}, nil
}

func validateParams(params CycleParams) error {
	if params.CurrentCycleStartAt.IsZero() {
		return ierr.NewError("cycle start is required").
			WithHint("Current cycle start date is required").
			Mark(ierr.ErrValidation)
	}
	if params.TrialDays < 0 {
		return ierr.NewError("invalid trial days").
			WithHintf("Trial days must not be negative, got %d", params.TrialDays).
			Mark(ierr.ErrValidation)
	}
	return params.Config.Validate()
}

func orderingError(start, end time.Time) error {
	return ierr.NewError("cycle start is after cycle end").
		WithHintf("Billing cycle start %s is after its end %s", types.FormatTime(start), types.FormatTime(end)).
		WithReportableDetails(map[string]any{
			"cycle_start": types.FormatTime(start),
			"cycle_end":   types.FormatTime(end),
		}).
		Mark(ierr.ErrCalculation)
}

// earliest returns the earliest non nil time
func earliest(times ...*time.Time) *time.Time {
	set := lo.Filter(times, func(t *time.Time, _ int) bool {
		return t != nil
	})
	if len(set) == 0 {
		return nil
	}
	return lo.MinBy(set, func(a, b *time.Time) bool {
		return a.Before(*b)
	})
}

func ratio(part, whole int64) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Div(decimal.NewFromInt(whole))
}

func msToSeconds(ms int64) float64 {
	return decimal.New(ms, -3).InexactFloat64()
}
