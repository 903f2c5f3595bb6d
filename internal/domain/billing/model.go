package billing

import (
	"encoding/json"
	"math"
	"time"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// Config is the billing configuration of a plan version
type Config struct {
	Interval      types.BillingInterval `json:"billing_interval"`
	IntervalCount int                   `json:"billing_interval_count"`
	Anchor        types.BillingAnchor   `json:"billing_anchor"`
	PlanType      types.PlanType        `json:"plan_type"`
}

// IsOnetime reports whether the configuration produces a single unbounded cycle
func (c Config) IsOnetime() bool {
	return c.Interval == types.BillingIntervalOnetime || c.PlanType == types.PlanTypeOnetime
}

func (c Config) Validate() error {
	if err := c.Interval.Validate(); err != nil {
		return err
	}
	if c.PlanType != "" {
		if err := c.PlanType.Validate(); err != nil {
			return err
		}
	}
	if c.IsOnetime() {
		return nil
	}
	if c.IntervalCount < 1 {
		return ierr.NewError("invalid billing interval count").
			WithHintf("Billing interval count must be a positive integer, got %d", c.IntervalCount).
			Mark(ierr.ErrValidation)
	}
	return c.Anchor.Validate()
}

// Alignment controls how cycle boundaries snap to days and calendar anchors
type Alignment struct {
	// AlignStartToDay moves the cycle start to 00:00:00.000 UTC
	AlignStartToDay bool
	// AlignEndToDay moves the cycle end to 23:59:59.999 UTC
	AlignEndToDay bool
	// AlignToCalendar snaps month and year cycles to the billing anchor.
	// When false they run from the start date like any other interval.
	AlignToCalendar bool
}

// DefaultAlignment does not align the start, aligns the end and snaps to the calendar
func DefaultAlignment() Alignment {
	return Alignment{
		AlignStartToDay: false,
		AlignEndToDay:   true,
		AlignToCalendar: true,
	}
}

// CycleParams are the inputs to ComputeCycle
type CycleParams struct {
	TrialDays           int
	CurrentCycleStartAt time.Time
	Config              Config
	// EndAt, CancelAt and ChangeAt truncate the cycle. The earliest one wins.
	EndAt     *time.Time
	CancelAt  *time.Time
	ChangeAt  *time.Time
	Alignment Alignment
}

// Cycle is a computed billing cycle. CycleEnd is the last billable
// millisecond, so a January cycle ends at 2024-01-31T23:59:59.999Z.
type Cycle struct {
	CycleStart time.Time
	CycleEnd   time.Time
	// TrialEndsAt is set for trial cycles and is the instant the trial is over
	TrialEndsAt *time.Time
	// FullCycleStart and FullCycleEnd bound the un-prorated reference cycle
	FullCycleStart time.Time
	FullCycleEnd   time.Time
	// SecondsInCycle is the length of the reference cycle, +Inf for onetime cycles
	SecondsInCycle float64
	// BillableSeconds is the part of the reference cycle that is charged
	BillableSeconds float64
	// ProrationFactor is BillableSeconds / SecondsInCycle within [0,1]
	ProrationFactor decimal.Decimal
}

func (c *Cycle) IsTrial() bool {
	return c.TrialEndsAt != nil
}

func (c *Cycle) IsOnetime() bool {
	return math.IsInf(c.SecondsInCycle, 1)
}

// IsProrated reports whether less than the full reference cycle is billed
func (c *Cycle) IsProrated() bool {
	return c.ProrationFactor.LessThan(decimal.NewFromInt(1))
}

type cycleJSON struct {
	CycleStart      string          `json:"cycle_start"`
	CycleEnd        string          `json:"cycle_end"`
	TrialEndsAt     *string         `json:"trial_ends_at,omitempty"`
	FullCycleStart  string          `json:"full_cycle_start"`
	FullCycleEnd    string          `json:"full_cycle_end"`
	SecondsInCycle  *float64        `json:"seconds_in_cycle"`
	BillableSeconds *float64        `json:"billable_seconds"`
	ProrationFactor decimal.Decimal `json:"proration_factor"`
}

// MarshalJSON writes infinite second counts as null
func (c Cycle) MarshalJSON() ([]byte, error) {
	out := cycleJSON{
		CycleStart:      types.FormatTime(c.CycleStart),
		CycleEnd:        types.FormatTime(c.CycleEnd),
		FullCycleStart:  types.FormatTime(c.FullCycleStart),
		FullCycleEnd:    types.FormatTime(c.FullCycleEnd),
		SecondsInCycle:  finiteOrNil(c.SecondsInCycle),
		BillableSeconds: finiteOrNil(c.BillableSeconds),
		ProrationFactor: c.ProrationFactor,
	}
	if c.TrialEndsAt != nil {
		trial := types.FormatTime(*c.TrialEndsAt)
		out.TrialEndsAt = &trial
	}
	return json.Marshal(out)
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
