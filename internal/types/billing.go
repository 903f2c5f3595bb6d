package types

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// BillingInterval is the unit a billing cycle is measured in ex month, year
type BillingInterval string

const (
	BillingIntervalMinute  BillingInterval = "minute"
	BillingIntervalDay     BillingInterval = "day"
	BillingIntervalMonth   BillingInterval = "month"
	BillingIntervalYear    BillingInterval = "year"
	BillingIntervalOnetime BillingInterval = "onetime"
)

func (b BillingInterval) String() string {
	return string(b)
}

func (b BillingInterval) Validate() error {
	allowed := []BillingInterval{
		BillingIntervalMinute,
		BillingIntervalDay,
		BillingIntervalMonth,
		BillingIntervalYear,
		BillingIntervalOnetime,
	}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing interval").
			WithHint("Invalid billing interval").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": b,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsCalendar reports whether cycles of this interval can snap to a calendar anchor
func (b BillingInterval) IsCalendar() bool {
	return b == BillingIntervalMonth || b == BillingIntervalYear
}

// PlanType tells whether a plan renews
type PlanType string

const (
	PlanTypeRecurring PlanType = "recurring"
	PlanTypeOnetime   PlanType = "onetime"
)

func (p PlanType) Validate() error {
	allowed := []PlanType{PlanTypeRecurring, PlanTypeOnetime}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid plan type").
			WithHint("Invalid plan type").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingAnchor is the day of month (month interval) or month of year (year
// interval) a calendar aligned cycle snaps to. The zero value means the anchor
// is taken from the day the cycle starts.
type BillingAnchor int

const (
	BillingAnchorDayOfCreation BillingAnchor = 0

	// billingAnchorDayOfCreationText is the wire form of BillingAnchorDayOfCreation
	billingAnchorDayOfCreationText = "dayOfCreation"

	MaxMonthAnchor = 31
	MaxYearAnchor  = 12
)

func (a BillingAnchor) IsDayOfCreation() bool {
	return a == BillingAnchorDayOfCreation
}

// Clamp returns the anchor limited to the valid range of the interval:
// [1,31] for months and [1,12] for years.
func (a BillingAnchor) Clamp(interval BillingInterval) int {
	upper := MaxMonthAnchor
	if interval == BillingIntervalYear {
		upper = MaxYearAnchor
	}
	return lo.Clamp(int(a), 1, upper)
}

// Resolve returns the effective anchor for a cycle starting at start: the
// day of month for month intervals and the month of year for year intervals.
func (a BillingAnchor) Resolve(interval BillingInterval, start time.Time) int {
	if a.IsDayOfCreation() {
		if interval == BillingIntervalYear {
			return int(start.UTC().Month())
		}
		return start.UTC().Day()
	}
	return a.Clamp(interval)
}

func (a BillingAnchor) String() string {
	if a.IsDayOfCreation() {
		return billingAnchorDayOfCreationText
	}
	return strconv.Itoa(int(a))
}

func (a BillingAnchor) Validate() error {
	if a < 0 {
		return ierr.NewError("invalid billing anchor").
			WithHint("Billing anchor must be a positive integer or dayOfCreation").
			WithReportableDetails(map[string]any{
				"provided_value": int(a),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (a BillingAnchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *BillingAnchor) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" || strings.EqualFold(raw, billingAnchorDayOfCreationText) {
		*a = BillingAnchorDayOfCreation
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return ierr.NewError("invalid billing anchor").
			WithHintf("Billing anchor %q must be a positive integer or dayOfCreation", raw).
			Mark(ierr.ErrValidation)
	}
	*a = BillingAnchor(v)
	return nil
}

func (a BillingAnchor) MarshalJSON() ([]byte, error) {
	if a.IsDayOfCreation() {
		return json.Marshal(billingAnchorDayOfCreationText)
	}
	return json.Marshal(int(a))
}

func (a *BillingAnchor) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = BillingAnchorDayOfCreation
		return nil
	}
	return a.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

func (a *BillingAnchor) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*a = BillingAnchorDayOfCreation
		return nil
	}
	return a.UnmarshalText([]byte(value.Value))
}

// OnetimeCycleEnd is the sentinel end of a onetime cycle
var OnetimeCycleEnd = time.Date(9999, time.December, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
