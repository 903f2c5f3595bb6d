package types

import (
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/samber/lo"
)

// ProrationAction defines the type of change triggering proration.
type ProrationAction string

const (
	ProrationActionUpgrade      ProrationAction = "upgrade"
	ProrationActionDowngrade    ProrationAction = "downgrade"
	ProrationActionCancellation ProrationAction = "cancellation"
)

func (a ProrationAction) Validate() error {
	allowed := []ProrationAction{
		ProrationActionUpgrade,
		ProrationActionDowngrade,
		ProrationActionCancellation,
	}
	if !lo.Contains(allowed, a) {
		return ierr.NewError("invalid proration action").
			WithHint("Invalid proration action").
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": a,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ProrationBehavior defines how proration is applied.
type ProrationBehavior string

const (
	ProrationBehaviorCreateProrations ProrationBehavior = "create_prorations" // Default: Create credits/charges
	ProrationBehaviorNone             ProrationBehavior = "none"              // Skip proration entirely
)

// BillingMode represents when a subscription is billed.
type BillingMode string

const (
	BillingModeInAdvance BillingMode = "in_advance"
	BillingModeInArrears BillingMode = "in_arrears"
)
