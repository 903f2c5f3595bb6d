package proration

import (
	"time"

	"github.com/flexprice/billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// ProrationParams holds all necessary input for calculating proration.
type ProrationParams struct {
	// Cycle context
	CycleStart  time.Time         // Start of the current billing cycle
	CycleEnd    time.Time         // Last billable instant of the current billing cycle
	BillingMode types.BillingMode // In advance cycles were already paid for

	// Change details
	Action        types.ProrationAction // Type of change
	ProrationDate time.Time             // Effective date/time of the change
	OldAmount     types.Money           // Full cycle amount of the plan being left
	NewAmount     types.Money           // Full cycle amount of the new plan, zero for cancellation

	// Configuration
	ProrationBehavior types.ProrationBehavior

	// Handling multiple changes / credits
	OriginalAmountPaid    types.Money // Amount originally paid for the cycle
	PreviousCreditsIssued types.Money // Sum of credits already issued against OriginalAmountPaid
}

// ProrationLineItem represents a single credit or charge line item.
type ProrationLineItem struct {
	Description string      `json:"description"`
	Amount      types.Money `json:"amount"`     // Positive for charge, negative for credit
	StartDate   time.Time   `json:"start_date"` // Period this line item covers
	EndDate     time.Time   `json:"end_date"`   // Period this line item covers
	IsCredit    bool        `json:"is_credit"`
}

// ProrationResult holds the output of a proration calculation.
type ProrationResult struct {
	CreditItems   []ProrationLineItem   `json:"credit_items"`
	ChargeItems   []ProrationLineItem   `json:"charge_items"`
	NetAmount     types.Money           `json:"net_amount"` // Sum of charges - sum of credits
	Coefficient   decimal.Decimal       `json:"coefficient"`
	Currency      string                `json:"currency"`
	Action        types.ProrationAction `json:"action"`
	ProrationDate time.Time             `json:"proration_date"`
}
