package proration

import (
	"fmt"
	"time"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// CalculatorType defines the type of proration calculation to use
type CalculatorType string

const (
	CalculatorTypeDay    CalculatorType = "day"
	CalculatorTypeSecond CalculatorType = "second"
)

// NewCalculator creates a proration calculator of the specified type.
func NewCalculator(calculatorType CalculatorType) Calculator {
	switch calculatorType {
	case CalculatorTypeDay:
		return &dayBasedCalculator{}
	default:
		return &secondBasedCalculator{}
	}
}

// secondBasedCalculator prorates on the exact remaining time, the same unit
// billing cycles are prorated in.
type secondBasedCalculator struct{}

func (c *secondBasedCalculator) Calculate(params ProrationParams) (*ProrationResult, error) {
	return calculate(params, func(start, end, at time.Time) (decimal.Decimal, error) {
		total := end.Sub(start)
		if total <= 0 {
			return decimal.Zero, invalidPeriodError(start, end)
		}
		remaining := max(end.Sub(at), 0)
		return decimal.NewFromInt(remaining.Milliseconds()).Div(decimal.NewFromInt(total.Milliseconds())), nil
	})
}

// dayBasedCalculator prorates on whole UTC calendar days.
type dayBasedCalculator struct{}

func (c *dayBasedCalculator) Calculate(params ProrationParams) (*ProrationResult, error) {
	return calculate(params, func(start, end, at time.Time) (decimal.Decimal, error) {
		totalDays := daysBetween(start, end)
		if totalDays <= 0 {
			return decimal.Zero, invalidPeriodError(start, end)
		}
		remainingDays := max(daysBetween(at, end), 0)
		return decimal.NewFromInt(int64(remainingDays)).Div(decimal.NewFromInt(int64(totalDays))), nil
	})
}

type coefficientFunc func(start, end, at time.Time) (decimal.Decimal, error)

func calculate(params ProrationParams, coefficient coefficientFunc) (*ProrationResult, error) {
	if params.ProrationBehavior == types.ProrationBehaviorNone {
		return nil, nil
	}

	if err := validateParams(params); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("invalid proration params: %v", err).
			Mark(ierr.ErrValidation)
	}

	// cycle ends are inclusive, the window is [start, end+1ms)
	periodEnd := params.CycleEnd.Add(time.Millisecond)
	prorationCoefficient, err := coefficient(params.CycleStart, periodEnd, params.ProrationDate)
	if err != nil {
		return nil, err
	}

	currency := params.OldAmount.Currency()
	result := &ProrationResult{
		NetAmount:     types.ZeroMoney(currency),
		Coefficient:   prorationCoefficient,
		Currency:      currency,
		Action:        params.Action,
		ProrationDate: params.ProrationDate,
		CreditItems:   []ProrationLineItem{},
		ChargeItems:   []ProrationLineItem{},
	}

	// Credits are issued for the plan being left only when the cycle was paid in advance
	if params.BillingMode == types.BillingModeInAdvance {
		potentialCredit := params.OldAmount.Scale(prorationCoefficient)
		cappedCredit := capCreditAmount(potentialCredit, params.OriginalAmountPaid, params.PreviousCreditsIssued)

		if cappedCredit.IsPositive() {
			creditItem := ProrationLineItem{
				Description: generateCreditDescription(params.Action),
				Amount:      cappedCredit.Neg(),
				StartDate:   params.ProrationDate,
				EndDate:     params.CycleEnd,
				IsCredit:    true,
			}
			result.CreditItems = append(result.CreditItems, creditItem)
			if result.NetAmount, err = result.NetAmount.Add(creditItem.Amount); err != nil {
				return nil, err
			}
		}
	}

	// Charges are issued for the remaining time on the new plan
	if params.Action != types.ProrationActionCancellation {
		proratedCharge := params.NewAmount.Scale(prorationCoefficient)

		if proratedCharge.IsPositive() {
			chargeItem := ProrationLineItem{
				Description: generateChargeDescription(params.Action),
				Amount:      proratedCharge,
				StartDate:   params.ProrationDate,
				EndDate:     params.CycleEnd,
				IsCredit:    false,
			}
			result.ChargeItems = append(result.ChargeItems, chargeItem)
			if result.NetAmount, err = result.NetAmount.Add(chargeItem.Amount); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// daysBetween counts UTC calendar days between two instants
func daysBetween(start, end time.Time) int {
	return int(types.StartOfDay(end).Sub(types.StartOfDay(start)).Hours() / 24)
}

// capCreditAmount ensures credits do not exceed the original amount paid,
// considering any previous credits already issued for the same original payment.
func capCreditAmount(potentialCredit, originalAmountPaid, previousCreditsIssued types.Money) types.Money {
	zero := types.ZeroMoney(potentialCredit.Currency())
	if !potentialCredit.IsPositive() {
		return zero
	}

	credit := potentialCredit.Amount()
	credit = decimal.Min(credit, originalAmountPaid.Amount())
	credit = decimal.Min(credit, originalAmountPaid.Amount().Sub(previousCreditsIssued.Amount()))

	if !credit.IsPositive() {
		return zero
	}
	return types.NewMoney(credit, potentialCredit.Currency())
}

func generateCreditDescription(action types.ProrationAction) string {
	switch action {
	case types.ProrationActionCancellation:
		return "Credit for unused time on cancelled subscription"
	case types.ProrationActionDowngrade:
		return "Credit for unused time on previous plan before downgrade"
	case types.ProrationActionUpgrade:
		return "Credit for unused time on previous plan before upgrade"
	default:
		return "Credit for unused time"
	}
}

func generateChargeDescription(action types.ProrationAction) string {
	switch action {
	case types.ProrationActionUpgrade:
		return "Prorated charge for upgrade"
	case types.ProrationActionDowngrade:
		return "Prorated charge for downgrade"
	default:
		return "Prorated charge"
	}
}

func invalidPeriodError(start, end time.Time) error {
	return ierr.NewError("invalid billing period").
		WithHintf("billing period is empty (%s to %s)", types.FormatTime(start), types.FormatTime(end)).
		Mark(ierr.ErrValidation)
}

// validateParams checks if essential parameters are provided.
func validateParams(params ProrationParams) error {
	if err := params.Action.Validate(); err != nil {
		return err
	}
	if params.ProrationDate.IsZero() {
		return fmt.Errorf("proration date is required")
	}
	if params.CycleStart.IsZero() || params.CycleEnd.IsZero() {
		return fmt.Errorf("billing cycle start and end dates are required")
	}
	if params.CycleEnd.Before(params.CycleStart) {
		return fmt.Errorf("billing cycle end date cannot be before start date")
	}
	if params.ProrationDate.Before(params.CycleStart) {
		return fmt.Errorf("proration date cannot be before the cycle start")
	}

	currency := params.OldAmount.Currency()
	for _, m := range []types.Money{params.NewAmount, params.OriginalAmountPaid, params.PreviousCreditsIssued} {
		if m.Currency() != "" && m.Currency() != currency {
			return fmt.Errorf("all proration amounts must be in %s, got %s", currency, m.Currency())
		}
	}

	switch params.Action {
	case types.ProrationActionUpgrade, types.ProrationActionDowngrade:
		if params.NewAmount.IsNegative() || params.OldAmount.IsNegative() {
			return fmt.Errorf("plan amounts must not be negative for %s action", params.Action)
		}
	case types.ProrationActionCancellation:
		if !params.NewAmount.IsZero() {
			return fmt.Errorf("new amount must be zero for cancellation action")
		}
	}

	return nil
}
