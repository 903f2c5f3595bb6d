package types

import (
	"encoding/json"
	"fmt"
	"strings"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount in a fixed currency. The amount is kept
// in main currency units (1.50 means $1.50 for usd) and is never converted
// to a binary float.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney builds a Money value from a decimal amount
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: strings.ToLower(currency)}
}

// ZeroMoney returns the zero amount of a currency
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// NewMoneyFromMinorUnits builds a Money value from an integer count of minor
// units, ex 1250 cents for $12.50
func NewMoneyFromMinorUnits(minor int64, currency string) Money {
	precision := GetCurrencyPrecision(currency)
	return NewMoney(decimal.New(minor, -precision), currency)
}

// ParseMoney parses a decimal string into Money. A leading currency symbol
// as produced by Display is accepted.
func ParseMoney(value string, currency string) (Money, error) {
	raw := strings.TrimSpace(value)
	negative := strings.HasPrefix(raw, "-")
	if negative {
		raw = raw[1:]
	}
	raw = strings.TrimPrefix(raw, GetCurrencySymbol(currency))
	raw = strings.ReplaceAll(raw, ",", "")
	if negative && raw != "" {
		raw = "-" + raw
	}

	if raw == "" {
		return Money{}, ierr.NewError("empty money amount").
			WithHint("Amount is required").
			Mark(ierr.ErrValidation)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, ierr.WithError(err).
			WithHintf("Invalid amount %q", value).
			WithReportableDetails(map[string]any{
				"amount":   value,
				"currency": currency,
			}).
			Mark(ierr.ErrValidation)
	}

	return NewMoney(amount, currency), nil
}

// MustParseMoney is ParseMoney for literals known to be valid
func MustParseMoney(value string, currency string) Money {
	m, err := ParseMoney(value, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Precision() int32 {
	return GetCurrencyPrecision(m.currency)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Equal compares amount and currency, ignoring trailing zeros
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Add returns m + other. Both values must be in the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ierr.NewError("currency mismatch").
			WithHintf("Cannot add %s to %s", other.currency, m.currency).
			WithReportableDetails(map[string]any{
				"left":  m.currency,
				"right": other.currency,
			}).
			Mark(ierr.ErrCalculation)
	}
	return NewMoney(m.amount.Add(other.amount), m.currency), nil
}

// Sub returns m - other. Both values must be in the same currency.
func (m Money) Sub(other Money) (Money, error) {
	return m.Add(other.Neg())
}

func (m Money) Neg() Money {
	return NewMoney(m.amount.Neg(), m.currency)
}

// MulInt multiplies by an integer quantity. The result is exact.
func (m Money) MulInt(quantity int64) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(quantity)), m.currency)
}

// Scale multiplies by a factor and rounds the result to the currency precision
func (m Money) Scale(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor), m.currency).Round()
}

// Round rounds the amount to the currency precision
func (m Money) Round() Money {
	return NewMoney(m.amount.Round(m.Precision()), m.currency)
}

// MinorUnits returns the amount as an integer count of minor units. The
// second return value is false when the amount has more decimals than the
// currency precision.
func (m Money) MinorUnits() (int64, bool) {
	shifted := m.amount.Shift(m.Precision())
	if !shifted.Equal(shifted.Truncate(0)) {
		return shifted.Truncate(0).IntPart(), false
	}
	return shifted.IntPart(), true
}

// displayScale is the currency precision, widened when the amount carries
// sub minor unit decimals ex a $0.0025 unit price
func (m Money) displayScale() int32 {
	scale := m.Precision()
	maxScale := -m.amount.Exponent()
	for scale < maxScale && !m.amount.Round(scale).Equal(m.amount) {
		scale++
	}
	return scale
}

// String formats the amount without symbol ex 12.50
func (m Money) String() string {
	return m.amount.StringFixed(m.displayScale())
}

// Display formats the amount with the currency symbol ex $12.50
func (m Money) Display() string {
	if m.amount.IsNegative() {
		return fmt.Sprintf("-%s%s", GetCurrencySymbol(m.currency), m.amount.Abs().StringFixed(m.displayScale()))
	}
	return fmt.Sprintf("%s%s", GetCurrencySymbol(m.currency), m.String())
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.String(), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid money value").
			Mark(ierr.ErrValidation)
	}
	parsed, err := ParseMoney(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
