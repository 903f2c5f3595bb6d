package types

import (
	"strings"

	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/samber/lo"
)

// CurrencyConfig describes how amounts in a currency are scaled and displayed
type CurrencyConfig struct {
	// Code is the 3 letter ISO currency code in lowercase ex usd, eur
	Code string
	// Symbol is the display symbol ex $
	Symbol string
	// Precision is the minor unit exponent ex 2 for cents, 0 for yen
	Precision int32
}

// CURRENCY_CONFIG maps lowercase ISO currency codes to their configuration
var CURRENCY_CONFIG = map[string]CurrencyConfig{
	"usd": {Code: "usd", Symbol: "$", Precision: 2},
	"eur": {Code: "eur", Symbol: "€", Precision: 2},
	"gbp": {Code: "gbp", Symbol: "£", Precision: 2},
	"aud": {Code: "aud", Symbol: "AU$", Precision: 2},
	"cad": {Code: "cad", Symbol: "CA$", Precision: 2},
	"chf": {Code: "chf", Symbol: "CHF", Precision: 2},
	"sek": {Code: "sek", Symbol: "kr", Precision: 2},
	"nzd": {Code: "nzd", Symbol: "NZ$", Precision: 2},
	"hkd": {Code: "hkd", Symbol: "HK$", Precision: 2},
	"sgd": {Code: "sgd", Symbol: "S$", Precision: 2},
	"jpy": {Code: "jpy", Symbol: "¥", Precision: 0},
	"cny": {Code: "cny", Symbol: "¥", Precision: 2},
	"inr": {Code: "inr", Symbol: "₹", Precision: 2},
	"brl": {Code: "brl", Symbol: "R$", Precision: 2},
	"rub": {Code: "rub", Symbol: "₽", Precision: 2},
	"mxn": {Code: "mxn", Symbol: "MX$", Precision: 2},
	"krw": {Code: "krw", Symbol: "₩", Precision: 0},
	"try": {Code: "try", Symbol: "₺", Precision: 2},
	"zar": {Code: "zar", Symbol: "R", Precision: 2},
	"myr": {Code: "myr", Symbol: "RM", Precision: 2},
	"kwd": {Code: "kwd", Symbol: "KD", Precision: 3},
}

// DEFAULT_CURRENCY_PRECISION is used for codes missing from CURRENCY_CONFIG
const DEFAULT_CURRENCY_PRECISION int32 = 2

// GetCurrencyConfig returns the configuration for a currency code. Unknown
// codes fall back to the code itself as symbol and two decimals.
func GetCurrencyConfig(code string) CurrencyConfig {
	code = strings.ToLower(code)
	if config, ok := CURRENCY_CONFIG[code]; ok {
		return config
	}
	return CurrencyConfig{Code: code, Symbol: strings.ToUpper(code), Precision: DEFAULT_CURRENCY_PRECISION}
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the code itself
func GetCurrencySymbol(code string) string {
	return GetCurrencyConfig(code).Symbol
}

// GetCurrencyPrecision returns the minor unit exponent of a currency
func GetCurrencyPrecision(code string) int32 {
	return GetCurrencyConfig(code).Precision
}

// IsSupportedCurrency reports whether the code is present in CURRENCY_CONFIG
func IsSupportedCurrency(code string) bool {
	return lo.HasKey(CURRENCY_CONFIG, strings.ToLower(code))
}

// ValidateCurrencyCode checks that the code is a supported ISO currency
func ValidateCurrencyCode(code string) error {
	if !IsSupportedCurrency(code) {
		return ierr.NewError("unsupported currency").
			WithHintf("Currency %q is not supported", code).
			WithReportableDetails(map[string]any{
				"currency": code,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
