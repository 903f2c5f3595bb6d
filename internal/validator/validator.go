package validator

import (
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/flexprice/billing-engine/internal/types"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func NewValidator() *validator.Validate {
	validate = validator.New()
	_ = validate.RegisterValidation("currency", validateCurrency)
	_ = validate.RegisterValidation("billing_anchor", validateBillingAnchor)
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// validateCurrency accepts supported currency codes in any case
func validateCurrency(fl validator.FieldLevel) bool {
	return types.IsSupportedCurrency(fl.Field().String())
}

// validateBillingAnchor accepts dayOfCreation (0) or a positive anchor.
// Anchors past the end of the interval are clamped when the cycle is computed.
func validateBillingAnchor(fl validator.FieldLevel) bool {
	return fl.Field().Int() >= 0
}
