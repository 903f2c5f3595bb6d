package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds surfaced by the engine. Validation errors mean the input was
// malformed, calculation errors mean the math could not proceed.
var (
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrCalculation      = new(ErrCodeCalculation, "calculation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// sentinels in precedence order for errors marked more than once
	sentinels = []*InternalError{ErrValidation, ErrCalculation, ErrInvalidOperation, ErrSystem}
	// process exit codes for the command line tools
	exitCodes = map[string]int{
		ErrCodeValidation:       2,
		ErrCodeCalculation:      3,
		ErrCodeInvalidOperation: 4,
		ErrCodeSystemError:      1,
	}
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeValidation       = "validation_error"
	ErrCodeCalculation      = "calculation_error"
	ErrCodeInvalidOperation = "invalid_operation"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsCalculation checks if an error is a calculation error
func IsCalculation(err error) bool {
	return errors.Is(err, ErrCalculation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// CodeFromErr returns the machine-readable code of the first sentinel the
// error is marked with, or the system error code.
func CodeFromErr(err error) string {
	for _, e := range sentinels {
		if errors.Is(err, e) {
			return e.Code
		}
	}
	return ErrCodeSystemError
}

func ExitCodeFromErr(err error) int {
	if err == nil {
		return 0
	}
	return exitCodes[CodeFromErr(err)]
}
