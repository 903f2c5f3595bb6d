package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code          string         `json:"code"`
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// NewErrorResponse builds the response for err using the hints as the
// display message and the reportable details attached by the builder.
func NewErrorResponse(err error) ErrorResponse {
	display := errors.FlattenHints(err)
	if display == "" {
		display = "An unexpected error occurred"
	}

	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:          CodeFromErr(err),
			Display:       display,
			InternalError: err.Error(),
			Details:       reportableDetails(err),
		},
	}
}

func reportableDetails(err error) map[string]any {
	details := make(map[string]any)
	for _, safe := range errors.GetAllSafeDetails(err) {
		for _, payload := range safe.SafeDetails {
			raw, ok := strings.CutPrefix(payload, jsonDetailPrefix)
			if !ok {
				continue
			}
			var m map[string]any
			if json.Unmarshal([]byte(raw), &m) != nil {
				continue
			}
			for k, v := range m {
				details[k] = v
			}
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
