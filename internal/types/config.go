package types

import (
	ierr "github.com/flexprice/billing-engine/internal/errors"
	"github.com/samber/lo"
)

// LogLevel is the minimum level written by the engine logger
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) Validate() error {
	allowed := []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}
	if !lo.Contains(allowed, l) {
		return ierr.NewError("invalid log level").
			WithHintf("Log level must be one of %v", allowed).
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": l,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
