package testutil

import (
	"context"

	"github.com/flexprice/billing-engine/internal/types"
)

// SetupContext returns a background context tagged with a request id
func SetupContext() context.Context {
	return types.WithRequestID(context.Background())
}
