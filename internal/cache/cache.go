package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache stores computed values that are pure functions of their key, such
// as billing cycles. Implementations must be safe for concurrent use.
type Cache interface {
	// Enabled reports whether Set stores anything
	Enabled() bool

	// Get returns the value stored under key and whether it was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores value under key. A zero expiration uses the configured TTL.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	Delete(ctx context.Context, key string)

	// DeleteByPrefix drops every key built from prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	Flush(ctx context.Context)
}

// PrefixCycle is bumped whenever billing.Cycle changes shape
const PrefixCycle = "cycle:v1"

// keyNone stands for an unset optional key part
const keyNone = "-"

// GenerateKey joins prefix and params with colons. Times are written in
// UTC with millisecond precision and nil pointers as "-", so two keys are
// equal only when every input is.
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, prefix)

	for _, param := range params {
		parts = append(parts, keyPart(param))
	}

	return strings.Join(parts, ":")
}

func keyPart(param interface{}) string {
	switch v := param.(type) {
	case nil:
		return keyNone
	case time.Time:
		return v.UTC().Format("20060102T150405.000")
	case *time.Time:
		if v == nil {
			return keyNone
		}
		return keyPart(*v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
