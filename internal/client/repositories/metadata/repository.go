// Package metadata is a small key/value table in the local database. The
// session credential and its sign-in time live here under fixed keys.
package metadata

import (
	"context"
)

// Repository stores string values by key.
type Repository interface {
	// Get reports ok=false for a missing key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete removes every listed key; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
