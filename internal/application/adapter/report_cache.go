package adapter

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrCacheMiss is returned by ReportCache.GetJSON when the key is absent.
var ErrCacheMiss = errors.New("report cache miss")

// ReportCache caches read-only report payloads per owner. Only derived
// reporting data is ever cached; balance reads always hit the store because
// callers make decisions based on the current value.
//
// The cache is best-effort: implementations return errors, but callers treat
// any failure as a miss and fall back to the stores.
type ReportCache interface {
	// GetJSON unmarshals the cached payload for key into v.
	// Returns ErrCacheMiss when the key is not present.
	GetJSON(ctx context.Context, ownerID uuid.UUID, key string, v any) error

	// SetJSON marshals v and stores it under key with the cache's TTL.
	SetJSON(ctx context.Context, ownerID uuid.UUID, key string, v any) error

	// InvalidateOwner drops every cached report for the owner. Called by the
	// mutation path after any ledger change.
	InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error
}
