package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/expense-ledger/backend/internal/application/adapter"
)

// nopReportCache is the cache used when Redis is not configured: every read
// misses, writes and invalidations succeed silently.
type nopReportCache struct{}

// NewNopReportCache creates a report cache that caches nothing.
func NewNopReportCache() adapter.ReportCache {
	return nopReportCache{}
}

func (nopReportCache) GetJSON(context.Context, uuid.UUID, string, any) error {
	return adapter.ErrCacheMiss
}

func (nopReportCache) SetJSON(context.Context, uuid.UUID, string, any) error {
	return nil
}

func (nopReportCache) InvalidateOwner(context.Context, uuid.UUID) error {
	return nil
}
