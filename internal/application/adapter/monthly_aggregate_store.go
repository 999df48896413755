package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/domain/entity"
)

// MonthlyAggregateStore defines the interface for the per-month reporting
// snapshots. Aggregates are derived state: Recompute replaces the whole row
// from the inputs it is handed, never patching counters in place.
type MonthlyAggregateStore interface {
	// Recompute rebuilds and upserts the aggregate for (owner, year, month)
	// from the supplied expense list and balance. The store never reads the
	// expense store itself; the caller supplies the exact month's records.
	Recompute(
		ctx context.Context,
		ownerID uuid.UUID,
		year int,
		month time.Month,
		expenses []*entity.Expense,
		currentBalance decimal.Decimal,
	) (*entity.MonthlyAggregate, error)

	// Get returns the aggregate for the month, or
	// domainerror.ErrAggregateNotFound when the month has never been touched.
	Get(ctx context.Context, ownerID uuid.UUID, year int, month time.Month) (*entity.MonthlyAggregate, error)

	// ListHistory returns all aggregates of the owner ordered by year
	// descending, month descending.
	ListHistory(ctx context.Context, ownerID uuid.UUID) ([]*entity.MonthlyAggregate, error)
}
