package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/adapter"
)

const savingsHistoryCacheKey = "savings-history"

// GetSavingsHistoryInput represents the input for getting savings history.
type GetSavingsHistoryInput struct {
	OwnerID uuid.UUID
}

// SavingsHistoryEntry represents one month in the savings history.
type SavingsHistoryEntry struct {
	Year            int             `json:"year"`
	Month           time.Month      `json:"month"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	ExpensesCount   int             `json:"expenses_count"`
	BalanceSnapshot decimal.Decimal `json:"balance_snapshot"`
	ComputedAt      time.Time       `json:"computed_at"`
}

// GetSavingsHistoryOutput represents the output of getting savings history,
// ordered most recent month first.
type GetSavingsHistoryOutput struct {
	Months []SavingsHistoryEntry `json:"months"`
}

// GetSavingsHistoryUseCase returns the owner's monthly aggregates in reverse
// chronological order, cache-backed like the other reports.
type GetSavingsHistoryUseCase struct {
	aggregates adapter.MonthlyAggregateStore
	cache      adapter.ReportCache
}

// NewGetSavingsHistoryUseCase creates a new GetSavingsHistoryUseCase instance.
func NewGetSavingsHistoryUseCase(aggregates adapter.MonthlyAggregateStore, cache adapter.ReportCache) *GetSavingsHistoryUseCase {
	return &GetSavingsHistoryUseCase{
		aggregates: aggregates,
		cache:      cache,
	}
}

// Execute retrieves the savings history.
func (uc *GetSavingsHistoryUseCase) Execute(
	ctx context.Context,
	input GetSavingsHistoryInput,
) (*GetSavingsHistoryOutput, error) {
	var cached GetSavingsHistoryOutput
	if err := uc.cache.GetJSON(ctx, input.OwnerID, savingsHistoryCacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, adapter.ErrCacheMiss) {
		slog.Debug("Report cache read failed, falling back to store",
			"ownerID", input.OwnerID,
			"key", savingsHistoryCacheKey,
			"error", err,
		)
	}

	aggregates, err := uc.aggregates.ListHistory(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings history: %w", err)
	}

	months := make([]SavingsHistoryEntry, len(aggregates))
	for i, a := range aggregates {
		months[i] = SavingsHistoryEntry{
			Year:            a.Year,
			Month:           a.Month,
			TotalExpenses:   a.TotalExpenses,
			ExpensesCount:   a.ExpensesCount,
			BalanceSnapshot: a.BalanceSnapshot,
			ComputedAt:      a.ComputedAt,
		}
	}

	output := &GetSavingsHistoryOutput{Months: months}

	if err := uc.cache.SetJSON(ctx, input.OwnerID, savingsHistoryCacheKey, output); err != nil {
		slog.Debug("Report cache write failed",
			"ownerID", input.OwnerID,
			"key", savingsHistoryCacheKey,
			"error", err,
		)
	}

	return output, nil
}
