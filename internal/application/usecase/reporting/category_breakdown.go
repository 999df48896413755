// Package reporting contains the read-only rollup use cases. Nothing in this
// package mutates ledger state; a single consistent store read is sufficient
// because no invariant is enforced on the read path.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/adapter"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

// GetCategoryBreakdownInput represents the input for getting category breakdown.
type GetCategoryBreakdownInput struct {
	OwnerID   uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// CategoryBreakdownItem represents a single category in the breakdown.
type CategoryBreakdownItem struct {
	Category     string          `json:"category"`
	Total        decimal.Decimal `json:"total"`
	ExpenseCount int             `json:"expense_count"`
	Percentage   float64         `json:"percentage"`
}

// GetCategoryBreakdownOutput represents the output of getting category breakdown.
type GetCategoryBreakdownOutput struct {
	StartDate     time.Time               `json:"start_date"`
	EndDate       time.Time               `json:"end_date"`
	TotalExpenses decimal.Decimal         `json:"total_expenses"`
	Categories    []CategoryBreakdownItem `json:"categories"`
}

// GetCategoryBreakdownUseCase groups an owner's expenses by category over a
// date range. Results are served from the report cache when warm; balance
// data is never involved, so a stale entry only ever delays reporting.
type GetCategoryBreakdownUseCase struct {
	expenses adapter.ExpenseStore
	cache    adapter.ReportCache
}

// NewGetCategoryBreakdownUseCase creates a new GetCategoryBreakdownUseCase instance.
func NewGetCategoryBreakdownUseCase(expenses adapter.ExpenseStore, cache adapter.ReportCache) *GetCategoryBreakdownUseCase {
	return &GetCategoryBreakdownUseCase{
		expenses: expenses,
		cache:    cache,
	}
}

// Execute computes the breakdown for the given period.
func (uc *GetCategoryBreakdownUseCase) Execute(
	ctx context.Context,
	input GetCategoryBreakdownInput,
) (*GetCategoryBreakdownOutput, error) {
	if err := uc.validateInput(input); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("category-breakdown:%s:%s",
		input.StartDate.Format("2006-01-02"),
		input.EndDate.Format("2006-01-02"),
	)

	var cached GetCategoryBreakdownOutput
	if err := uc.cache.GetJSON(ctx, input.OwnerID, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, adapter.ErrCacheMiss) {
		slog.Debug("Report cache read failed, falling back to store",
			"ownerID", input.OwnerID,
			"key", cacheKey,
			"error", err,
		)
	}

	expenses, err := uc.expenses.ListByOwner(ctx, input.OwnerID, adapter.ExpenseFilter{
		StartDate: &input.StartDate,
		EndDate:   &input.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for breakdown: %w", err)
	}

	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[string]*bucket)
	total := decimal.Zero

	for _, e := range expenses {
		b, ok := buckets[e.Category]
		if !ok {
			b = &bucket{total: decimal.Zero}
			buckets[e.Category] = b
		}
		b.total = b.total.Add(e.Amount)
		b.count++
		total = total.Add(e.Amount)
	}

	categories := make([]CategoryBreakdownItem, 0, len(buckets))
	for category, b := range buckets {
		var percentage float64
		if !total.IsZero() {
			pct := b.total.Mul(decimal.NewFromInt(100)).Div(total)
			percentage, _ = pct.Round(2).Float64()
		}
		categories = append(categories, CategoryBreakdownItem{
			Category:     category,
			Total:        b.total,
			ExpenseCount: b.count,
			Percentage:   percentage,
		})
	}

	// Largest categories first, name as the deterministic tie-break.
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Total.Equal(categories[j].Total) {
			return categories[i].Total.GreaterThan(categories[j].Total)
		}
		return categories[i].Category < categories[j].Category
	})

	output := &GetCategoryBreakdownOutput{
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		TotalExpenses: total,
		Categories:    categories,
	}

	if err := uc.cache.SetJSON(ctx, input.OwnerID, cacheKey, output); err != nil {
		slog.Debug("Report cache write failed",
			"ownerID", input.OwnerID,
			"key", cacheKey,
			"error", err,
		)
	}

	return output, nil
}

// validateInput validates the input parameters.
func (uc *GetCategoryBreakdownUseCase) validateInput(input GetCategoryBreakdownInput) error {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeMissingExpenseDate,
			"start_date and end_date are required",
			domainerror.ErrMissingExpenseDate,
		)
	}
	if input.EndDate.Before(input.StartDate) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidDateRange,
			"end_date must not be before start_date",
			domainerror.ErrInvalidDateRange,
		)
	}
	return nil
}
