package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expense-ledger/backend/internal/application/adapter"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

// ListExpensesInput represents the input for listing an owner's expenses.
type ListExpensesInput struct {
	OwnerID   uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
}

// ListExpensesOutput represents the output of an expense listing.
type ListExpensesOutput struct {
	Expenses []*ExpenseOutput
}

// ListExpensesUseCase returns the owner's expenses, optionally filtered by
// date range and category. Read-only.
type ListExpensesUseCase struct {
	expenses adapter.ExpenseStore
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenses adapter.ExpenseStore) *ListExpensesUseCase {
	return &ListExpensesUseCase{expenses: expenses}
}

// Execute performs the listing.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidDateRange,
			"endDate must not be before startDate",
			domainerror.ErrInvalidDateRange,
		)
	}

	expenses, err := uc.expenses.ListByOwner(ctx, input.OwnerID, adapter.ExpenseFilter{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Category:  input.Category,
	})
	if err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to list expenses",
			err,
		)
	}

	out := make([]*ExpenseOutput, len(expenses))
	for i, e := range expenses {
		out[i] = newExpenseOutput(e)
	}
	return &ListExpensesOutput{Expenses: out}, nil
}
