package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/domain/entity"
)

// ExpenseFilter defines filter options for listing an owner's expenses.
type ExpenseFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
}

// ExpensePatch carries the fields of a partial expense update. Nil fields are
// left untouched.
type ExpensePatch struct {
	Amount      *decimal.Decimal
	Category    *string
	Date        *time.Time
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Date == nil && p.Description == nil
}

// ExpenseStore defines the interface for expense persistence operations.
//
// Update and Delete are scoped by owner in the store itself so cross-tenant
// access is structurally impossible rather than merely checked by callers.
type ExpenseStore interface {
	// Insert persists a new expense record.
	Insert(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves an expense by id, scoped to the owner.
	FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*entity.Expense, error)

	// Update applies the patch to the owner's expense and returns both the
	// record the write replaced and the record it produced. The pre-image is
	// captured atomically with the write, so delta math against it stays
	// correct under concurrent updates of the same expense. Returns
	// domainerror.ErrExpenseNotFound for unknown or foreign ids.
	Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, patch ExpensePatch) (old, updated *entity.Expense, err error)

	// Delete hard-deletes the owner's expense and returns the deleted record so
	// the caller can compute reversal deltas. Like Update, the returned record
	// is exactly the one the delete removed.
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*entity.Expense, error)

	// ListByMonth returns all expenses of the owner whose date falls inside the
	// given calendar month, ordered by date then creation time.
	ListByMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month) ([]*entity.Expense, error)

	// ListByOwner returns the owner's expenses matching the filter, ordered by
	// date descending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ExpenseFilter) ([]*entity.Expense, error)
}
