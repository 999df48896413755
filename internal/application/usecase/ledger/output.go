package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/domain/entity"
)

// ExpenseOutput represents an expense in use case outputs.
type ExpenseOutput struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

func newExpenseOutput(e *entity.Expense) *ExpenseOutput {
	return &ExpenseOutput{
		ID:          e.ID,
		OwnerID:     e.OwnerID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

// BalanceOutput represents the balance record in use case outputs.
type BalanceOutput struct {
	OwnerID           uuid.UUID
	CurrentBalance    decimal.Decimal
	MinMonthlyBalance decimal.Decimal
	BelowMinimum      bool
	Version           uint64
	UpdatedAt         time.Time
}

func newBalanceOutput(b *entity.Balance) *BalanceOutput {
	return &BalanceOutput{
		OwnerID:           b.OwnerID,
		CurrentBalance:    b.CurrentBalance,
		MinMonthlyBalance: b.MinMonthlyBalance,
		BelowMinimum:      b.BelowMinimum(),
		Version:           b.Version,
		UpdatedAt:         b.UpdatedAt,
	}
}
