package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyAggregate is the per-(owner, year, month) reporting snapshot.
// It is purely derivative: always rebuilt from the expense records for that
// month plus the current balance, never patched incrementally.
type MonthlyAggregate struct {
	OwnerID         uuid.UUID
	Year            int
	Month           time.Month
	TotalExpenses   decimal.Decimal
	ExpensesCount   int
	BalanceSnapshot decimal.Decimal
	ComputedAt      time.Time
}

// ComputeMonthlyAggregate folds the given expenses into a fresh aggregate.
// The expense slice must contain exactly the expenses of (owner, year, month);
// entries outside the window are the caller's bug, not filtered here.
func ComputeMonthlyAggregate(
	ownerID uuid.UUID,
	year int,
	month time.Month,
	expenses []*Expense,
	currentBalance decimal.Decimal,
) *MonthlyAggregate {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	return &MonthlyAggregate{
		OwnerID:         ownerID,
		Year:            year,
		Month:           month,
		TotalExpenses:   total,
		ExpensesCount:   len(expenses),
		BalanceSnapshot: currentBalance,
		ComputedAt:      time.Now().UTC(),
	}
}
