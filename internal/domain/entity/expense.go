package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a single expense transaction in the ledger.
// Date is the calendar day the expense belongs to, independent of CreatedAt.
type Expense struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Amount      decimal.Decimal // Always strictly positive
	Category    string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// NewExpense creates a new Expense entity.
func NewExpense(
	ownerID uuid.UUID,
	amount decimal.Decimal,
	category string,
	description string,
	date time.Time,
) *Expense {
	return &Expense{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}
}

// Month returns the (year, month) window the expense falls in.
func (e *Expense) Month() (int, time.Month) {
	return e.Date.Year(), e.Date.Month()
}

// SameMonth reports whether the other expense falls in the same calendar month.
func (e *Expense) SameMonth(other *Expense) bool {
	return e.Date.Year() == other.Date.Year() && e.Date.Month() == other.Date.Month()
}
