// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance represents the single mutable balance record for an owner.
// The version field drives optimistic concurrency control: every successful
// write increments it, and writers must present the version they read.
type Balance struct {
	OwnerID           uuid.UUID
	CurrentBalance    decimal.Decimal
	MinMonthlyBalance decimal.Decimal
	Version           uint64
	UpdatedAt         time.Time
}

// NewBalance creates the initial Balance record for an owner.
// Balances start at zero and are created lazily on first read.
func NewBalance(ownerID uuid.UUID) *Balance {
	return &Balance{
		OwnerID:           ownerID,
		CurrentBalance:    decimal.Zero,
		MinMonthlyBalance: decimal.Zero,
		Version:           1,
		UpdatedAt:         time.Now().UTC(),
	}
}

// BelowMinimum reports whether the current balance has dropped under the
// owner's configured monthly minimum.
func (b *Balance) BelowMinimum() bool {
	return b.CurrentBalance.LessThan(b.MinMonthlyBalance)
}
