// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/domain/entity"
)

// BalanceStore defines the interface for balance persistence operations.
//
// The store never performs blind writes: every mutation goes through
// CompareAndSwap so concurrent writers are serialized by the version column
// rather than by an in-process lock.
type BalanceStore interface {
	// Read returns the current balance record for the owner. It is always a
	// fresh fetch; the record is created lazily (zero balance, zero minimum)
	// the first time an owner is read.
	Read(ctx context.Context, ownerID uuid.UUID) (*entity.Balance, error)

	// CompareAndSwap writes newBalance if and only if the stored version still
	// equals expectedVersion, incrementing the version on success. It returns
	// domainerror.ErrBalanceVersionConflict when the version moved; the store
	// itself never retries.
	CompareAndSwap(
		ctx context.Context,
		ownerID uuid.UUID,
		expectedVersion uint64,
		newBalance decimal.Decimal,
	) (*entity.Balance, error)

	// CompareAndSwapMinimum updates the owner's monthly minimum under the same
	// version discipline as CompareAndSwap.
	CompareAndSwapMinimum(
		ctx context.Context,
		ownerID uuid.UUID,
		expectedVersion uint64,
		newMinimum decimal.Decimal,
	) (*entity.Balance, error)
}
