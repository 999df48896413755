// Package persistence implements the store interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/persistence/model"
)

// balanceStore implements the adapter.BalanceStore interface.
type balanceStore struct {
	db *gorm.DB
}

// NewBalanceStore creates a new balance store instance.
func NewBalanceStore(db *gorm.DB) adapter.BalanceStore {
	return &balanceStore{
		db: db,
	}
}

// Read retrieves the owner's balance, creating the record on first read.
func (s *balanceStore) Read(ctx context.Context, ownerID uuid.UUID) (*entity.Balance, error) {
	var balanceModel model.BalanceModel
	result := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&balanceModel)
	if result.Error == nil {
		return balanceModel.ToEntity(), nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	// First read for this owner: create the zero record. Two first-readers can
	// race here; the loser hits the primary-key violation and re-reads.
	created := model.BalanceFromEntity(entity.NewBalance(ownerID))
	if err := s.db.WithContext(ctx).Create(created).Error; err != nil {
		if isUniqueViolation(err) {
			result = s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&balanceModel)
			if result.Error != nil {
				return nil, result.Error
			}
			return balanceModel.ToEntity(), nil
		}
		return nil, err
	}
	return created.ToEntity(), nil
}

// CompareAndSwap writes the new balance guarded by the version column.
func (s *balanceStore) CompareAndSwap(
	ctx context.Context,
	ownerID uuid.UUID,
	expectedVersion uint64,
	newBalance decimal.Decimal,
) (*entity.Balance, error) {
	return s.versionedUpdate(ctx, ownerID, expectedVersion, map[string]interface{}{
		"current_balance": newBalance,
		"version":         gorm.Expr("version + 1"),
		"updated_at":      time.Now().UTC(),
	})
}

// CompareAndSwapMinimum updates the monthly minimum under the same version guard.
func (s *balanceStore) CompareAndSwapMinimum(
	ctx context.Context,
	ownerID uuid.UUID,
	expectedVersion uint64,
	newMinimum decimal.Decimal,
) (*entity.Balance, error) {
	return s.versionedUpdate(ctx, ownerID, expectedVersion, map[string]interface{}{
		"min_monthly_balance": newMinimum,
		"version":             gorm.Expr("version + 1"),
		"updated_at":          time.Now().UTC(),
	})
}

// versionedUpdate performs the single guarded UPDATE that implements CAS.
// A zero rows-affected count means the version moved (or the record vanished,
// which only owner removal could cause); both surface as a version conflict
// for the caller's retry loop to resolve with a fresh read.
func (s *balanceStore) versionedUpdate(
	ctx context.Context,
	ownerID uuid.UUID,
	expectedVersion uint64,
	updates map[string]interface{},
) (*entity.Balance, error) {
	result := s.db.WithContext(ctx).
		Model(&model.BalanceModel{}).
		Where("owner_id = ? AND version = ?", ownerID, expectedVersion).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerror.ErrBalanceVersionConflict
	}

	var balanceModel model.BalanceModel
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&balanceModel).Error; err != nil {
		return nil, err
	}
	return balanceModel.ToEntity(), nil
}

// isUniqueViolation detects a duplicate-key error from postgres (23505) or
// from the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
