package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/persistence/model"
)

// monthlyAggregateStore implements the adapter.MonthlyAggregateStore interface.
type monthlyAggregateStore struct {
	db *gorm.DB
}

// NewMonthlyAggregateStore creates a new monthly aggregate store instance.
func NewMonthlyAggregateStore(db *gorm.DB) adapter.MonthlyAggregateStore {
	return &monthlyAggregateStore{
		db: db,
	}
}

// Recompute folds the supplied expenses into a fresh aggregate and upserts it.
// The whole row is replaced; no incremental arithmetic ever touches the table.
func (s *monthlyAggregateStore) Recompute(
	ctx context.Context,
	ownerID uuid.UUID,
	year int,
	month time.Month,
	expenses []*entity.Expense,
	currentBalance decimal.Decimal,
) (*entity.MonthlyAggregate, error) {
	aggregate := entity.ComputeMonthlyAggregate(ownerID, year, month, expenses, currentBalance)
	aggregateModel := model.MonthlyAggregateFromEntity(aggregate)

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_expenses", "expenses_count", "balance_snapshot", "computed_at",
		}),
	}).Create(aggregateModel)
	if result.Error != nil {
		return nil, result.Error
	}
	return aggregate, nil
}

// Get returns the aggregate for the month.
func (s *monthlyAggregateStore) Get(ctx context.Context, ownerID uuid.UUID, year int, month time.Month) (*entity.MonthlyAggregate, error) {
	var aggregateModel model.MonthlyAggregateModel
	result := s.db.WithContext(ctx).
		Where("owner_id = ? AND year = ? AND month = ?", ownerID, year, int(month)).
		First(&aggregateModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAggregateNotFound
		}
		return nil, result.Error
	}
	return aggregateModel.ToEntity(), nil
}

// ListHistory returns all aggregates of the owner, most recent month first.
func (s *monthlyAggregateStore) ListHistory(ctx context.Context, ownerID uuid.UUID) ([]*entity.MonthlyAggregate, error) {
	var aggregateModels []model.MonthlyAggregateModel
	result := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("year DESC, month DESC").
		Find(&aggregateModels)
	if result.Error != nil {
		return nil, result.Error
	}

	aggregates := make([]*entity.MonthlyAggregate, len(aggregateModels))
	for i, m := range aggregateModels {
		aggregates[i] = m.ToEntity()
	}
	return aggregates, nil
}
