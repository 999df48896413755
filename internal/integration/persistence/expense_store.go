package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/persistence/model"
)

// expenseWriteAttempts bounds the guarded-write loop in Update and Delete.
const expenseWriteAttempts = 5

// expenseStore implements the adapter.ExpenseStore interface. Every query is
// scoped by owner_id in the WHERE clause so one owner can never touch
// another's records through this store.
//
// Update and Delete guard their single write statement with the full
// pre-image of the record, same discipline as the balance CAS: the statement
// only lands if the row still matches what was read, so the returned
// pre-image is exactly the record the write replaced or removed. When a
// concurrent writer changes the row first the guard misses and the loop
// re-reads.
type expenseStore struct {
	db *gorm.DB
}

// NewExpenseStore creates a new expense store instance.
func NewExpenseStore(db *gorm.DB) adapter.ExpenseStore {
	return &expenseStore{
		db: db,
	}
}

// Insert persists a new expense record.
func (s *expenseStore) Insert(ctx context.Context, expense *entity.Expense) error {
	expenseModel := model.ExpenseFromEntity(expense)
	return s.db.WithContext(ctx).Create(expenseModel).Error
}

// FindByID retrieves the owner's expense by id.
func (s *expenseStore) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*entity.Expense, error) {
	var expenseModel model.ExpenseModel
	result := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&expenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return expenseModel.ToEntity(), nil
}

// Update applies the patch to the owner's expense and returns the replaced
// record alongside the new one.
func (s *expenseStore) Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, patch adapter.ExpensePatch) (*entity.Expense, *entity.Expense, error) {
	updates := make(map[string]interface{})
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Category != nil {
		updates["category"] = *patch.Category
	}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}

	for attempt := 1; attempt <= expenseWriteAttempts; attempt++ {
		old, err := s.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, nil, err
		}

		result := s.db.WithContext(ctx).
			Model(&model.ExpenseModel{}).
			Where(
				"id = ? AND owner_id = ? AND amount = ? AND category = ? AND description = ? AND date = ?",
				id, ownerID, old.Amount, old.Category, old.Description, old.Date,
			).
			Updates(updates)
		if result.Error != nil {
			return nil, nil, result.Error
		}
		if result.RowsAffected == 0 {
			// The row changed or vanished between the read and the guarded
			// write. Re-read for a fresh pre-image.
			continue
		}

		updated := applyPatch(old, patch)
		return old, updated, nil
	}

	return nil, nil, domainerror.ErrExpenseWriteConflict
}

// Delete hard-deletes the owner's expense and returns the removed record.
func (s *expenseStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*entity.Expense, error) {
	for attempt := 1; attempt <= expenseWriteAttempts; attempt++ {
		old, err := s.FindByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}

		result := s.db.WithContext(ctx).
			Where(
				"id = ? AND owner_id = ? AND amount = ? AND category = ? AND description = ? AND date = ?",
				id, ownerID, old.Amount, old.Category, old.Description, old.Date,
			).
			Delete(&model.ExpenseModel{})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			// Concurrent patch or delete of the same record. A delete
			// surfaces as ErrExpenseNotFound on the next read.
			continue
		}
		return old, nil
	}

	return nil, domainerror.ErrExpenseWriteConflict
}

// applyPatch projects the post-write record from the pre-image and the patch,
// avoiding a re-read that could observe a later concurrent write.
func applyPatch(old *entity.Expense, patch adapter.ExpensePatch) *entity.Expense {
	updated := *old
	if patch.Amount != nil {
		updated.Amount = *patch.Amount
	}
	if patch.Category != nil {
		updated.Category = *patch.Category
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	return &updated
}

// ListByMonth returns the owner's expenses inside the calendar month.
func (s *expenseStore) ListByMonth(ctx context.Context, ownerID uuid.UUID, year int, month time.Month) ([]*entity.Expense, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var expenseModels []model.ExpenseModel
	result := s.db.WithContext(ctx).
		Where("owner_id = ? AND date >= ? AND date < ?", ownerID, monthStart, nextMonth).
		Order("date ASC, created_at ASC").
		Find(&expenseModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(expenseModels), nil
}

// ListByOwner returns the owner's expenses matching the filter.
func (s *expenseStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter adapter.ExpenseFilter) ([]*entity.Expense, error) {
	query := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var expenseModels []model.ExpenseModel
	result := query.Order("date DESC, created_at DESC").Find(&expenseModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(expenseModels), nil
}

func toEntities(models []model.ExpenseModel) []*entity.Expense {
	expenses := make([]*entity.Expense, len(models))
	for i, m := range models {
		expenses[i] = m.ToEntity()
	}
	return expenses
}
