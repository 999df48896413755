package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/domain/entity"
)

// MonthlyAggregateModel represents the monthly_aggregates table in the
// database. Primary key is the composite (owner_id, year, month).
type MonthlyAggregateModel struct {
	OwnerID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Year            int             `gorm:"primaryKey"`
	Month           int             `gorm:"primaryKey"`
	TotalExpenses   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ExpensesCount   int             `gorm:"not null"`
	BalanceSnapshot decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ComputedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for the MonthlyAggregateModel.
func (MonthlyAggregateModel) TableName() string {
	return "monthly_aggregates"
}

// ToEntity converts a MonthlyAggregateModel to a domain MonthlyAggregate entity.
func (m *MonthlyAggregateModel) ToEntity() *entity.MonthlyAggregate {
	return &entity.MonthlyAggregate{
		OwnerID:         m.OwnerID,
		Year:            m.Year,
		Month:           time.Month(m.Month),
		TotalExpenses:   m.TotalExpenses,
		ExpensesCount:   m.ExpensesCount,
		BalanceSnapshot: m.BalanceSnapshot,
		ComputedAt:      m.ComputedAt,
	}
}

// MonthlyAggregateFromEntity creates a MonthlyAggregateModel from a domain entity.
func MonthlyAggregateFromEntity(aggregate *entity.MonthlyAggregate) *MonthlyAggregateModel {
	return &MonthlyAggregateModel{
		OwnerID:         aggregate.OwnerID,
		Year:            aggregate.Year,
		Month:           int(aggregate.Month),
		TotalExpenses:   aggregate.TotalExpenses,
		ExpensesCount:   aggregate.ExpensesCount,
		BalanceSnapshot: aggregate.BalanceSnapshot,
		ComputedAt:      aggregate.ComputedAt,
	}
}
