// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/domain/entity"
)

// BalanceModel represents the balances table in the database.
type BalanceModel struct {
	OwnerID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CurrentBalance    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	MinMonthlyBalance decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Version           uint64          `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for the BalanceModel.
func (BalanceModel) TableName() string {
	return "balances"
}

// ToEntity converts a BalanceModel to a domain Balance entity.
func (m *BalanceModel) ToEntity() *entity.Balance {
	return &entity.Balance{
		OwnerID:           m.OwnerID,
		CurrentBalance:    m.CurrentBalance,
		MinMonthlyBalance: m.MinMonthlyBalance,
		Version:           m.Version,
		UpdatedAt:         m.UpdatedAt,
	}
}

// BalanceFromEntity creates a BalanceModel from a domain Balance entity.
func BalanceFromEntity(balance *entity.Balance) *BalanceModel {
	return &BalanceModel{
		OwnerID:           balance.OwnerID,
		CurrentBalance:    balance.CurrentBalance,
		MinMonthlyBalance: balance.MinMonthlyBalance,
		Version:           balance.Version,
		UpdatedAt:         balance.UpdatedAt,
	}
}
