package dto

import (
	"time"

	"github.com/expense-ledger/backend/internal/application/usecase/ledger"
)

// UpdateMinimumBalanceRequest represents the request body for setting the
// owner's monthly minimum balance.
type UpdateMinimumBalanceRequest struct {
	MinMonthlyBalance string `json:"min_monthly_balance" binding:"required"`
}

// BalanceResponse represents the balance record in API responses.
type BalanceResponse struct {
	OwnerID           string    `json:"owner_id"`
	CurrentBalance    string    `json:"current_balance"`
	MinMonthlyBalance string    `json:"min_monthly_balance"`
	BelowMinimum      bool      `json:"below_minimum"`
	Version           uint64    `json:"version"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToBalanceResponse converts a use case balance output to its response form.
func ToBalanceResponse(b *ledger.BalanceOutput) BalanceResponse {
	return BalanceResponse{
		OwnerID:           b.OwnerID.String(),
		CurrentBalance:    b.CurrentBalance.String(),
		MinMonthlyBalance: b.MinMonthlyBalance.String(),
		BelowMinimum:      b.BelowMinimum,
		Version:           b.Version,
		UpdatedAt:         b.UpdatedAt,
	}
}
