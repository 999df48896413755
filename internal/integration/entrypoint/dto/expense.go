package dto

import (
	"time"

	"github.com/expense-ledger/backend/internal/application/usecase/ledger"
)

// AddExpenseRequest represents the request body for expense creation.
// Amount travels as a string so values survive the wire decimal-exact.
type AddExpenseRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Category    string `json:"category" binding:"required,min=1,max=100"`
	Description string `json:"description,omitempty" binding:"omitempty,max=255"`
	Date        string `json:"date" binding:"required"`
}

// UpdateExpenseRequest represents the request body for a partial expense update.
type UpdateExpenseRequest struct {
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=255"`
	Date        *string `json:"date,omitempty"`
}

// ExpenseResponse represents a single expense in API responses.
type ExpenseResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseListResponse represents the response for listing expenses.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
	Total    int               `json:"total"`
}

// MutationResponse represents the response of an expense mutation: the
// affected expense (absent for deletes) plus the committed balance.
type MutationResponse struct {
	Expense *ExpenseResponse `json:"expense,omitempty"`
	Balance BalanceResponse  `json:"balance"`
}

// ToExpenseResponse converts a use case expense output to its response form.
func ToExpenseResponse(e *ledger.ExpenseOutput) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID.String(),
		OwnerID:     e.OwnerID.String(),
		Amount:      e.Amount.String(),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.Format("2006-01-02"),
		CreatedAt:   e.CreatedAt,
	}
}

// ToExpenseListResponse converts a listing output to its response form.
func ToExpenseListResponse(output *ledger.ListExpensesOutput) ExpenseListResponse {
	expenses := make([]ExpenseResponse, len(output.Expenses))
	for i, e := range output.Expenses {
		expenses[i] = ToExpenseResponse(e)
	}
	return ExpenseListResponse{
		Expenses: expenses,
		Total:    len(expenses),
	}
}
