package dto

import (
	"fmt"

	"github.com/expense-ledger/backend/internal/application/usecase/reporting"
)

// CategoryBreakdownItemResponse represents one category in the breakdown response.
type CategoryBreakdownItemResponse struct {
	Category     string  `json:"category"`
	Total        string  `json:"total"`
	ExpenseCount int     `json:"expense_count"`
	Percentage   float64 `json:"percentage"`
}

// CategoryBreakdownResponse represents the category breakdown response.
type CategoryBreakdownResponse struct {
	StartDate     string                          `json:"start_date"`
	EndDate       string                          `json:"end_date"`
	TotalExpenses string                          `json:"total_expenses"`
	Categories    []CategoryBreakdownItemResponse `json:"categories"`
}

// SavingsHistoryEntryResponse represents one month in the savings history response.
type SavingsHistoryEntryResponse struct {
	Period          string `json:"period"`
	Year            int    `json:"year"`
	Month           int    `json:"month"`
	TotalExpenses   string `json:"total_expenses"`
	ExpensesCount   int    `json:"expenses_count"`
	BalanceSnapshot string `json:"balance_snapshot"`
}

// SavingsHistoryResponse represents the savings history response.
type SavingsHistoryResponse struct {
	Months []SavingsHistoryEntryResponse `json:"months"`
}

// ToCategoryBreakdownResponse converts a breakdown output to its response form.
func ToCategoryBreakdownResponse(output *reporting.GetCategoryBreakdownOutput) CategoryBreakdownResponse {
	categories := make([]CategoryBreakdownItemResponse, len(output.Categories))
	for i, c := range output.Categories {
		categories[i] = CategoryBreakdownItemResponse{
			Category:     c.Category,
			Total:        c.Total.String(),
			ExpenseCount: c.ExpenseCount,
			Percentage:   c.Percentage,
		}
	}
	return CategoryBreakdownResponse{
		StartDate:     output.StartDate.Format("2006-01-02"),
		EndDate:       output.EndDate.Format("2006-01-02"),
		TotalExpenses: output.TotalExpenses.String(),
		Categories:    categories,
	}
}

// ToSavingsHistoryResponse converts a savings history output to its response form.
func ToSavingsHistoryResponse(output *reporting.GetSavingsHistoryOutput) SavingsHistoryResponse {
	months := make([]SavingsHistoryEntryResponse, len(output.Months))
	for i, m := range output.Months {
		months[i] = SavingsHistoryEntryResponse{
			Period:          fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)),
			Year:            m.Year,
			Month:           int(m.Month),
			TotalExpenses:   m.TotalExpenses.String(),
			ExpensesCount:   m.ExpensesCount,
			BalanceSnapshot: m.BalanceSnapshot.String(),
		}
	}
	return SavingsHistoryResponse{Months: months}
}
