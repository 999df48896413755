package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/expense-ledger/backend/internal/application/adapter"
)

// DeleteExpenseInput represents the input for expense deletion.
type DeleteExpenseInput struct {
	OwnerID   uuid.UUID
	ExpenseID uuid.UUID
}

// DeleteExpenseOutput represents the output of expense deletion.
type DeleteExpenseOutput struct {
	Balance *BalanceOutput
}

// DeleteExpenseUseCase hard-deletes an expense and refunds its amount to the
// balance. No tombstone is kept: once the balance reversal commits, the
// expense's entire effect on the ledger is gone.
type DeleteExpenseUseCase struct {
	coordinator
}

// NewDeleteExpenseUseCase creates a new DeleteExpenseUseCase instance.
func NewDeleteExpenseUseCase(
	balances adapter.BalanceStore,
	expenses adapter.ExpenseStore,
	aggregates adapter.MonthlyAggregateStore,
	cache adapter.ReportCache,
) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		coordinator: newCoordinator(balances, expenses, aggregates, cache),
	}
}

// Execute performs the expense deletion. Delta is +amount (exact reversal).
// If the balance update fails the deleted record is re-inserted unchanged,
// id and creation time included.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, input DeleteExpenseInput) (*DeleteExpenseOutput, error) {
	deleted, err := uc.expenses.Delete(ctx, input.ExpenseID, input.OwnerID)
	if err != nil {
		return nil, notFoundOrUnavailable(err)
	}

	balance, err := uc.applyBalanceDelta(ctx, input.OwnerID, deleted.Amount)
	if err != nil {
		// The re-insert runs detached from the request context so a cancelled
		// request cannot make the deletion stick without its refund.
		compErr := uc.expenses.Insert(context.WithoutCancel(ctx), deleted)
		return nil, wrapBalanceFailure(input.OwnerID, err, compErr)
	}

	uc.refreshAggregates(ctx, input.OwnerID, balance.CurrentBalance, monthOf(deleted.Date))

	slog.Info("Expense deleted",
		"ownerID", input.OwnerID,
		"expenseID", input.ExpenseID,
		"refund", deleted.Amount,
		"balance", balance.CurrentBalance,
	)

	return &DeleteExpenseOutput{
		Balance: newBalanceOutput(balance),
	}, nil
}
