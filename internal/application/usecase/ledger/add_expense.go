package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

// AddExpenseInput represents the input for expense creation.
type AddExpenseInput struct {
	OwnerID     uuid.UUID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// AddExpenseOutput represents the output of expense creation.
type AddExpenseOutput struct {
	Expense *ExpenseOutput
	Balance *BalanceOutput
}

// AddExpenseUseCase records a new expense and charges it against the owner's
// balance.
type AddExpenseUseCase struct {
	coordinator
}

// NewAddExpenseUseCase creates a new AddExpenseUseCase instance.
func NewAddExpenseUseCase(
	balances adapter.BalanceStore,
	expenses adapter.ExpenseStore,
	aggregates adapter.MonthlyAggregateStore,
	cache adapter.ReportCache,
) *AddExpenseUseCase {
	return &AddExpenseUseCase{
		coordinator: newCoordinator(balances, expenses, aggregates, cache),
	}
}

// Execute performs the expense creation.
//
// Sequence: validate, insert the expense, apply delta = -amount to the
// balance via the CAS loop, then refresh the month's aggregate. The expense
// is written before the balance so a failure between the two leaves drift
// that is detectable and recomputable from the expense records, never a
// balance charged for an expense that was not persisted. If the balance
// update fails, the inserted expense is deleted again before returning.
func (uc *AddExpenseUseCase) Execute(ctx context.Context, input AddExpenseInput) (*AddExpenseOutput, error) {
	if err := validateExpenseFields(&input.Amount, &input.Category, &input.Description, &input.Date); err != nil {
		return nil, err
	}

	expense := entity.NewExpense(input.OwnerID, input.Amount, input.Category, input.Description, input.Date)

	if err := uc.expenses.Insert(ctx, expense); err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to insert expense",
			err,
		)
	}

	balance, err := uc.applyBalanceDelta(ctx, input.OwnerID, input.Amount.Neg())
	if err != nil {
		// The undo runs detached from the request context so a cancelled
		// request cannot leave an uncharged expense behind.
		_, compErr := uc.expenses.Delete(context.WithoutCancel(ctx), expense.ID, expense.OwnerID)
		return nil, wrapBalanceFailure(input.OwnerID, err, compErr)
	}

	uc.refreshAggregates(ctx, input.OwnerID, balance.CurrentBalance, monthOf(expense.Date))

	slog.Info("Expense added",
		"ownerID", input.OwnerID,
		"expenseID", expense.ID,
		"amount", expense.Amount,
		"balance", balance.CurrentBalance,
	)

	return &AddExpenseOutput{
		Expense: newExpenseOutput(expense),
		Balance: newBalanceOutput(balance),
	}, nil
}
