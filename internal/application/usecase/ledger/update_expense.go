package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/expense-ledger/backend/internal/application/adapter"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

// UpdateExpenseInput represents the input for a partial expense update.
type UpdateExpenseInput struct {
	OwnerID   uuid.UUID
	ExpenseID uuid.UUID
	Patch     adapter.ExpensePatch
}

// UpdateExpenseOutput represents the output of an expense update.
type UpdateExpenseOutput struct {
	Expense *ExpenseOutput
	Balance *BalanceOutput
}

// UpdateExpenseUseCase patches an existing expense, applying the amount
// difference to the balance and refreshing the aggregate of every month the
// expense touched.
type UpdateExpenseUseCase struct {
	coordinator
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(
	balances adapter.BalanceStore,
	expenses adapter.ExpenseStore,
	aggregates adapter.MonthlyAggregateStore,
	cache adapter.ReportCache,
) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		coordinator: newCoordinator(balances, expenses, aggregates, cache),
	}
}

// Execute performs the expense update.
//
// The balance delta is old_amount - new_amount (zero when the amount is
// untouched), commutative like every other ledger delta. When the patch moves
// the expense's date across a month boundary, both the old and the new month
// are recomputed. On balance failure the update is reverted to the old field
// values before the error is surfaced.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	if input.Patch.IsEmpty() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeEmptyExpensePatch,
			"at least one field must be provided",
			domainerror.ErrEmptyExpensePatch,
		)
	}
	if err := validateExpenseFields(input.Patch.Amount, input.Patch.Category, input.Patch.Description, input.Patch.Date); err != nil {
		return nil, err
	}

	// The store captures the pre-image atomically with the write, so the
	// delta is computed from the record this update actually replaced, not
	// from a read that a concurrent update may have raced past.
	old, updated, err := uc.expenses.Update(ctx, input.ExpenseID, input.OwnerID, input.Patch)
	if err != nil {
		return nil, notFoundOrUnavailable(err)
	}

	delta := old.Amount.Sub(updated.Amount)

	balance, err := uc.applyBalanceDelta(ctx, input.OwnerID, delta)
	if err != nil {
		// The revert runs detached from the request context so a cancelled
		// request cannot leave the patched amount uncharged.
		revert := adapter.ExpensePatch{
			Amount:      &old.Amount,
			Category:    &old.Category,
			Date:        &old.Date,
			Description: &old.Description,
		}
		_, _, compErr := uc.expenses.Update(context.WithoutCancel(ctx), input.ExpenseID, input.OwnerID, revert)
		return nil, wrapBalanceFailure(input.OwnerID, err, compErr)
	}

	uc.refreshAggregates(ctx, input.OwnerID, balance.CurrentBalance, monthOf(old.Date), monthOf(updated.Date))

	slog.Info("Expense updated",
		"ownerID", input.OwnerID,
		"expenseID", input.ExpenseID,
		"delta", delta,
		"balance", balance.CurrentBalance,
	)

	return &UpdateExpenseOutput{
		Expense: newExpenseOutput(updated),
		Balance: newBalanceOutput(balance),
	}, nil
}

// notFoundOrUnavailable maps store errors from the expense lookup/write step.
// Nothing has to be compensated here: a failed first write aborts the whole
// mutation with no balance or aggregate touched.
func notFoundOrUnavailable(err error) error {
	if errors.Is(err, domainerror.ErrExpenseNotFound) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeExpenseNotFound,
			"expense not found",
			domainerror.ErrExpenseNotFound,
		)
	}
	if errors.Is(err, domainerror.ErrExpenseWriteConflict) {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeExpenseWriteConflict,
			"expense was modified concurrently",
			domainerror.ErrExpenseWriteConflict,
		)
	}
	return domainerror.NewLedgerError(
		domainerror.ErrCodeStoreUnavailable,
		"expense store failed",
		err,
	)
}
