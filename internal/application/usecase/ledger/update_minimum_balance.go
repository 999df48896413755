package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/adapter"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

// UpdateMinimumBalanceInput represents the input for setting the owner's
// monthly minimum balance threshold.
type UpdateMinimumBalanceInput struct {
	OwnerID    uuid.UUID
	NewMinimum decimal.Decimal
}

// UpdateMinimumBalanceOutput represents the output of a minimum update.
type UpdateMinimumBalanceOutput struct {
	Balance *BalanceOutput
}

// UpdateMinimumBalanceUseCase sets the advisory minimum the owner wants to
// keep in their balance each month. The threshold only drives the
// below-minimum flag on balance reads, it never blocks a mutation.
type UpdateMinimumBalanceUseCase struct {
	balances adapter.BalanceStore
}

// NewUpdateMinimumBalanceUseCase creates a new UpdateMinimumBalanceUseCase instance.
func NewUpdateMinimumBalanceUseCase(balances adapter.BalanceStore) *UpdateMinimumBalanceUseCase {
	return &UpdateMinimumBalanceUseCase{balances: balances}
}

// Execute performs the minimum update under the same read/CAS retry loop as
// the ledger mutations, so a concurrent expense never loses its balance write
// to a settings change.
func (uc *UpdateMinimumBalanceUseCase) Execute(ctx context.Context, input UpdateMinimumBalanceInput) (*UpdateMinimumBalanceOutput, error) {
	if input.NewMinimum.IsNegative() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidExpenseAmount,
			"minimum balance must not be negative",
			domainerror.ErrInvalidExpenseAmount,
		)
	}

	delay := balanceRetryBaseDelay

	for attempt := 1; attempt <= balanceRetryAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		current, err := uc.balances.Read(ctx, input.OwnerID)
		if err != nil {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeStoreUnavailable,
				"failed to read balance",
				err,
			)
		}

		updated, err := uc.balances.CompareAndSwapMinimum(ctx, input.OwnerID, current.Version, input.NewMinimum)
		if err == nil {
			slog.Info("Minimum monthly balance updated",
				"ownerID", input.OwnerID,
				"minimum", input.NewMinimum,
			)
			return &UpdateMinimumBalanceOutput{Balance: newBalanceOutput(updated)}, nil
		}
		if !errors.Is(err, domainerror.ErrBalanceVersionConflict) {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeStoreUnavailable,
				"failed to update minimum balance",
				err,
			)
		}
	}

	return nil, domainerror.NewLedgerError(
		domainerror.ErrCodeBalanceRetriesExhausted,
		fmt.Sprintf("minimum update lost %d consecutive version races", balanceRetryAttempts),
		domainerror.ErrBalanceRetriesExhausted,
	)
}
