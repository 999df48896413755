package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/expense-ledger/backend/internal/application/adapter"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

// GetBalanceInput represents the input for reading an owner's balance.
type GetBalanceInput struct {
	OwnerID uuid.UUID
}

// GetBalanceOutput represents the output of a balance read.
type GetBalanceOutput struct {
	Balance *BalanceOutput
}

// GetBalanceUseCase reads the owner's current balance. The read is always a
// fresh store fetch, never cached; the store creates the record on first read.
type GetBalanceUseCase struct {
	balances adapter.BalanceStore
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase instance.
func NewGetBalanceUseCase(balances adapter.BalanceStore) *GetBalanceUseCase {
	return &GetBalanceUseCase{balances: balances}
}

// Execute performs the balance read.
func (uc *GetBalanceUseCase) Execute(ctx context.Context, input GetBalanceInput) (*GetBalanceOutput, error) {
	balance, err := uc.balances.Read(ctx, input.OwnerID)
	if err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeStoreUnavailable,
			"failed to read balance",
			err,
		)
	}

	return &GetBalanceOutput{Balance: newBalanceOutput(balance)}, nil
}
