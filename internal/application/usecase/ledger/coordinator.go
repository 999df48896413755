// Package ledger contains the mutation use cases that keep the balance,
// expense, and monthly aggregate records consistent with each other.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

const (
	// MaxDescriptionLength is the maximum allowed length for expense descriptions.
	MaxDescriptionLength = 255
	// MaxCategoryLength is the maximum allowed length for expense categories.
	MaxCategoryLength = 100

	// balanceRetryAttempts bounds the CAS loop. Attempt-count rather than
	// wall-clock so tests stay deterministic.
	balanceRetryAttempts = 5
	// balanceRetryBaseDelay is the initial backoff delay, doubled per retry.
	balanceRetryBaseDelay = 10 * time.Millisecond
)

// monthKey identifies one (year, month) aggregate window.
type monthKey struct {
	year  int
	month time.Month
}

func monthOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: t.Month()}
}

// coordinator holds the stores shared by every mutation use case and
// implements the pieces of the mutation sequence common to all of them:
// the balance CAS retry loop and the aggregate refresh.
//
// The coordinator holds no lock across store calls. Correctness under
// concurrent mutations for the same owner comes from expressing every
// operation's balance effect as a commutative delta and retrying the CAS
// with that same delta against a freshly read balance.
type coordinator struct {
	balances   adapter.BalanceStore
	expenses   adapter.ExpenseStore
	aggregates adapter.MonthlyAggregateStore
	cache      adapter.ReportCache
}

func newCoordinator(
	balances adapter.BalanceStore,
	expenses adapter.ExpenseStore,
	aggregates adapter.MonthlyAggregateStore,
	cache adapter.ReportCache,
) coordinator {
	return coordinator{
		balances:   balances,
		expenses:   expenses,
		aggregates: aggregates,
		cache:      cache,
	}
}

// applyBalanceDelta adds delta to the owner's balance through a bounded
// read/CAS loop. A zero delta still goes through one CAS so the balance
// version (and UpdatedAt) records that the ledger changed.
//
// Returns the committed balance, or an error once retries are exhausted or
// the store fails. The caller is responsible for compensating the expense
// write on any error.
func (c coordinator) applyBalanceDelta(
	ctx context.Context,
	ownerID uuid.UUID,
	delta decimal.Decimal,
) (*entity.Balance, error) {
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

		current, err := c.balances.Read(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to read balance: %w", err)
		}

		updated, err := c.balances.CompareAndSwap(
			ctx,
			ownerID,
			current.Version,
			current.CurrentBalance.Add(delta),
		)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, domainerror.ErrBalanceVersionConflict) {
			return nil, fmt.Errorf("failed to update balance: %w", err)
		}

		slog.Debug("Balance CAS conflict, retrying",
			"ownerID", ownerID,
			"attempt", attempt,
			"delta", delta,
		)
	}

	return nil, domainerror.NewLedgerError(
		domainerror.ErrCodeBalanceRetriesExhausted,
		fmt.Sprintf("balance update lost %d consecutive version races", balanceRetryAttempts),
		domainerror.ErrBalanceRetriesExhausted,
	)
}

// refreshAggregates rebuilds the aggregates for the given months from a fresh
// expense listing plus the committed balance, then drops the owner's cached
// reports. Aggregates are a derived cache, so failures here are logged and
// left for the next recompute rather than failing the mutation — the balance
// is already committed and must not be rolled back for a reporting snapshot.
func (c coordinator) refreshAggregates(
	ctx context.Context,
	ownerID uuid.UUID,
	balance decimal.Decimal,
	months ...monthKey,
) {
	seen := make(map[monthKey]bool, len(months))

	g, gctx := errgroup.WithContext(ctx)
	for _, m := range months {
		if seen[m] {
			continue
		}
		seen[m] = true

		g.Go(func() error {
			expenses, err := c.expenses.ListByMonth(gctx, ownerID, m.year, m.month)
			if err != nil {
				return fmt.Errorf("list month %d-%02d: %w", m.year, m.month, err)
			}
			if _, err := c.aggregates.Recompute(gctx, ownerID, m.year, m.month, expenses, balance); err != nil {
				return fmt.Errorf("recompute month %d-%02d: %w", m.year, m.month, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Monthly aggregate recompute failed, will be rebuilt on next touch",
			"ownerID", ownerID,
			"error", err,
		)
	}

	if err := c.cache.InvalidateOwner(ctx, ownerID); err != nil {
		slog.Debug("Report cache invalidation failed",
			"ownerID", ownerID,
			"error", err,
		)
	}
}

// wrapBalanceFailure converts an applyBalanceDelta error into the error
// surfaced to the caller, after compensation has run. compErr, when non-nil,
// is the failure of the compensating write itself.
func wrapBalanceFailure(ownerID uuid.UUID, balanceErr, compErr error) error {
	if compErr != nil {
		slog.Error("Compensating expense write failed, ledger requires reconciliation",
			"ownerID", ownerID,
			"balanceError", balanceErr,
			"compensationError", compErr,
		)
		return domainerror.NewLedgerError(
			domainerror.ErrCodeCompensationFailed,
			"balance update failed and the expense write could not be undone",
			errors.Join(balanceErr, compErr),
		)
	}

	var ledgerErr *domainerror.LedgerError
	if errors.As(balanceErr, &ledgerErr) {
		return balanceErr
	}
	return domainerror.NewLedgerError(
		domainerror.ErrCodeStoreUnavailable,
		"balance store failed",
		balanceErr,
	)
}

// validateExpenseFields checks the field constraints shared by add and update.
func validateExpenseFields(amount *decimal.Decimal, category, description *string, date *time.Time) error {
	if amount != nil && !amount.IsPositive() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidExpenseAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidExpenseAmount,
		)
	}
	if category != nil {
		if *category == "" {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeMissingExpenseCategory,
				"category is required",
				domainerror.ErrMissingExpenseCategory,
			)
		}
		if len(*category) > MaxCategoryLength {
			return domainerror.NewLedgerError(
				domainerror.ErrCodeCategoryTooLong,
				fmt.Sprintf("category must not exceed %d characters", MaxCategoryLength),
				domainerror.ErrCategoryTooLong,
			)
		}
	}
	if description != nil && len(*description) > MaxDescriptionLength {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	if date != nil && date.IsZero() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeMissingExpenseDate,
			"date is required",
			domainerror.ErrMissingExpenseDate,
		)
	}
	return nil
}
