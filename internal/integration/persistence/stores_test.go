package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/persistence/model"
)

// newTestDB opens a private in-memory sqlite database migrated with the
// ledger tables. A single connection keeps the in-memory database alive for
// the test's duration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	if err := db.AutoMigrate(
		&model.BalanceModel{},
		&model.ExpenseModel{},
		&model.MonthlyAggregateModel{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestBalanceStore_LazyCreationOnFirstRead(t *testing.T) {
	store := NewBalanceStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	balance, err := store.Read(ctx, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.CurrentBalance.IsZero() || !balance.MinMonthlyBalance.IsZero() {
		t.Errorf("expected zero defaults, got balance %s minimum %s",
			balance.CurrentBalance, balance.MinMonthlyBalance)
	}
	if balance.Version != 1 {
		t.Errorf("expected initial version 1, got %d", balance.Version)
	}

	// A second read returns the same record, not a fresh one.
	again, err := store.Read(ctx, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Version != balance.Version {
		t.Errorf("expected stable version across reads, got %d then %d", balance.Version, again.Version)
	}
}

func TestBalanceStore_CompareAndSwap(t *testing.T) {
	store := NewBalanceStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	initial, err := store.Read(ctx, owner)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	t.Run("matching version commits and bumps version", func(t *testing.T) {
		updated, err := store.CompareAndSwap(ctx, owner, initial.Version, dec("150.25"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.CurrentBalance.Equal(dec("150.25")) {
			t.Errorf("expected balance 150.25, got %s", updated.CurrentBalance)
		}
		if updated.Version != initial.Version+1 {
			t.Errorf("expected version %d, got %d", initial.Version+1, updated.Version)
		}
	})

	t.Run("stale version returns conflict without writing", func(t *testing.T) {
		_, err := store.CompareAndSwap(ctx, owner, initial.Version, dec("999"))
		if !errors.Is(err, domainerror.ErrBalanceVersionConflict) {
			t.Fatalf("expected ErrBalanceVersionConflict, got %v", err)
		}

		current, readErr := store.Read(ctx, owner)
		if readErr != nil {
			t.Fatalf("read: %v", readErr)
		}
		if !current.CurrentBalance.Equal(dec("150.25")) {
			t.Errorf("expected balance unchanged at 150.25, got %s", current.CurrentBalance)
		}
	})

	t.Run("minimum update shares the version sequence", func(t *testing.T) {
		current, readErr := store.Read(ctx, owner)
		if readErr != nil {
			t.Fatalf("read: %v", readErr)
		}
		updated, err := store.CompareAndSwapMinimum(ctx, owner, current.Version, dec("100"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.MinMonthlyBalance.Equal(dec("100")) {
			t.Errorf("expected minimum 100, got %s", updated.MinMonthlyBalance)
		}
		if updated.Version != current.Version+1 {
			t.Errorf("expected version bump to %d, got %d", current.Version+1, updated.Version)
		}
		if !updated.CurrentBalance.Equal(dec("150.25")) {
			t.Errorf("expected current balance untouched, got %s", updated.CurrentBalance)
		}
	})
}

func TestExpenseStore_OwnerScoping(t *testing.T) {
	store := NewExpenseStore(newTestDB(t))
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	expense := entity.NewExpense(owner, dec("42"), "food", "lunch", date(2025, time.April, 10))
	if err := store.Insert(ctx, expense); err != nil {
		t.Fatalf("insert: %v", err)
	}

	t.Run("find is scoped", func(t *testing.T) {
		if _, err := store.FindByID(ctx, expense.ID, stranger); !errors.Is(err, domainerror.ErrExpenseNotFound) {
			t.Errorf("expected ErrExpenseNotFound for foreign owner, got %v", err)
		}
		found, err := store.FindByID(ctx, expense.ID, owner)
		if err != nil {
			t.Fatalf("owner lookup failed: %v", err)
		}
		if !found.Amount.Equal(dec("42")) {
			t.Errorf("expected amount 42, got %s", found.Amount)
		}
	})

	t.Run("update is scoped", func(t *testing.T) {
		newAmount := dec("50")
		if _, _, err := store.Update(ctx, expense.ID, stranger, adapter.ExpensePatch{Amount: &newAmount}); !errors.Is(err, domainerror.ErrExpenseNotFound) {
			t.Errorf("expected ErrExpenseNotFound for foreign owner, got %v", err)
		}
	})

	t.Run("delete is scoped", func(t *testing.T) {
		if _, err := store.Delete(ctx, expense.ID, stranger); !errors.Is(err, domainerror.ErrExpenseNotFound) {
			t.Errorf("expected ErrExpenseNotFound for foreign owner, got %v", err)
		}
		if _, err := store.FindByID(ctx, expense.ID, owner); err != nil {
			t.Errorf("expected record to survive foreign delete: %v", err)
		}
	})
}

func TestExpenseStore_PartialUpdate(t *testing.T) {
	store := NewExpenseStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	expense := entity.NewExpense(owner, dec("42"), "food", "lunch", date(2025, time.April, 10))
	if err := store.Insert(ctx, expense); err != nil {
		t.Fatalf("insert: %v", err)
	}

	newCategory := "dining"
	old, updated, err := store.Update(ctx, expense.ID, owner, adapter.ExpensePatch{Category: &newCategory})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if old.Category != "food" || !old.Amount.Equal(dec("42")) {
		t.Errorf("expected the replaced record {42, food}, got {%s, %s}", old.Amount, old.Category)
	}
	if updated.Category != "dining" {
		t.Errorf("expected category dining, got %s", updated.Category)
	}
	if !updated.Amount.Equal(dec("42")) {
		t.Errorf("expected amount untouched at 42, got %s", updated.Amount)
	}
	if updated.Description != "lunch" {
		t.Errorf("expected description untouched, got %q", updated.Description)
	}
}

func TestExpenseStore_UpdateReturnsReplacedRecord(t *testing.T) {
	store := NewExpenseStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	expense := entity.NewExpense(owner, dec("25"), "food", "lunch", date(2025, time.April, 10))
	if err := store.Insert(ctx, expense); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Two sequential updates: each must return the record its own write
	// replaced, so amount deltas computed from the pre-images telescope.
	first := dec("40")
	old1, new1, err := store.Update(ctx, expense.ID, owner, adapter.ExpensePatch{Amount: &first})
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	second := dec("30")
	old2, new2, err := store.Update(ctx, expense.ID, owner, adapter.ExpensePatch{Amount: &second})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if !old1.Amount.Equal(dec("25")) || !new1.Amount.Equal(dec("40")) {
		t.Errorf("expected first update 25 -> 40, got %s -> %s", old1.Amount, new1.Amount)
	}
	if !old2.Amount.Equal(dec("40")) || !new2.Amount.Equal(dec("30")) {
		t.Errorf("expected second update 40 -> 30, got %s -> %s", old2.Amount, new2.Amount)
	}

	stored, err := store.FindByID(ctx, expense.ID, owner)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !stored.Amount.Equal(dec("30")) {
		t.Errorf("expected stored amount 30, got %s", stored.Amount)
	}
}

func TestExpenseStore_DeleteReturnsRecord(t *testing.T) {
	store := NewExpenseStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	expense := entity.NewExpense(owner, dec("42"), "food", "lunch", date(2025, time.April, 10))
	if err := store.Insert(ctx, expense); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deleted, err := store.Delete(ctx, expense.ID, owner)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != expense.ID || !deleted.Amount.Equal(dec("42")) {
		t.Errorf("expected the deleted record back, got id %s amount %s", deleted.ID, deleted.Amount)
	}

	if _, err := store.FindByID(ctx, expense.ID, owner); !errors.Is(err, domainerror.ErrExpenseNotFound) {
		t.Errorf("expected record gone, got %v", err)
	}
}

func TestExpenseStore_ListByMonthBoundaries(t *testing.T) {
	store := NewExpenseStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	for _, d := range []time.Time{
		date(2025, time.March, 31),
		date(2025, time.April, 1),
		date(2025, time.April, 30),
		date(2025, time.May, 1),
	} {
		if err := store.Insert(ctx, entity.NewExpense(owner, dec("10"), "misc", "", d)); err != nil {
			t.Fatalf("insert %s: %v", d, err)
		}
	}

	april, err := store.ListByMonth(ctx, owner, 2025, time.April)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(april) != 2 {
		t.Fatalf("expected 2 April expenses, got %d", len(april))
	}
	for _, e := range april {
		if e.Date.Month() != time.April {
			t.Errorf("expected only April dates, got %s", e.Date)
		}
	}
}

func TestExpenseStore_ListByOwnerFilters(t *testing.T) {
	store := NewExpenseStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	seed := []struct {
		amount   string
		category string
		day      time.Time
	}{
		{"10", "food", date(2025, time.April, 5)},
		{"20", "rent", date(2025, time.April, 10)},
		{"30", "food", date(2025, time.June, 1)},
	}
	for _, s := range seed {
		if err := store.Insert(ctx, entity.NewExpense(owner, dec(s.amount), s.category, "", s.day)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	t.Run("category filter", func(t *testing.T) {
		got, err := store.ListByOwner(ctx, owner, adapter.ExpenseFilter{Category: "food"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 food expenses, got %d", len(got))
		}
	})

	t.Run("date range filter", func(t *testing.T) {
		start := date(2025, time.April, 1)
		end := date(2025, time.April, 30)
		got, err := store.ListByOwner(ctx, owner, adapter.ExpenseFilter{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 April expenses, got %d", len(got))
		}
	})

	t.Run("ordered date descending", func(t *testing.T) {
		got, err := store.ListByOwner(ctx, owner, adapter.ExpenseFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 expenses, got %d", len(got))
		}
		if !got[0].Date.After(got[2].Date) {
			t.Errorf("expected newest first, got %s before %s", got[0].Date, got[2].Date)
		}
	})
}

func TestMonthlyAggregateStore_RecomputeUpsertsWholeRow(t *testing.T) {
	db := newTestDB(t)
	store := NewMonthlyAggregateStore(db)
	owner := uuid.New()
	ctx := context.Background()

	expenses := []*entity.Expense{
		entity.NewExpense(owner, dec("25"), "food", "", date(2025, time.April, 10)),
		entity.NewExpense(owner, dec("75"), "rent", "", date(2025, time.April, 1)),
	}

	first, err := store.Recompute(ctx, owner, 2025, time.April, expenses, dec("900"))
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if !first.TotalExpenses.Equal(dec("100")) || first.ExpensesCount != 2 {
		t.Errorf("expected {100, 2}, got {%s, %d}", first.TotalExpenses, first.ExpensesCount)
	}

	// Idempotence: same inputs, same output row.
	second, err := store.Recompute(ctx, owner, 2025, time.April, expenses, dec("900"))
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if !second.TotalExpenses.Equal(first.TotalExpenses) ||
		second.ExpensesCount != first.ExpensesCount ||
		!second.BalanceSnapshot.Equal(first.BalanceSnapshot) {
		t.Error("expected recompute with identical inputs to yield an identical aggregate")
	}

	stored, err := store.Get(ctx, owner, 2025, time.April)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.TotalExpenses.Equal(dec("100")) || stored.ExpensesCount != 2 {
		t.Errorf("expected stored {100, 2}, got {%s, %d}", stored.TotalExpenses, stored.ExpensesCount)
	}

	// Shrinking the input shrinks the row; nothing accumulates.
	third, err := store.Recompute(ctx, owner, 2025, time.April, expenses[:1], dec("975"))
	if err != nil {
		t.Fatalf("third recompute: %v", err)
	}
	if !third.TotalExpenses.Equal(dec("25")) || third.ExpensesCount != 1 {
		t.Errorf("expected {25, 1} after shrink, got {%s, %d}", third.TotalExpenses, third.ExpensesCount)
	}
	if !third.BalanceSnapshot.Equal(dec("975")) {
		t.Errorf("expected snapshot 975, got %s", third.BalanceSnapshot)
	}
}

func TestMonthlyAggregateStore_GetAbsentMonth(t *testing.T) {
	store := NewMonthlyAggregateStore(newTestDB(t))

	_, err := store.Get(context.Background(), uuid.New(), 2025, time.April)
	if !errors.Is(err, domainerror.ErrAggregateNotFound) {
		t.Fatalf("expected ErrAggregateNotFound, got %v", err)
	}
}

func TestMonthlyAggregateStore_ListHistoryOrder(t *testing.T) {
	store := NewMonthlyAggregateStore(newTestDB(t))
	owner := uuid.New()
	ctx := context.Background()

	months := []struct {
		year  int
		month time.Month
	}{
		{2024, time.November},
		{2025, time.March},
		{2025, time.January},
	}
	for _, m := range months {
		if _, err := store.Recompute(ctx, owner, m.year, m.month, nil, dec("100")); err != nil {
			t.Fatalf("recompute %d-%s: %v", m.year, m.month, err)
		}
	}

	history, err := store.ListHistory(ctx, owner)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 aggregates, got %d", len(history))
	}

	expected := []struct {
		year  int
		month time.Month
	}{
		{2025, time.March},
		{2025, time.January},
		{2024, time.November},
	}
	for i, want := range expected {
		if history[i].Year != want.year || history[i].Month != want.month {
			t.Errorf("position %d: expected %d-%s, got %d-%s",
				i, want.year, want.month, history[i].Year, history[i].Month)
		}
	}
}
