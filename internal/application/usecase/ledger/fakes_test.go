package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
)

// fakeBalanceStore is an in-memory BalanceStore with real version checking,
// so concurrent tests exercise genuine CAS races. forceConflicts makes the
// next N CAS calls fail regardless of version, to test the retry loop
// deterministically. casHook, when set, runs at the start of every CAS call,
// outside the lock.
type fakeBalanceStore struct {
	mu             sync.Mutex
	records        map[uuid.UUID]*entity.Balance
	forceConflicts int
	readErr        error
	casErr         error
	casCalls       int
	casHook        func()
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{records: make(map[uuid.UUID]*entity.Balance)}
}

func (s *fakeBalanceStore) seed(ownerID uuid.UUID, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := entity.NewBalance(ownerID)
	b.CurrentBalance = balance
	s.records[ownerID] = b
}

func (s *fakeBalanceStore) Read(_ context.Context, ownerID uuid.UUID) (*entity.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	b, ok := s.records[ownerID]
	if !ok {
		b = entity.NewBalance(ownerID)
		s.records[ownerID] = b
	}
	copied := *b
	return &copied, nil
}

func (s *fakeBalanceStore) CompareAndSwap(
	_ context.Context,
	ownerID uuid.UUID,
	expectedVersion uint64,
	newBalance decimal.Decimal,
) (*entity.Balance, error) {
	if s.casHook != nil {
		s.casHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.casCalls++
	if s.casErr != nil {
		return nil, s.casErr
	}
	if s.forceConflicts > 0 {
		s.forceConflicts--
		return nil, domainerror.ErrBalanceVersionConflict
	}
	b, ok := s.records[ownerID]
	if !ok || b.Version != expectedVersion {
		return nil, domainerror.ErrBalanceVersionConflict
	}
	b.CurrentBalance = newBalance
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	copied := *b
	return &copied, nil
}

func (s *fakeBalanceStore) CompareAndSwapMinimum(
	_ context.Context,
	ownerID uuid.UUID,
	expectedVersion uint64,
	newMinimum decimal.Decimal,
) (*entity.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.forceConflicts > 0 {
		s.forceConflicts--
		return nil, domainerror.ErrBalanceVersionConflict
	}
	b, ok := s.records[ownerID]
	if !ok || b.Version != expectedVersion {
		return nil, domainerror.ErrBalanceVersionConflict
	}
	b.MinMonthlyBalance = newMinimum
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	copied := *b
	return &copied, nil
}

func (s *fakeBalanceStore) current(ownerID uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.records[ownerID]; ok {
		return b.CurrentBalance
	}
	return decimal.Zero
}

// fakeExpenseStore is an in-memory ExpenseStore. Writes honor context
// cancellation the way a real store would, and Update captures the pre-image
// under the same lock as the write, matching the store contract.
type fakeExpenseStore struct {
	mu        sync.Mutex
	records   map[uuid.UUID]*entity.Expense
	insertErr error
	updateErr error
	deleteErr error
	listErr   error
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{records: make(map[uuid.UUID]*entity.Expense)}
}

func (s *fakeExpenseStore) Insert(ctx context.Context, expense *entity.Expense) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	copied := *expense
	s.records[expense.ID] = &copied
	return nil
}

func (s *fakeExpenseStore) FindByID(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (*entity.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domainerror.ErrExpenseNotFound
	}
	copied := *e
	return &copied, nil
}

func (s *fakeExpenseStore) Update(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, patch adapter.ExpensePatch) (*entity.Expense, *entity.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return nil, nil, s.updateErr
	}
	e, ok := s.records[id]
	if !ok || e.OwnerID != ownerID {
		return nil, nil, domainerror.ErrExpenseNotFound
	}
	old := *e
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	updated := *e
	return &old, &updated, nil
}

func (s *fakeExpenseStore) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*entity.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	e, ok := s.records[id]
	if !ok || e.OwnerID != ownerID {
		return nil, domainerror.ErrExpenseNotFound
	}
	delete(s.records, id)
	copied := *e
	return &copied, nil
}

func (s *fakeExpenseStore) ListByMonth(_ context.Context, ownerID uuid.UUID, year int, month time.Month) ([]*entity.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*entity.Expense
	for _, e := range s.records {
		if e.OwnerID == ownerID && e.Date.Year() == year && e.Date.Month() == month {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeExpenseStore) ListByOwner(_ context.Context, ownerID uuid.UUID, filter adapter.ExpenseFilter) ([]*entity.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*entity.Expense
	for _, e := range s.records {
		if e.OwnerID != ownerID {
			continue
		}
		if filter.StartDate != nil && e.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.Date.After(*filter.EndDate) {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeExpenseStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type aggregateKey struct {
	ownerID uuid.UUID
	year    int
	month   time.Month
}

// fakeAggregateStore is an in-memory MonthlyAggregateStore that counts
// recomputes per month.
type fakeAggregateStore struct {
	mu         sync.Mutex
	records    map[aggregateKey]*entity.MonthlyAggregate
	recomputes map[aggregateKey]int
}

func newFakeAggregateStore() *fakeAggregateStore {
	return &fakeAggregateStore{
		records:    make(map[aggregateKey]*entity.MonthlyAggregate),
		recomputes: make(map[aggregateKey]int),
	}
}

func (s *fakeAggregateStore) Recompute(
	_ context.Context,
	ownerID uuid.UUID,
	year int,
	month time.Month,
	expenses []*entity.Expense,
	currentBalance decimal.Decimal,
) (*entity.MonthlyAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := aggregateKey{ownerID: ownerID, year: year, month: month}
	agg := entity.ComputeMonthlyAggregate(ownerID, year, month, expenses, currentBalance)
	s.records[key] = agg
	s.recomputes[key]++
	copied := *agg
	return &copied, nil
}

func (s *fakeAggregateStore) Get(_ context.Context, ownerID uuid.UUID, year int, month time.Month) (*entity.MonthlyAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	agg, ok := s.records[aggregateKey{ownerID: ownerID, year: year, month: month}]
	if !ok {
		return nil, domainerror.ErrAggregateNotFound
	}
	copied := *agg
	return &copied, nil
}

func (s *fakeAggregateStore) ListHistory(_ context.Context, ownerID uuid.UUID) ([]*entity.MonthlyAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.MonthlyAggregate
	for key, agg := range s.records {
		if key.ownerID == ownerID {
			copied := *agg
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeReportCache records invalidations; reads always miss.
type fakeReportCache struct {
	mu            sync.Mutex
	invalidations int
}

func (c *fakeReportCache) GetJSON(_ context.Context, _ uuid.UUID, _ string, _ any) error {
	return adapter.ErrCacheMiss
}

func (c *fakeReportCache) SetJSON(_ context.Context, _ uuid.UUID, _ string, _ any) error {
	return nil
}

func (c *fakeReportCache) InvalidateOwner(_ context.Context, _ uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	return nil
}

func (c *fakeReportCache) invalidated() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// testStores bundles a fresh set of fakes.
type testStores struct {
	balances   *fakeBalanceStore
	expenses   *fakeExpenseStore
	aggregates *fakeAggregateStore
	cache      *fakeReportCache
}

func newTestStores() *testStores {
	return &testStores{
		balances:   newFakeBalanceStore(),
		expenses:   newFakeExpenseStore(),
		aggregates: newFakeAggregateStore(),
		cache:      &fakeReportCache{},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func patchAmount(d decimal.Decimal) adapter.ExpensePatch {
	return adapter.ExpensePatch{Amount: &d}
}

func listAllFilter() adapter.ExpenseFilter {
	return adapter.ExpenseFilter{}
}
