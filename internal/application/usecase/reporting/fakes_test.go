package reporting

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/domain/entity"
)

// fakeExpenseStore serves a fixed expense list and counts reads.
type fakeExpenseStore struct {
	expenses []*entity.Expense
	listErr  error
	reads    int
}

func (s *fakeExpenseStore) Insert(context.Context, *entity.Expense) error { panic("read-only fake") }

func (s *fakeExpenseStore) FindByID(context.Context, uuid.UUID, uuid.UUID) (*entity.Expense, error) {
	panic("read-only fake")
}

func (s *fakeExpenseStore) Update(context.Context, uuid.UUID, uuid.UUID, adapter.ExpensePatch) (*entity.Expense, *entity.Expense, error) {
	panic("read-only fake")
}

func (s *fakeExpenseStore) Delete(context.Context, uuid.UUID, uuid.UUID) (*entity.Expense, error) {
	panic("read-only fake")
}

func (s *fakeExpenseStore) ListByMonth(context.Context, uuid.UUID, int, time.Month) ([]*entity.Expense, error) {
	panic("read-only fake")
}

func (s *fakeExpenseStore) ListByOwner(_ context.Context, ownerID uuid.UUID, filter adapter.ExpenseFilter) ([]*entity.Expense, error) {
	s.reads++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*entity.Expense
	for _, e := range s.expenses {
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
		out = append(out, e)
	}
	return out, nil
}

// fakeAggregateStore serves a fixed aggregate list, sorted like the real
// store (year desc, month desc).
type fakeAggregateStore struct {
	aggregates []*entity.MonthlyAggregate
	reads      int
}

func (s *fakeAggregateStore) Recompute(context.Context, uuid.UUID, int, time.Month, []*entity.Expense, decimal.Decimal) (*entity.MonthlyAggregate, error) {
	panic("read-only fake")
}

func (s *fakeAggregateStore) Get(context.Context, uuid.UUID, int, time.Month) (*entity.MonthlyAggregate, error) {
	panic("read-only fake")
}

func (s *fakeAggregateStore) ListHistory(_ context.Context, ownerID uuid.UUID) ([]*entity.MonthlyAggregate, error) {
	s.reads++
	var out []*entity.MonthlyAggregate
	for _, a := range s.aggregates {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

// memoryReportCache is a working in-memory ReportCache.
type memoryReportCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newMemoryReportCache() *memoryReportCache {
	return &memoryReportCache{entries: make(map[string][]byte)}
}

func (c *memoryReportCache) GetJSON(_ context.Context, ownerID uuid.UUID, key string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	data, ok := c.entries[ownerID.String()+":"+key]
	if !ok {
		return adapter.ErrCacheMiss
	}
	return json.Unmarshal(data, v)
}

func (c *memoryReportCache) SetJSON(_ context.Context, ownerID uuid.UUID, key string, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[ownerID.String()+":"+key] = data
	return nil
}

func (c *memoryReportCache) InvalidateOwner(_ context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := ownerID.String() + ":"
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
	return nil
}

func expense(owner uuid.UUID, amount, category string, day time.Time) *entity.Expense {
	return entity.NewExpense(owner, decimal.RequireFromString(amount), category, "", day)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
