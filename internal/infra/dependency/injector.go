// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/expense-ledger/backend/config"
	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/application/usecase/ledger"
	"github.com/expense-ledger/backend/internal/application/usecase/reporting"
	"github.com/expense-ledger/backend/internal/infra/server/router"
	"github.com/expense-ledger/backend/internal/integration/cache"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/expense-ledger/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case reports skip caching entirely.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create stores
	balanceStore := persistence.NewBalanceStore(db)
	expenseStore := persistence.NewExpenseStore(db)
	aggregateStore := persistence.NewMonthlyAggregateStore(db)

	var reportCache adapter.ReportCache
	if redisClient != nil {
		reportCache = cache.NewRedisReportCache(redisClient, cfg.Cache.ReportTTL)
	} else {
		reportCache = cache.NewNopReportCache()
	}

	// Create ledger use cases
	addExpenseUseCase := ledger.NewAddExpenseUseCase(balanceStore, expenseStore, aggregateStore, reportCache)
	updateExpenseUseCase := ledger.NewUpdateExpenseUseCase(balanceStore, expenseStore, aggregateStore, reportCache)
	deleteExpenseUseCase := ledger.NewDeleteExpenseUseCase(balanceStore, expenseStore, aggregateStore, reportCache)
	listExpensesUseCase := ledger.NewListExpensesUseCase(expenseStore)
	getBalanceUseCase := ledger.NewGetBalanceUseCase(balanceStore)
	updateMinimumUseCase := ledger.NewUpdateMinimumBalanceUseCase(balanceStore)

	// Create reporting use cases
	breakdownUseCase := reporting.NewGetCategoryBreakdownUseCase(expenseStore, reportCache)
	historyUseCase := reporting.NewGetSavingsHistoryUseCase(aggregateStore, reportCache)

	// Create controllers
	healthController := controller.NewHealthController(
		func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		},
		func() bool {
			if redisClient == nil {
				return false
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err() == nil
		},
	)

	expenseController := controller.NewExpenseController(
		addExpenseUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
		listExpensesUseCase,
	)

	balanceController := controller.NewBalanceController(
		getBalanceUseCase,
		updateMinimumUseCase,
	)

	reportingController := controller.NewReportingController(
		breakdownUseCase,
		historyUseCase,
	)

	// Create middleware
	// Use higher rate limits for test environments to prevent flaky tests
	var mutationRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		mutationRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		mutationRateLimiter = middleware.NewRateLimiterWithConfig(cfg.Limiter.MaxAttempts, cfg.Limiter.WindowDuration)
	}
	ownerMiddleware := middleware.NewOwnerMiddleware()

	// Create router
	r := router.NewRouter(
		healthController,
		expenseController,
		balanceController,
		reportingController,
		ownerMiddleware,
		mutationRateLimiter,
	)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
	}
}
