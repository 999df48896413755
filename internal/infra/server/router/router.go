// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/expense-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	expenseController   *controller.ExpenseController
	balanceController   *controller.BalanceController
	reportingController *controller.ReportingController
	ownerMiddleware     *middleware.OwnerMiddleware
	mutationRateLimiter *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	expenseController *controller.ExpenseController,
	balanceController *controller.BalanceController,
	reportingController *controller.ReportingController,
	ownerMiddleware *middleware.OwnerMiddleware,
	mutationRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController:    healthController,
		expenseController:   expenseController,
		balanceController:   balanceController,
		reportingController: reportingController,
		ownerMiddleware:     ownerMiddleware,
		mutationRateLimiter: mutationRateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes. Every route below /api/v1
// requires a valid owner id header; mutations additionally pass through the
// rate limiter.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.ownerMiddleware.Handle())
	{
		expenses := v1.Group("/expenses")
		{
			expenses.GET("", r.expenseController.List)
			expenses.POST("", r.mutationRateLimiter.Middleware(), r.expenseController.Add)
			expenses.PATCH("/:id", r.mutationRateLimiter.Middleware(), r.expenseController.Update)
			expenses.DELETE("/:id", r.mutationRateLimiter.Middleware(), r.expenseController.Delete)
		}

		balance := v1.Group("/balance")
		{
			balance.GET("", r.balanceController.Get)
			balance.PUT("/minimum", r.mutationRateLimiter.Middleware(), r.balanceController.UpdateMinimum)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/category-breakdown", r.reportingController.CategoryBreakdown)
			reports.GET("/savings-history", r.reportingController.SavingsHistory)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
