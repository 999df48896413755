package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/adapter"
	"github.com/expense-ledger/backend/internal/application/usecase/ledger"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/middleware"
)

// ExpenseController handles expense endpoints.
type ExpenseController struct {
	addUseCase    *ledger.AddExpenseUseCase
	updateUseCase *ledger.UpdateExpenseUseCase
	deleteUseCase *ledger.DeleteExpenseUseCase
	listUseCase   *ledger.ListExpensesUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	addUseCase *ledger.AddExpenseUseCase,
	updateUseCase *ledger.UpdateExpenseUseCase,
	deleteUseCase *ledger.DeleteExpenseUseCase,
	listUseCase *ledger.ListExpensesUseCase,
) *ExpenseController {
	return &ExpenseController{
		addUseCase:    addUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		listUseCase:   listUseCase,
	}
}

// Add handles POST /expenses requests.
func (c *ExpenseController) Add(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	// Parse request body
	var req dto.AddExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid amount format",
			Code:  string(domainerror.ErrCodeInvalidExpenseAmount),
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid date format. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeMissingExpenseDate),
		})
		return
	}

	input := ledger.AddExpenseInput{
		OwnerID:     ownerID,
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}

	output, err := c.addUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	expense := dto.ToExpenseResponse(output.Expense)
	ctx.JSON(http.StatusCreated, dto.MutationResponse{
		Expense: &expense,
		Balance: dto.ToBalanceResponse(output.Balance),
	})
}

// Update handles PATCH /expenses/:id requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	expenseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid expense ID format",
		})
		return
	}

	var req dto.UpdateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	var patch adapter.ExpensePatch

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid amount format",
				Code:  string(domainerror.ErrCodeInvalidExpenseAmount),
			})
			return
		}
		patch.Amount = &amount
	}

	if req.Category != nil {
		patch.Category = req.Category
	}

	if req.Description != nil {
		patch.Description = req.Description
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date format. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeMissingExpenseDate),
			})
			return
		}
		patch.Date = &date
	}

	input := ledger.UpdateExpenseInput{
		OwnerID:   ownerID,
		ExpenseID: expenseID,
		Patch:     patch,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	expense := dto.ToExpenseResponse(output.Expense)
	ctx.JSON(http.StatusOK, dto.MutationResponse{
		Expense: &expense,
		Balance: dto.ToBalanceResponse(output.Balance),
	})
}

// Delete handles DELETE /expenses/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	expenseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid expense ID format",
		})
		return
	}

	input := ledger.DeleteExpenseInput{
		OwnerID:   ownerID,
		ExpenseID: expenseID,
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	// The refunded balance is returned so clients can reconcile immediately.
	ctx.JSON(http.StatusOK, dto.MutationResponse{
		Balance: dto.ToBalanceResponse(output.Balance),
	})
}

// List handles GET /expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	input := ledger.ListExpensesInput{
		OwnerID:  ownerID,
		Category: ctx.Query("category"),
	}

	if startDateStr := ctx.Query("startDate"); startDateStr != "" {
		startDate, err := time.Parse("2006-01-02", startDateStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid startDate format. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidDateRange),
			})
			return
		}
		input.StartDate = &startDate
	}
	if endDateStr := ctx.Query("endDate"); endDateStr != "" {
		endDate, err := time.Parse("2006-01-02", endDateStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid endDate format. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidDateRange),
			})
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseListResponse(output))
}

// respondMissingOwner rejects requests that slipped past the owner middleware.
func respondMissingOwner(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: "Missing owner id",
		Code:  string(domainerror.ErrCodeInvalidOwnerID),
	})
}
