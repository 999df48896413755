package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/expense-ledger/backend/internal/application/usecase/ledger"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/middleware"
)

// BalanceController handles balance endpoints.
type BalanceController struct {
	getUseCase           *ledger.GetBalanceUseCase
	updateMinimumUseCase *ledger.UpdateMinimumBalanceUseCase
}

// NewBalanceController creates a new balance controller instance.
func NewBalanceController(
	getUseCase *ledger.GetBalanceUseCase,
	updateMinimumUseCase *ledger.UpdateMinimumBalanceUseCase,
) *BalanceController {
	return &BalanceController{
		getUseCase:           getUseCase,
		updateMinimumUseCase: updateMinimumUseCase,
	}
}

// Get handles GET /balance requests.
func (c *BalanceController) Get(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), ledger.GetBalanceInput{
		OwnerID: ownerID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceResponse(output.Balance))
}

// UpdateMinimum handles PUT /balance/minimum requests.
func (c *BalanceController) UpdateMinimum(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	var req dto.UpdateMinimumBalanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	minimum, err := decimal.NewFromString(req.MinMonthlyBalance)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid minimum balance format",
			Code:  string(domainerror.ErrCodeInvalidExpenseAmount),
		})
		return
	}

	output, err := c.updateMinimumUseCase.Execute(ctx.Request.Context(), ledger.UpdateMinimumBalanceInput{
		OwnerID:    ownerID,
		NewMinimum: minimum,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBalanceResponse(output.Balance))
}
