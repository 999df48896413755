package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expense-ledger/backend/internal/application/usecase/reporting"
	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/dto"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/middleware"
)

// ReportingController handles reporting endpoints.
type ReportingController struct {
	breakdownUseCase *reporting.GetCategoryBreakdownUseCase
	historyUseCase   *reporting.GetSavingsHistoryUseCase
}

// NewReportingController creates a new reporting controller instance.
func NewReportingController(
	breakdownUseCase *reporting.GetCategoryBreakdownUseCase,
	historyUseCase *reporting.GetSavingsHistoryUseCase,
) *ReportingController {
	return &ReportingController{
		breakdownUseCase: breakdownUseCase,
		historyUseCase:   historyUseCase,
	}
}

// CategoryBreakdown handles GET /reports/category-breakdown requests.
func (c *ReportingController) CategoryBreakdown(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	startDate, err := time.Parse("2006-01-02", ctx.Query("startDate"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid or missing startDate. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateRange),
		})
		return
	}
	endDate, err := time.Parse("2006-01-02", ctx.Query("endDate"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid or missing endDate. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateRange),
		})
		return
	}

	output, err := c.breakdownUseCase.Execute(ctx.Request.Context(), reporting.GetCategoryBreakdownInput{
		OwnerID:   ownerID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryBreakdownResponse(output))
}

// SavingsHistory handles GET /reports/savings-history requests.
func (c *ReportingController) SavingsHistory(ctx *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(ctx)
	if !ok {
		respondMissingOwner(ctx)
		return
	}

	output, err := c.historyUseCase.Execute(ctx.Request.Context(), reporting.GetSavingsHistoryInput{
		OwnerID: ownerID,
	})
	if err != nil {
		handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSavingsHistoryResponse(output))
}
