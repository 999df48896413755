// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/expense-ledger/backend/internal/domain/error"
	"github.com/expense-ledger/backend/internal/integration/entrypoint/dto"
)

// handleLedgerError maps use case errors to HTTP responses.
func handleLedgerError(ctx *gin.Context, err error) {
	var ledgerErr *domainerror.LedgerError
	if errors.As(err, &ledgerErr) {
		ctx.JSON(statusCodeForLedgerError(ledgerErr.Code), dto.ErrorResponse{
			Error:     ledgerErr.Message,
			Code:      string(ledgerErr.Code),
			Retryable: ledgerErr.Retryable(),
		})
		return
	}

	// Generic server error
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForLedgerError maps ledger error codes to HTTP status codes.
func statusCodeForLedgerError(code domainerror.LedgerErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidExpenseAmount,
		domainerror.ErrCodeMissingExpenseCategory,
		domainerror.ErrCodeMissingExpenseDate,
		domainerror.ErrCodeDescriptionTooLong,
		domainerror.ErrCodeCategoryTooLong,
		domainerror.ErrCodeEmptyExpensePatch,
		domainerror.ErrCodeInvalidDateRange,
		domainerror.ErrCodeInvalidOwnerID:
		return http.StatusBadRequest
	case domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeBalanceVersionConflict,
		domainerror.ErrCodeBalanceRetriesExhausted,
		domainerror.ErrCodeCompensationFailed,
		domainerror.ErrCodeExpenseWriteConflict:
		return http.StatusConflict
	case domainerror.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
