// Package error defines domain-specific errors for the Expense Ledger application.
package error

import "errors"

// Ledger domain errors.
var (
	// ErrInvalidExpenseAmount is returned when the expense amount is zero or negative.
	ErrInvalidExpenseAmount = errors.New("expense amount must be positive")

	// ErrMissingExpenseCategory is returned when the expense category is empty.
	ErrMissingExpenseCategory = errors.New("expense category is required")

	// ErrMissingExpenseDate is returned when the expense date is not set.
	ErrMissingExpenseDate = errors.New("expense date is required")

	// ErrDescriptionTooLong is returned when the expense description exceeds the maximum length.
	ErrDescriptionTooLong = errors.New("description too long")

	// ErrCategoryTooLong is returned when the expense category exceeds the maximum length.
	ErrCategoryTooLong = errors.New("category too long")

	// ErrEmptyExpensePatch is returned when an update carries no fields to change.
	ErrEmptyExpensePatch = errors.New("expense patch is empty")

	// ErrInvalidDateRange is returned when a report range ends before it starts.
	ErrInvalidDateRange = errors.New("end date must not be before start date")

	// ErrExpenseNotFound is returned when an expense id is unknown or owned by
	// a different owner. The two cases are deliberately indistinguishable.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrAggregateNotFound is returned when a monthly aggregate has never been
	// computed for the requested month.
	ErrAggregateNotFound = errors.New("monthly aggregate not found")

	// ErrBalanceVersionConflict is returned by the balance store when a
	// compare-and-swap loses the version race. Retry policy lives in the caller.
	ErrBalanceVersionConflict = errors.New("balance version conflict")

	// ErrBalanceRetriesExhausted is returned when the coordinator gives up on
	// the balance CAS loop. The expense write has already been compensated.
	ErrBalanceRetriesExhausted = errors.New("balance update retries exhausted")

	// ErrExpenseWriteConflict is returned by the expense store when a guarded
	// write keeps losing to concurrent writers on the same record.
	ErrExpenseWriteConflict = errors.New("expense modified concurrently")

	// ErrStoreUnavailable is returned when the underlying store fails for
	// reasons other than a version conflict or a missing record.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LED-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidExpenseAmount   LedgerErrorCode = "LED-010001"
	ErrCodeMissingExpenseCategory LedgerErrorCode = "LED-010002"
	ErrCodeMissingExpenseDate     LedgerErrorCode = "LED-010003"
	ErrCodeDescriptionTooLong     LedgerErrorCode = "LED-010004"
	ErrCodeCategoryTooLong        LedgerErrorCode = "LED-010005"
	ErrCodeEmptyExpensePatch      LedgerErrorCode = "LED-010006"
	ErrCodeInvalidDateRange       LedgerErrorCode = "LED-010007"
	ErrCodeInvalidOwnerID         LedgerErrorCode = "LED-010008"

	// Not-found errors (02XXXX)
	ErrCodeExpenseNotFound LedgerErrorCode = "LED-020001"

	// Concurrency errors (03XXXX)
	ErrCodeBalanceVersionConflict  LedgerErrorCode = "LED-030001"
	ErrCodeBalanceRetriesExhausted LedgerErrorCode = "LED-030002"
	ErrCodeCompensationFailed      LedgerErrorCode = "LED-030003"
	ErrCodeExpenseWriteConflict    LedgerErrorCode = "LED-030004"

	// Store errors (04XXXX)
	ErrCodeStoreUnavailable LedgerErrorCode = "LED-040001"

	// Rate limiting (05XXXX)
	ErrCodeRateLimited LedgerErrorCode = "LED-050001"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may safely resubmit the same request.
// Conflict exhaustion is retryable because the compensated state is identical
// to the state before the call.
func (e *LedgerError) Retryable() bool {
	return e.Code == ErrCodeBalanceRetriesExhausted ||
		e.Code == ErrCodeBalanceVersionConflict ||
		e.Code == ErrCodeExpenseWriteConflict
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
