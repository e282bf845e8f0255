// Package errors provides custom error types for the Ledgerbook API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Business errors.
var (
	ErrBusinessNotFound = &AppError{Code: "BUSINESS_NOT_FOUND", Message: "Business not found", StatusCode: http.StatusNotFound}
)

// Chart-of-accounts errors.
var (
	ErrAccountNotFound      = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrAccountTypeNotFound  = &AppError{Code: "ACCOUNT_TYPE_NOT_FOUND", Message: "Account type not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAccountCode = &AppError{Code: "DUPLICATE_ACCOUNT_CODE", Message: "An account with this code already exists for the business", StatusCode: http.StatusConflict}
	ErrInvalidParentAccount = &AppError{Code: "INVALID_PARENT_ACCOUNT", Message: "Parent account is invalid", StatusCode: http.StatusBadRequest}
	ErrAccountHasChildren   = &AppError{Code: "ACCOUNT_HAS_CHILDREN", Message: "Account has child accounts", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrTransactionNotFound  = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrUnbalancedEntry      = &AppError{Code: "UNBALANCED_ENTRY", Message: "Transaction debits and credits do not balance", StatusCode: http.StatusBadRequest}
	ErrInvalidLineAccount   = &AppError{Code: "INVALID_LINE_ACCOUNT", Message: "A transaction line references an unknown account", StatusCode: http.StatusBadRequest}
	ErrDuplicateLineAccount = &AppError{Code: "DUPLICATE_LINE_ACCOUNT", Message: "Two transaction lines reference the same account", StatusCode: http.StatusBadRequest}
)

// Concurrency errors.
var (
	ErrVersionConflict = &AppError{Code: "VERSION_CONFLICT", Message: "The record was modified by another writer; re-read and retry", StatusCode: http.StatusConflict}
)

// Statement import errors.
var (
	ErrUnrecognizedFormat = &AppError{Code: "UNRECOGNIZED_FORMAT", Message: "Statement format not recognized", StatusCode: http.StatusBadRequest}
	ErrCodeSpaceExhausted = &AppError{Code: "CODE_SPACE_EXHAUSTED", Message: "Could not find a free account code after bounded retries", StatusCode: http.StatusConflict}
)

// Subsidiary & mapping errors.
var (
	ErrSubsidiaryNotFound = &AppError{Code: "SUBSIDIARY_NOT_FOUND", Message: "Subsidiary account not found", StatusCode: http.StatusNotFound}
	ErrMappingNotFound    = &AppError{Code: "MAPPING_NOT_FOUND", Message: "Transaction type mapping not found", StatusCode: http.StatusNotFound}
	ErrDuplicateMapping   = &AppError{Code: "DUPLICATE_MAPPING", Message: "A mapping for this CSV type already exists", StatusCode: http.StatusConflict}
)
