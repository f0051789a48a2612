// Package errors provides the structured error type used across the API.
// Service-layer code returns *AppError values so handlers can translate
// failures into consistent JSON responses without leaking internals.
package errors

import "net/http"

// AppError carries a machine-readable code, a client-safe message, the HTTP
// status to respond with, and an optional internal error kept out of responses.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the internal error to errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying internal as its cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a more specific message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. Login failures respond with 400 per the API
// contract; missing or bad bearer tokens respond with 401.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name and kind already exists", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound  = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrCategoryKindMismatch = &AppError{Code: "CATEGORY_KIND_MISMATCH", Message: "Category kind does not match transaction kind", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound       = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrNoBudgetForMonth     = &AppError{Code: "NO_BUDGET_FOR_MONTH", Message: "No budget set for current month", StatusCode: http.StatusNotFound}
	ErrDuplicateBudgetMonth = &AppError{Code: "DUPLICATE_BUDGET_MONTH", Message: "A budget already exists for this month", StatusCode: http.StatusBadRequest}
)

// Advisor errors.
var (
	ErrQuestionRequired = &AppError{Code: "QUESTION_REQUIRED", Message: "Question is required", StatusCode: http.StatusBadRequest}
	ErrUpstream         = &AppError{Code: "UPSTREAM_ERROR", Message: "Generation backend request failed", StatusCode: http.StatusInternalServerError}
)
