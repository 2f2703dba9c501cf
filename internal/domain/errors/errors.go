// Package errors defines the application error taxonomy: validation failures,
// business-rule violations, authorization failures, missing entities, and
// concurrency conflicts, each carrying its HTTP rendering.
package errors

import (
	"net/http"

	"storefront/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Cart and checkout errors
	ErrOutOfStock = NewBaseError(
		http.StatusBadRequest,
		"OUT_OF_STOCK",
		"Requested quantity exceeds available stock",
		"",
	)

	ErrItemNotInCart = NewBaseError(
		http.StatusBadRequest,
		"ITEM_NOT_IN_CART",
		"Item is not in the cart",
		"",
	)

	ErrShippingAddressRequired = NewBaseError(
		http.StatusBadRequest,
		"SHIPPING_ADDRESS_REQUIRED",
		"No shipping address could be resolved for this order",
		"",
	)

	ErrAddressNotOwned = NewBaseError(
		http.StatusBadRequest,
		"ADDRESS_NOT_OWNED",
		"The selected address does not belong to the caller",
		"",
	)

	// Order lifecycle errors
	ErrInvalidTransition = NewBaseError(
		http.StatusBadRequest,
		"INVALID_TRANSITION",
		"The requested status change is not allowed from the current state",
		"",
	)

	// Refund errors
	ErrOrderNotDelivered = NewBaseError(
		http.StatusBadRequest,
		"ORDER_NOT_DELIVERED",
		"Refunds can only be requested for delivered orders",
		"",
	)

	ErrRefundWindowExpired = NewBaseError(
		http.StatusBadRequest,
		"REFUND_WINDOW_EXPIRED",
		"The refund eligibility window for this order has expired",
		"",
	)

	ErrDuplicateRefund = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_REFUND",
		"An active refund request already exists for this order item",
		"",
	)

	// Address book errors
	ErrAddressNotFound = NewBaseError(
		http.StatusNotFound,
		"ADDRESS_NOT_FOUND",
		"Address not found",
		"",
	)

	// Identity errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"This email address is already registered",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	// Concurrency conflicts: the caller should retry
	ErrStockConflict = NewBaseError(
		http.StatusConflict,
		"STOCK_CONFLICT",
		"Stock level changed while the order was being placed",
		"",
	)

	ErrRefundConflict = NewBaseError(
		http.StatusConflict,
		"REFUND_CONFLICT",
		"The refund request was resolved by another operation",
		"",
	)

	ErrOrderConflict = NewBaseError(
		http.StatusConflict,
		"ORDER_CONFLICT",
		"The order status changed while the operation was in flight",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"Database transaction failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
