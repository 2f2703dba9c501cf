package response

import (
	"net/http"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Response unified API response structure
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly message
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g., "USER_NOT_FOUND"
	Details string `json:"details"` // Detailed error description
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// BadRequest 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

// BindingError binding error response
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, "")
}

// Forbidden 403 error
func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, message, "")
}

// NotFound 404 error
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, "")
}

// Conflict 409 error
func Conflict(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusConflict, errorCode, message, "")
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, "")
}

// notFoundSentinels are repository errors that surface as plain 404s when a
// use case lets them bubble up unwrapped by the error taxonomy.
var notFoundSentinels = map[error]string{
	repository.ErrUserNotFound:      "USER_NOT_FOUND",
	repository.ErrAddressNotFound:   "ADDRESS_NOT_FOUND",
	repository.ErrProductNotFound:   "PRODUCT_NOT_FOUND",
	repository.ErrCartNotFound:      "CART_NOT_FOUND",
	repository.ErrCartItemNotFound:  "CART_ITEM_NOT_FOUND",
	repository.ErrOrderNotFound:     "ORDER_NOT_FOUND",
	repository.ErrOrderItemNotFound: "ORDER_ITEM_NOT_FOUND",
	repository.ErrRefundNotFound:    "REFUND_NOT_FOUND",
}

// HandleAppError renders a use-case error as the unified error response.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	for sentinel, code := range notFoundSentinels {
		if errors.Is(err, sentinel) {
			return NotFound(c, code, sentinel.Error())
		}
	}

	return InternalServerError(c, "INTERNAL_ERROR", "Internal server error")
}
