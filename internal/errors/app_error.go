package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeDuplicateEntry    = "DUPLICATE_ENTRY"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeThirdPartyError   = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
)

var statusByCode = map[string]int{
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeEmptyCart:         http.StatusBadRequest,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeDuplicateEntry:    http.StatusConflict,
	ErrCodeConflict:          http.StatusConflict,
	ErrCodeInsufficientStock: http.StatusConflict,
	ErrCodeTooManyRequests:   http.StatusTooManyRequests,
}

// StatusFor maps an error code to its HTTP status. Unknown codes are server faults.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// AppError is what services hand back to handlers: a stable code for clients,
// a safe message, optional detail, and the underlying cause for logs.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func newAppError(code, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: StatusFor(code)}
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func (e *AppError) WithDetailf(format string, args ...any) *AppError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func ValidationError(message string) *AppError {
	return newAppError(ErrCodeValidation, message)
}

// InvalidFieldError reports a rule the validator tags cannot express, such as
// decimal precision on a price.
func InvalidFieldError(field, reason string) *AppError {
	return ValidationError("Invalid field '" + field + "'").WithDetail(reason)
}

func BadRequestError(message string) *AppError {
	return newAppError(ErrCodeBadRequest, message)
}

func NotFoundError(message string) *AppError {
	return newAppError(ErrCodeNotFound, message)
}

func UnauthorizedError(message string) *AppError {
	return newAppError(ErrCodeUnauthorized, message)
}

func ForbiddenError(message string) *AppError {
	return newAppError(ErrCodeForbidden, message)
}

func InternalError(message string) *AppError {
	return newAppError(ErrCodeInternal, message)
}

func DatabaseError(message string) *AppError {
	return newAppError(ErrCodeDatabaseError, message)
}

func DuplicateEntryError(message string) *AppError {
	return newAppError(ErrCodeDuplicateEntry, message)
}

func ConflictError(message string) *AppError {
	return newAppError(ErrCodeConflict, message)
}

func ThirdPartyError(message string) *AppError {
	return newAppError(ErrCodeThirdPartyError, message)
}

func TooManyRequestsError(message string) *AppError {
	return newAppError(ErrCodeTooManyRequests, message)
}

func EmptyCartError() *AppError {
	return newAppError(ErrCodeEmptyCart, "Your cart is empty")
}

// InsufficientStockError names the product whose stock cannot cover the request.
func InsufficientStockError(productName string) *AppError {
	return newAppError(ErrCodeInsufficientStock, "Insufficient stock").
		WithDetailf("Not enough stock for %s", productName)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}
