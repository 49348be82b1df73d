// Package apperror provides structured error handling for the platform.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by taxonomy
const (
	// Infrastructure errors (5xx)
	CodeInternal  = "INTERNAL_ERROR"
	CodeIntegrity = "INTEGRITY_ERROR"
	CodeTransient = "TRANSIENT_FAILURE"

	// Validation errors (400)
	CodeValidation        = "VALIDATION_ERROR"
	CodeMalformedInterval = "MALFORMED_INTERVAL"

	// Business rule violations (422)
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"

	// Concurrency (retried internally, surfaced only when retries exhaust)
	CodeConcurrency = "CONCURRENCY_ERROR"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict          = "CONFLICT_ERROR"
	CodeRatePeriodOverlap = "RATE_PERIOD_OVERLAP"
	CodeDuplicateVoucher  = "DUPLICATE_VOUCHER"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, colliding labels, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMalformedInterval is returned when an interval's start is after its end.
func NewMalformedInterval(validFrom, validTo string) *AppError {
	return &AppError{
		Code:       CodeMalformedInterval,
		Message:    "validFrom must not be after validTo",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"validFrom": validFrom, "validTo": validTo},
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewRatePeriodOverlap is returned when a candidate rate period overlaps an
// existing one in the same scope. The colliding period's label is included so
// callers can surface a useful message.
func NewRatePeriodOverlap(scope, existingLabel string) *AppError {
	return &AppError{
		Code:       CodeRatePeriodOverlap,
		Message:    fmt.Sprintf("rate period overlaps existing period %q", existingLabel),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"scope": scope, "existingLabel": existingLabel},
	}
}

// NewDuplicateVoucher is returned when a voucher of the same type already
// exists for the service item. Checked before sequence allocation so a
// rejected request never burns a number.
func NewDuplicateVoucher(bookingID, voucherType, serviceItemID string) *AppError {
	return &AppError{
		Code:       CodeDuplicateVoucher,
		Message:    "voucher already issued for this service item",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"bookingId":     bookingID,
			"type":          voucherType,
			"serviceItemId": serviceItemID,
		},
	}
}

// NewInvalidStatusTransition is returned when a booking status change is not
// in the transition allow-list.
func NewInvalidStatusTransition(from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidStatusTransition,
		Message:    fmt.Sprintf("booking cannot move from %s to %s", from, to),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"from": from, "to": to},
	}
}

// NewConcurrency creates an error for a lost race (row lock, serialization
// failure, optimistic lock). Services retry these internally; callers only
// see them once retries are exhausted.
func NewConcurrency(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrency,
		Message:    "Record was modified by another operation. Please retry.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewTransient is reported when internal retries for a concurrency error are
// exhausted (503 equivalent).
func NewTransient(err error) *AppError {
	return &AppError{
		Code:       CodeTransient,
		Message:    "Temporary failure, please retry the request",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewIntegrity creates an integrity violation error. Callers log it with
// full context; clients get a generic message.
func NewIntegrity(message string, err error) *AppError {
	return &AppError{
		Code:       CodeIntegrity,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsConcurrency checks if error is CodeConcurrency
func IsConcurrency(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeConcurrency
	}
	return false
}

// IsConflict reports whether err carries any conflict-class code.
func IsConflict(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Code {
		case CodeConflict, CodeRatePeriodOverlap, CodeDuplicateVoucher:
			return true
		}
	}
	return false
}
