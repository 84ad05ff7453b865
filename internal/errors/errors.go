package errors

import (
	stderrors "errors"
	"net/http"

	goerrors "github.com/go-errors/errors"
	"gorm.io/gorm"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden               = "FORBIDDEN"
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Business logic errors
	ErrCodeLastOwner = "LAST_OWNER"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AppError is an operational error carrying the HTTP status it should be reported with.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
	Err     error

	stack []byte
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Stack returns the call stack captured when the error was created.
func (e *AppError) Stack() string {
	return string(e.stack)
}

// New creates an AppError and records where it was raised.
func New(status int, code, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		stack:   goerrors.Wrap(message, 1).Stack(),
	}
}

// Wrap attaches a cause to a new AppError.
func Wrap(err error, status int, code, message string) *AppError {
	appErr := New(status, code, message)
	if err != nil {
		appErr.Err = err
		appErr.stack = goerrors.Wrap(err, 1).Stack()
	}
	return appErr
}

// WithDetails returns a copy of the error with details attached.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func BadRequest(message string) *AppError {
	if message == "" {
		message = "Invalid request"
	}
	return New(http.StatusBadRequest, ErrCodeInvalidInput, message)
}

func Unauthorized(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return New(http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	if message == "" {
		message = "Access denied"
	}
	return New(http.StatusForbidden, ErrCodeForbidden, message)
}

func NotFound(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return New(http.StatusNotFound, ErrCodeNotFound, message)
}

func Conflict(message string) *AppError {
	if message == "" {
		message = "Resource conflict"
	}
	return New(http.StatusConflict, ErrCodeConflict, message)
}

func ServiceUnavailable(message string) *AppError {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return New(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

func Internal(err error) *AppError {
	return Wrap(err, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error")
}

// From converts any error into an AppError. Unknown errors become 500s,
// a missing row a 404 and a unique key violation a 409.
func From(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(err, http.StatusNotFound, ErrCodeNotFound, "Resource not found")
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		conflict := Conflict("")
		conflict.Err = err
		return conflict
	}
	return Internal(err)
}
