package models

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

type ErrorCode string

const (
	CodeValidation      ErrorCode = "validation_error"
	CodeUnauthenticated ErrorCode = "unauthenticated"
	CodeForbidden       ErrorCode = "forbidden"
	CodeNotFound        ErrorCode = "not_found"
	CodeConflict        ErrorCode = "conflict"
	CodeRateLimited     ErrorCode = "rate_limited"
	CodeInternal        ErrorCode = "internal_error"
	CodeUnavailable     ErrorCode = "service_unavailable"
)

// ErrRecordNotFound is returned by repositories when a lookup matches no row.
var ErrRecordNotFound = errors.New("record not found")

// AppError is a failure that is safe to show to API clients.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"error"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message, StatusCode: http.StatusUnauthorized}
}

// NewForbiddenError covers an authenticated user acting on something they do not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, StatusCode: http.StatusForbidden}
}

func NewNotFoundError(what string) *AppError {
	return &AppError{Code: CodeNotFound, Message: what + " not found", StatusCode: http.StatusNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, StatusCode: http.StatusConflict}
}

func NewRateLimitedError() *AppError {
	return &AppError{Code: CodeRateLimited, Message: "too many requests, please try again later", StatusCode: http.StatusTooManyRequests}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", StatusCode: http.StatusInternalServerError, Err: err}
}

// AsAppError unwraps err into an *AppError when one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsUniqueViolation reports a Postgres unique_violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	return err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func NewUnavailableError(message string) *AppError {
	return &AppError{Code: CodeUnavailable, Message: message, StatusCode: http.StatusServiceUnavailable}
}
