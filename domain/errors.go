package domain

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
	KindBadRequest ErrorKind = "bad_request"
	KindConflict   ErrorKind = "conflict"
)

// AppError is a business rule violation that maps onto an HTTP status.
type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewNotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewBadRequestError(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err wraps an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
