package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrDuplicatePatternID  = errors.New("pattern id already registered")
	ErrUnknownPatternID    = errors.New("unknown pattern id")
	ErrDescriptionNotFound = errors.New("emoji description not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal error")
	ErrTimeout             = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrDocumentNotFound), errors.Is(err, ErrUnknownPatternID):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicatePatternID):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrDescriptionNotFound):
		// A description miss means the matcher's pattern set and the catalog
		// disagree, which is an internal-consistency failure, not bad input.
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
