package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error classes for the extraction pipeline and its surrounding surfaces.
// Handlers map these to HTTP statuses; nothing below the server layer
// knows about HTTP.
var (
	ErrNoFileUploaded        = errors.New("no file uploaded")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrInvalidAudioFile      = errors.New("invalid audio file")
	ErrEmptyAudioFile        = errors.New("invalid or empty audio file")
	ErrAudioConversionFailed = errors.New("audio conversion failed")
	ErrProviderUnavailable   = errors.New("ai provider unavailable")
	ErrMalformedToolCall     = errors.New("malformed tool call arguments")
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("resource not found")
	ErrInvalidInput          = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps an error class to the status the transport layer should
// return. Client input errors are 4xx, provider exhaustion is 503, everything
// else is a plain 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoFileUploaded),
		errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrInvalidAudioFile),
		errors.Is(err, ErrEmptyAudioFile),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
