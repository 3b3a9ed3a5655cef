package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failures a form submission can end in.
type Kind int

const (
	// ValidationError is an empty question at submit time.
	ValidationError Kind = iota + 1
	// ExternalCallError is any failure of an outbound call.
	ExternalCallError
)

func (k Kind) String() string {
	switch k {
	case ValidationError:
		return "validation_error"
	case ExternalCallError:
		return "external_call_error"
	default:
		return "unknown"
	}
}

const (
	// ExternalCallMessage prefixes the cause of a failed chat-completion call.
	ExternalCallMessage = "APIへの接続中に問題が発生しました"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage is used when a key does not exist.
	RedisNotFoundMessage = "redis key not found"
)

// AppError wraps an underlying error with its kind, an HTTP status and a safe message.
type AppError struct {
	Kind    Kind
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Display returns the text rendered on the page for this error.
func (e *AppError) Display() string {
	switch e.Kind {
	case ValidationError:
		return e.Message
	case ExternalCallError:
		return e.Error()
	default:
		return e.Message
	}
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(kind Kind, err error, status int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Validation reports an input problem; msg is shown as-is.
func Validation(msg string) *AppError {
	return New(ValidationError, nil, http.StatusBadRequest, msg)
}

// ExternalCall wraps a failed outbound call. A nil err yields nil.
func ExternalCall(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind == ExternalCallError && appErr.Message == ExternalCallMessage {
		return appErr
	}
	return New(ExternalCallError, err, http.StatusBadGateway, ExternalCallMessage)
}

// KindOf returns the kind of the first AppError in err's chain, or 0.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}
