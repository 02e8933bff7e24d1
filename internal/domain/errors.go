package domain

import (
	"errors"
	"net/http"
)

// Code identifies a domain error class. Codes are part of the wire contract:
// route handlers serialize them verbatim into {code, message} error bodies.
type Code string

const (
	CodeMissingProperty Code = "missing_property"
	CodeBadRequest      Code = "bad_request"
	CodeDuplicateEntry  Code = "duplicate_entry"
	CodeNotFound        Code = "not_found"
	CodeDatabase        Code = "database_error"
	CodeFolderCreation  Code = "folder_creation_error"
	CodeUnauthenticated Code = "unauthenticated_error"
	CodeFilestore       Code = "filestore_error"
	CodeChatService     Code = "chat_service_error"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling at the
// route layer without switching on concrete types.
type HTTPError interface {
	error
	StatusCode() int
	ErrorCode() Code
}

// Error is the one concrete domain error type. Services catch data-layer and
// provider failures and re-wrap them as an *Error; raw driver errors never
// reach the route layer.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) ErrorCode() Code { return e.Code }

// StatusCode maps the taxonomy onto HTTP statuses.
func (e *Error) StatusCode() int {
	switch e.Code {
	case CodeMissingProperty, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateEntry:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds a domain error with no underlying cause.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError builds a domain error preserving the underlying cause for
// errors.Is/As chains and logging.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// IsCode reports whether err carries the given domain code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Sentinel errors for the data layer - repositories return these and services
// translate them into coded errors. Use with errors.Is().
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
)
