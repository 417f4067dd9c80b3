package errors

import (
	"errors"
	"net/http"
)

// Status tokens shared by the error taxonomy and the response envelope.
const (
	CodeBadRequest       = "badRequest"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "notFound"
	CodeConflict         = "conflict"
	CodeInvalidInput     = "invalidInput"
	CodeExpired          = "expired"
	CodeAlreadyConfirmed = "alreadyConfirmed"
	CodeUpstreamFailure  = "upstreamFailure"
	CodeServerError      = "serverError"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	// Code is the machine-checkable status token. Derived from StatusCode when empty.
	Code string
	// Fields holds per-field messages for validation failures.
	Fields map[string]string
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Token returns the status token of the error.
func (e *ErrorWithStatusCode) Token() string {
	if e.Code != "" {
		return e.Code
	}
	return CodeForStatus(e.StatusCode)
}

func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnprocessableEntity:
		return CodeInvalidInput
	default:
		return CodeServerError
	}
}

func NotFound(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound, Code: CodeNotFound}
}

func Conflict(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict, Code: CodeConflict}
}

func BadRequest(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Code: CodeBadRequest}
}

func Forbidden(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusForbidden, Code: CodeForbidden}
}

func Unauthenticated(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized}
}

// Validation reports malformed input. It is rendered with the unprocessable status.
func Validation(message string, fields map[string]string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnprocessableEntity, Code: CodeInvalidInput, Fields: fields}
}

// Upstream wraps a failure of an outbound collaborator (email, file store).
func Upstream(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusInternalServerError, Code: CodeUpstreamFailure}
}

func Expired(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Code: CodeExpired}
}

func AlreadyConfirmed(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest, Code: CodeAlreadyConfirmed}
}

// HasCode reports whether err (or anything it wraps) carries the given status token.
func HasCode(err error, code string) bool {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.Token() == code
	}
	return false
}

func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// StatusCode returns the http status attached to err, 500 otherwise.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// IsTaxonomy reports whether err carries a status code, as opposed to an
// unexpected failure.
func IsTaxonomy(err error) bool {
	var e *ErrorWithStatusCode
	return errors.As(err, &e)
}
