package ocr

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidInput      ErrorCode = "invalid_input"
	CodeUpstreamFailure   ErrorCode = "upstream_failure"
	CodeEmptyResponse     ErrorCode = "empty_response"
	CodeMalformedResponse ErrorCode = "malformed_response"
)

// Error is returned by Service.Analyze for every failure.
type Error struct {
	Code    ErrorCode
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code, so errors.Is(err, ErrEmptyResponse) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == ""
}

var (
	ErrInvalidInput      = &Error{Code: CodeInvalidInput}
	ErrUpstreamFailure   = &Error{Code: CodeUpstreamFailure}
	ErrEmptyResponse     = &Error{Code: CodeEmptyResponse}
	ErrMalformedResponse = &Error{Code: CodeMalformedResponse}

	errNotObject = errors.New("top-level JSON value is null")
)

func newError(code ErrorCode, msg string, cause error) *Error {
	e := &Error{Code: code, Message: msg, Err: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// CodeOf returns the code carried by err, or CodeUpstreamFailure for foreign errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUpstreamFailure
}
