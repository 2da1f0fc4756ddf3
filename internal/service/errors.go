package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures raised by the generation pipeline so that
// callers can decide between retrying, rejecting the request and mapping to
// an HTTP status without inspecting error strings.
type ErrorKind int

const (
	// KindInvocation is the conservative default for upstream errors that
	// match no known failure pattern. Never retried.
	KindInvocation ErrorKind = iota
	// KindInvalidArgument marks malformed caller input. Never retried.
	KindInvalidArgument
	// KindResponseFormat marks model output that could not be parsed into
	// the expected recipe shape.
	KindResponseFormat
	// KindSchemaValidation marks parsed output that violates the recipe's
	// domain constraints.
	KindSchemaValidation
	// KindTimeout marks a timed-out model call. Retryable.
	KindTimeout
	// KindConnection marks a transport-level connectivity failure. Retryable.
	KindConnection
	// KindRateLimited marks an upstream capacity rejection. Retryable.
	KindRateLimited
	// KindAuthFailure marks a credential problem. Never retried.
	KindAuthFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindResponseFormat:
		return "response_format"
	case KindSchemaValidation:
		return "schema_validation"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindRateLimited:
		return "rate_limited"
	case KindAuthFailure:
		return "auth_failure"
	default:
		return "invocation"
	}
}

// Retryable reports whether a failure of this kind is transient and worth
// another attempt. Unknown errors are assumed permanent.
func (k ErrorKind) Retryable() bool {
	return k == KindTimeout || k == KindConnection || k == KindRateLimited
}

// Error is a pipeline failure carrying its classification.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// newError creates a classified error with a formatted message.
func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// wrapError classifies an underlying error while keeping it unwrappable.
func wrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf returns the classification of err, or KindInvocation when err does
// not carry one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInvocation
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// errorPatterns maps lower-cased substrings of upstream error messages to
// failure kinds. The transport does not expose typed errors, so this
// keyword table is the single place the string matching lives; anything it
// does not recognize (DNS failures, TLS errors) falls through to the
// non-retryable KindInvocation default.
var errorPatterns = []struct {
	keywords []string
	kind     ErrorKind
}{
	{[]string{"timeout", "timed out", "deadline exceeded"}, KindTimeout},
	{[]string{"connection", "network"}, KindConnection},
	{[]string{"rate limit", "throttl"}, KindRateLimited},
	{[]string{"authentication", "unauthorized"}, KindAuthFailure},
}

// classifyInvocationError turns an opaque transport error into a classified
// pipeline error by matching keywords in its message.
func classifyInvocationError(err error) *Error {
	msg := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(msg, kw) {
				return wrapError(p.kind, err, "model invocation failed")
			}
		}
	}
	return wrapError(KindInvocation, err, "model invocation failed")
}
