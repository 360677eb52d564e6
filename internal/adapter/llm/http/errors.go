package http

import (
	"errors"
	"fmt"
)

// Kind is the error taxonomy the orchestrator dispatches on.
type Kind int

const (
	// KindConfig marks an invalid or unsupported configuration
	// (bad option combination, unknown model, rejected request).
	// Never retried.
	KindConfig Kind = iota

	// KindProvider marks a transient provider failure (rate limit,
	// timeout, 5xx). Retried up to the configured bound.
	KindProvider

	// KindParse marks a response whose shape does not match the
	// contract for the declared API flavor. Retrying an unparseable
	// contract cannot change the provider's response shape.
	KindParse
)

// String returns a human-readable description of the error kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindProvider:
		return "provider error"
	case KindParse:
		return "parse error"
	default:
		return "unknown error"
	}
}

// Error is a typed provider-call failure with enough context for
// logging and retry decisions.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Provider   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s: %s (status: %d)", e.Provider, e.Kind.String(), e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind.String(), e.Message)
}

// Is implements kind-level equality for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// IsRetryable reports whether a retry may succeed. Only transient
// provider failures qualify.
func (e *Error) IsRetryable() bool {
	return e.Kind == KindProvider
}

// NewConfigError creates a non-retryable configuration error.
func NewConfigError(provider, message string) *Error {
	return &Error{Kind: KindConfig, Message: message, Provider: provider}
}

// NewProviderError creates a retryable transient provider error.
func NewProviderError(provider, message string, statusCode int) *Error {
	return &Error{Kind: KindProvider, Message: message, StatusCode: statusCode, Provider: provider}
}

// NewTimeoutError creates a retryable timeout error.
func NewTimeoutError(provider, message string) *Error {
	return &Error{Kind: KindProvider, Message: message, Provider: provider}
}

// NewRateLimitError creates a retryable rate-limit error.
func NewRateLimitError(provider, message string) *Error {
	return &Error{Kind: KindProvider, Message: message, StatusCode: 429, Provider: provider}
}

// NewParseError creates a non-retryable response-shape error.
func NewParseError(provider, message string) *Error {
	return &Error{Kind: KindParse, Message: message, Provider: provider}
}

// FromStatusCode maps an HTTP error status to the taxonomy. The 400
// family means the request we built is structurally invalid for this
// model, which is a configuration problem in this harness; 408, 429
// and the 500 family are transient.
func FromStatusCode(provider string, statusCode int, message string) *Error {
	switch {
	case statusCode == 408 || statusCode == 429 || statusCode >= 500:
		return &Error{Kind: KindProvider, Message: message, StatusCode: statusCode, Provider: provider}
	default:
		return &Error{Kind: KindConfig, Message: message, StatusCode: statusCode, Provider: provider}
	}
}

// KindOf extracts the taxonomy kind from any error. Untyped errors
// are treated as parse failures: something unexpected came back and
// repeating the call will not change it.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindParse
}
