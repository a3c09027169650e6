package analyzer

import (
	"errors"
	"fmt"
)

// Kind classifies failures talking to the analysis service.
type Kind int

const (
	// KindNetwork covers connection failures, DNS errors, and timeouts.
	KindNetwork Kind = iota + 1
	// KindHTTP is a non-2xx response.
	KindHTTP
	// KindMalformed is a 2xx response whose body does not match the schema.
	KindMalformed
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network_unreachable"
	case KindHTTP:
		return "http_error"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that fails.
type Error struct {
	Kind Kind
	// Op is the client operation: health, extract or analyze.
	Op string
	// Status is set for KindHTTP.
	Status int
	// Detail carries the service's own error message when it sent one.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTP:
		msg := fmt.Sprintf("%s: service returned status %d", e.Op, e.Status)
		if e.Detail != "" {
			msg += ": " + e.Detail
		}
		return msg
	case KindMalformed:
		return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: service unreachable: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindHTTP {
		return apiErr.Status
	}
	return 0
}

func networkError(op string, err error) error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func malformed(op string, format string, args ...any) error {
	return &Error{Kind: KindMalformed, Op: op, Err: fmt.Errorf(format, args...)}
}
