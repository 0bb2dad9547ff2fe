package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Kind classifies a request failure so callers can present distinct copy for
// connectivity problems versus server rejections.
type Kind int

const (
	// KindRejected means the server responded with a non-2xx status.
	KindRejected Kind = iota
	// KindTimeout means the request exceeded the client timeout.
	KindTimeout
	// KindNetworkUnavailable means no response was received at all.
	KindNetworkUnavailable
	// KindValidation means the request failed client-side checks and was
	// never sent.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindTimeout:
		return "timeout"
	case KindNetworkUnavailable:
		return "network unavailable"
	case KindValidation:
		return "validation failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by the client adapter.
type Error struct {
	Err        error
	Detail     string
	Kind       Kind
	StatusCode int
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRejected:
		if e.Detail != "" {
			return fmt.Sprintf("request rejected (%d): %s", e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("request rejected (%d)", e.StatusCode)
	case KindTimeout:
		return "request timed out"
	case KindNetworkUnavailable:
		if e.Err != nil {
			return fmt.Sprintf("network unavailable: %v", e.Err)
		}
		return "network unavailable"
	case KindValidation:
		return e.Detail
	default:
		return "request failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a client-side validation failure.
func NewValidationError(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// ErrKind returns the Kind of err if it is a client adapter error, and
// whether it was one.
func ErrKind(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	k, ok := ErrKind(err)
	return ok && k == KindValidation
}

// classifyTransportError maps transport-level failures onto the taxonomy.
// A request that produced no response is either a timeout or an unreachable
// network; everything else reached the server and is classified elsewhere.
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}

	return &Error{Kind: KindNetworkUnavailable, Err: err}
}
