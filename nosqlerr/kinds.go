// Package nosqlerr defines the error taxonomy shared across the driver and
// the predicate that decides whether a failed operation may be retried.
package nosqlerr

import (
	"errors"
	"fmt"
)

// Kind identifies a coarse category of failure. Every error raised by the
// driver can be classified into exactly one Kind via KindOf.
type Kind int

const (
	KindUnknown Kind = iota
	KindIllegalArgument
	KindTimeout
	KindCancelled
	KindInvalidState
	KindThrottling
	KindAuthInvalid
	KindRetryableTransport
	KindUnsupportedProtocol
	KindTableNotFound
	KindIndexNotFound
	KindTableExists
	KindIndexExists
	KindPreparedStatementInvalid
	KindRequestSizeLimit
	KindBatchNumberLimit
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindIllegalArgument:
		return "IllegalArgument"
	case KindTimeout:
		return "Timeout"
	case KindCancelled:
		return "Cancelled"
	case KindInvalidState:
		return "InvalidState"
	case KindThrottling:
		return "Throttling"
	case KindAuthInvalid:
		return "AuthInvalid"
	case KindRetryableTransport:
		return "RetryableTransport"
	case KindUnsupportedProtocol:
		return "UnsupportedProtocol"
	case KindTableNotFound:
		return "TableNotFound"
	case KindIndexNotFound:
		return "IndexNotFound"
	case KindTableExists:
		return "TableExists"
	case KindIndexExists:
		return "IndexExists"
	case KindPreparedStatementInvalid:
		return "PreparedStatementInvalid"
	case KindRequestSizeLimit:
		return "RequestSizeLimit"
	case KindBatchNumberLimit:
		return "BatchNumberLimit"
	case KindProtocol:
		return "Protocol"
	default:
		return "Unknown"
	}
}

// ThrottleDirection distinguishes which resource was throttled.
type ThrottleDirection int

const (
	ThrottleRead ThrottleDirection = iota
	ThrottleWrite
	ThrottleStorage
)

func (d ThrottleDirection) String() string {
	switch d {
	case ThrottleRead:
		return "read"
	case ThrottleWrite:
		return "write"
	case ThrottleStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is the concrete error type raised by every driver operation.
// It wraps an optional cause and carries enough context for diagnostics
// without forcing callers to parse message strings.
type Error struct {
	Kind Kind
	Operation string
	Message string
	Cause error

	// Retries is populated only on KindTimeout: the number of attempts
	// already performed before the deadline was reached.
	Retries int
	// Direction is populated only on KindThrottling.
	Direction ThrottleDirection
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Operation, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches on Kind so callers can write errors.Is(err, nosqlerr.ErrTimeout).
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.Kind == e.Kind
	}
	return false
}

// New constructs an Error of the given kind.
func New(kind Kind, operation, message string) *Error {
	return &Error{Kind: kind, Operation: operation, Message: message}
}

// Wrap constructs an Error of the given kind wrapping cause.
func Wrap(kind Kind, operation, message string, cause error) *Error {
	return &Error{Kind: kind, Operation: operation, Message: message, Cause: cause}
}

// Timeout builds a KindTimeout error that carries retry diagnostics.
func Timeout(operation string, retries int, cause error) *Error {
	return &Error{Kind: KindTimeout, Operation: operation, Message: "operation timed out", Retries: retries, Cause: cause}
}

// Throttled builds a KindThrottling error for the given direction.
func Throttled(operation string, dir ThrottleDirection, cause error) *Error {
	return &Error{Kind: KindThrottling, Operation: operation, Message: fmt.Sprintf("%s throttled", dir), Direction: dir, Cause: cause}
}

// sentinels for errors.Is against a fixed Kind without constructing a full Error.
var (
	ErrIllegalArgument = &Error{Kind: KindIllegalArgument}
	ErrTimeout = &Error{Kind: KindTimeout}
	ErrCancelled = &Error{Kind: KindCancelled}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrThrottling = &Error{Kind: KindThrottling}
	ErrAuthInvalid = &Error{Kind: KindAuthInvalid}
	ErrRetryableTransport = &Error{Kind: KindRetryableTransport}
	ErrUnsupportedProtocol = &Error{Kind: KindUnsupportedProtocol}
	ErrTableNotFound = &Error{Kind: KindTableNotFound}
	ErrIndexNotFound = &Error{Kind: KindIndexNotFound}
	ErrTableExists = &Error{Kind: KindTableExists}
	ErrIndexExists = &Error{Kind: KindIndexExists}
	ErrPreparedStatementInvalid = &Error{Kind: KindPreparedStatementInvalid}
	ErrRequestSizeLimit = &Error{Kind: KindRequestSizeLimit}
	ErrBatchNumberLimit = &Error{Kind: KindBatchNumberLimit}
	ErrProtocol = &Error{Kind: KindProtocol}
)

// KindOf extracts the Kind from err, or KindUnknown if err is not one of ours.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
