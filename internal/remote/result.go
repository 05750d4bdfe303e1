package remote

import (
	"context"
	"errors"
	"net"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
)

// ErrorKind classifies a failed call so callers can branch without parsing
// status codes or messages.
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindTransport    ErrorKind = "transport"
	KindTimeout      ErrorKind = "timeout"
	KindUnauthorized ErrorKind = "unauthorized"
	KindValidation   ErrorKind = "validation"
	KindPrecondition ErrorKind = "precondition"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindServer       ErrorKind = "server"
	KindDecode       ErrorKind = "decode"
)

// Result is the outcome of one Persistence Service call. Err is nil exactly
// when Kind is KindNone, and is always a *pkgerrors.Error otherwise.
type Result[T any] struct {
	Value T
	Kind  ErrorKind
	Err   error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Retryable reports whether repeating the call later may succeed.
func (r Result[T]) Retryable() bool {
	switch r.Kind {
	case KindTransport, KindTimeout, KindServer:
		return true
	}
	return false
}

// Unwrap lets callers fall back to plain (value, error) handling.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

func ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func fail[T any](kind ErrorKind, err *pkgerrors.Error) Result[T] {
	return Result[T]{Kind: kind, Err: err}
}

// kindForCode maps a server error code onto a result kind.
func kindForCode(code pkgerrors.Code) ErrorKind {
	switch code {
	case pkgerrors.CodeUnauthorized:
		return KindUnauthorized
	case pkgerrors.CodeValidation:
		return KindValidation
	case pkgerrors.CodeNotAuthenticated, pkgerrors.CodeNoPaymentMethod, pkgerrors.CodeEmptyCart:
		return KindPrecondition
	case pkgerrors.CodeNotFound:
		return KindNotFound
	case pkgerrors.CodeConflict, pkgerrors.CodeStateConflict, pkgerrors.CodeRateLimit:
		return KindConflict
	case pkgerrors.CodeTimeout:
		return KindTimeout
	}
	return KindServer
}

func transportFailure[T any](err error) Result[T] {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fail[T](KindTimeout, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "request timed out"))
	}
	return fail[T](KindTransport, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persistence service unreachable"))
}
