// Package dberr defines the unified error taxonomy shared by every backend
// adapter. It follows the teacher library's convention of wrapping with
// github.com/pkg/errors rather than plain fmt.Errorf, so that %+v on a
// returned error keeps a stack trace from the point the Kind was assigned.
package dberr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error without requiring callers to unwrap driver-native
// types. It mirrors spec §7 one-for-one.
type Kind int

const (
	// KindConfig marks a missing or invalid configuration option.
	KindConfig Kind = iota
	// KindConnection marks a failure to establish or check out a connection.
	KindConnection
	// KindExecution marks a driver-reported error during execution, batch,
	// begin/commit/rollback, row extraction, or internal conversion.
	KindExecution
	// KindParameter marks a parameter the converter could not bind.
	KindParameter
	// KindPool marks a pool-library failure, tagged by backend.
	KindPool
	// KindUnimplemented marks a feature-gated backend not enabled in this build.
	KindUnimplemented
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindConnection:
		return "connection"
	case KindExecution:
		return "execution"
	case KindParameter:
		return "parameter"
	case KindPool:
		return "pool"
	case KindUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across the public API. The
// original driver error, if any, is always preserved as Cause so that
// errors.As on the driver-native type still works through errors.Unwrap.
type Error struct {
	Kind    Kind
	Backend string
	msg     string
	cause   error
}

// New creates an Error of the given Kind with no driver-native cause; its
// Unwrap target is a github.com/pkg/errors error carrying msg and a stack
// trace.
func New(kind Kind, backend, msg string) *Error {
	return &Error{Kind: kind, Backend: backend, msg: msg, cause: errors.New(msg)}
}

// Wrap attaches Kind/backend context to cause while preserving it as the
// unwrap target, the way database/utils.go's CantPerformQuery wraps driver
// errors with github.com/pkg/errors.
func Wrap(kind Kind, backend string, cause error, msg string) *Error {
	if cause == nil {
		return New(kind, backend, msg)
	}

	return &Error{Kind: kind, Backend: backend, msg: msg, cause: errors.Wrap(cause, msg)}
}

// Wrapf is Wrap with fmt.Sprintf-style formatting of msg.
func Wrapf(kind Kind, backend string, cause error, format string, args ...any) *Error {
	return Wrap(kind, backend, cause, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.msg)
	}

	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Backend, e.msg)
}

// Unwrap exposes the underlying driver-native error (if any) to errors.As/Is.
func (e *Error) Unwrap() error {
	return e.cause
}

// Format implements fmt.Formatter so that fmt.Sprintf("%+v", err) prints the
// stack trace captured by github.com/pkg/errors at the point Wrap was called.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		_, _ = fmt.Fprintf(s, "%s\n%+v", e.Error(), e.cause)
		return
	}

	_, _ = fmt.Fprint(s, e.Error())
}

// Is makes errors.Is match any *Error target with the same Kind, whatever
// its Backend and message; a bare Kind is not an error and cannot be a
// target. See KindErr below for the sentinel form used by callers.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == other.Kind
}

// KindErr returns a sentinel *Error usable with errors.Is(err, dberr.KindErr(dberr.KindExecution)).
func KindErr(kind Kind) error {
	return &Error{Kind: kind}
}

// Config, Connection, Execution, Parameter, Pool, Unimplemented are
// convenience constructors for the corresponding Kind.
func Config(backend string, cause error, msg string) *Error {
	return Wrap(KindConfig, backend, cause, msg)
}

func Connection(backend string, cause error, msg string) *Error {
	return Wrap(KindConnection, backend, cause, msg)
}

func Execution(backend string, cause error, msg string) *Error {
	return Wrap(KindExecution, backend, cause, msg)
}

func Executionf(backend string, cause error, format string, args ...any) *Error {
	return Wrapf(KindExecution, backend, cause, format, args...)
}

func Parameter(backend string, msg string) *Error {
	return New(KindParameter, backend, msg)
}

func Pool(backend string, cause error, msg string) *Error {
	return Wrap(KindPool, backend, cause, msg)
}

func Unimplemented(backend string) *Error {
	return New(KindUnimplemented, backend, fmt.Sprintf("backend %q is not enabled in this build", backend))
}
