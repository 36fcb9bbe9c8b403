// Package xerrors defines the error taxonomy the core surfaces to its
// callers: one tagged kind per failing stage, wrapped around a cause so
// internal logs keep the chain while the HTTP/CLI boundary renders a
// single opaque string per call, per the core's error handling design.
package xerrors

import (
	"errors"
	"fmt"

	mdxerrors "github.com/mdobak/go-xerrors"
)

// Kind tags which pipeline stage produced an error. It implements error
// itself so a bare Kind can be used as an errors.Is/errors.As target
// (errors.Is(err, xerrors.KindStore)) without a separate sentinel type.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	KindDecode   Kind = "decode"   // malformed/unsupported audio, no track
	KindStft     Kind = "stft"     // FFT internal failure
	KindIndex    Kind = "index"    // k-d tree insert/query failure
	KindStore    Kind = "store"    // connection/serialization failure against the store
	KindProvider Kind = "provider" // external catalog/download HTTP failure
	KindMatch    Kind = "match"    // candidate survived scoring but metadata is missing
	KindInput    Kind = "input"    // URL matched no provider pattern, or empty query
)

// Error is a tagged, wrapped error. Its Error() string is the one
// opaque message a caller sees; Unwrap() exposes the chain for callers
// that want to inspect it with errors.Is/errors.As.
type Error struct {
	kind Kind
	err  error
}

// New builds a tagged error from a message and an optional cause.
// The message is captured through go-xerrors so it carries a stack
// trace for structured logging; cause, if non-nil, is chained beneath
// it so errors.Unwrap still reaches the original failure.
func New(kind Kind, msg string, cause error) error {
	base := mdxerrors.New(msg)
	if cause != nil {
		base = fmt.Errorf("%w: %w", base, cause)
	}
	return &Error{kind: kind, err: base}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.err.Error())
}

func (e *Error) Unwrap() error { return e.err }

// KindOf reports the tagged Kind of err, or "" if err was not produced
// by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}

// Is implements the is-a check errors.Is uses against a bare Kind
// sentinel, so callers can write errors.Is(err, xerrors.KindStore).
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.kind
}
