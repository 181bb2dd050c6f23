/*
NAME
  errs.go

DESCRIPTION
  errs.go defines the structured error kinds shared by every tag codec
  and the orchestrator, so that callers above a single codec package can
  branch on what went wrong without depending on that package's
  sentinel errors directly.

AUTHOR
  Mara Quill <mara@outerreef.dev>

LICENSE
  See LICENSE file in the root of this repository.
*/

// Package errs provides the structured error kinds surfaced by the
// mp3tag engine's codecs and orchestrator.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the category of a tag-engine error.
type Kind int

const (
	// NotPresent means the format probe found no valid tag at any of
	// its candidate locations. Not a failure on its own; the
	// orchestrator treats it as "try the next format".
	NotPresent Kind = iota

	// EntryNotFound means every format was probed and none held the
	// requested key.
	EntryNotFound

	// UnsupportedKey means the caller asked to write a key that has no
	// identifier in the chosen format.
	UnsupportedKey

	// InvalidTag means a format's magic matched but its structure is
	// internally inconsistent (size overruns, corrupt frame header,
	// missing NUL, key length exceeded, value too large).
	InvalidTag

	// InvalidValue means a value offered for encoding doesn't fit the
	// target field (bad encoding byte, non-digit year, field overflow).
	InvalidValue

	// IO covers any filesystem failure: open, read, write, seek.
	IO

	// RenameFailed is the specific IO flavor raised when the final
	// atomic rename of a rewritten file fails.
	RenameFailed
)

// String returns the display name of k.
func (k Kind) String() string {
	switch k {
	case NotPresent:
		return "not present"
	case EntryNotFound:
		return "entry not found"
	case UnsupportedKey:
		return "unsupported key"
	case InvalidTag:
		return "invalid tag"
	case InvalidValue:
		return "invalid value"
	case IO:
		return "io error"
	case RenameFailed:
		return "rename failed"
	default:
		return "unknown error"
	}
}

// Error is a structured error carrying a Kind and, where available, the
// underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error { return e.Cause }

// New returns a new Error of the given kind with no underlying cause.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new Error of the given kind, wrapping cause with
// github.com/pkg/errors so a stack trace is attached at the point of
// failure.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	if cause == nil {
		return New(kind, format, args...)
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
