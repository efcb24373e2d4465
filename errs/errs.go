// Package errs implements the structured error chain used across the
// coupling engine: every public operation returns an *Error (or nil)
// rather than panicking, and a caller may attach a downstream error as
// the cause of its own by chaining with Wrap.
package errs

import "strings"

// Kind classifies the failure so callers can branch without parsing
// messages.
type Kind int

const (
	// KindShapeMismatch covers inconsistent sizes among indices,
	// weights, reference positions, displacements, or DOF vectors.
	KindShapeMismatch Kind = iota
	// KindOutOfRange covers a destination index beyond its buffer.
	KindOutOfRange
	// KindConfig covers a missing, malformed, or unknown configuration
	// option.
	KindConfig
	// KindIO covers a missing file, or a file in an unsupported layout.
	KindIO
	// KindNumerical covers a Newton iteration that failed to converge,
	// a linear solve that failed, or an isosurface that could not be
	// located.
	KindNumerical
	// KindUnsupported covers a geometry or element type the engine does
	// not implement.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindShapeMismatch:
		return "shape mismatch"
	case KindOutOfRange:
		return "out of range"
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "I/O error"
	case KindNumerical:
		return "numerical failure"
	case KindUnsupported:
		return "unsupported case"
	default:
		return "unknown"
	}
}

// Error is a node in a linked chain of causes. Source identifies the
// component that raised it (e.g. "fe.Hex8", "dofproject.MacroToMicro").
// Next, when non-nil, is the error that this one is wrapping.
type Error struct {
	Source  string
	Kind    Kind
	Message string
	Next    *Error
}

// New builds a root error with no cause.
func New(source string, kind Kind, message string) *Error {
	return &Error{Source: source, Kind: kind, Message: message}
}

// Wrap attaches cause as the next link below a new error raised by
// source, so the chain reads outer-to-inner.
func Wrap(source string, kind Kind, message string, cause *Error) *Error {
	return &Error{Source: source, Kind: kind, Message: message, Next: cause}
}

// AddNext appends cause at the end of e's chain and returns e, so
// callers can build a chain incrementally: err.AddNext(lowerErr).
func (e *Error) AddNext(cause *Error) *Error {
	if e == nil {
		return cause
	}
	tail := e
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = cause
	return e
}

// Error implements the error interface by rendering the full chain,
// most recent cause first.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	for n := e; n != nil; n = n.Next {
		if n != e {
			b.WriteString(": ")
		}
		b.WriteString(n.Source)
		b.WriteString(": ")
		b.WriteString(n.Message)
	}
	return b.String()
}

// Unwrap exposes the next link so the chain composes with the standard
// errors.Is / errors.As machinery.
func (e *Error) Unwrap() error {
	if e == nil || e.Next == nil {
		return nil
	}
	return e.Next
}

// Is reports whether any node in e's chain has the given kind.
func (e *Error) Is(kind Kind) bool {
	for n := e; n != nil; n = n.Next {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
