// Package diagx implements the lowering engine's error model: a
// Kind-tagged struct error rather than a sentinel-per-kind scheme,
// grounded on the teacher corpus's internal/layout.LayoutError.
package diagx

import (
	"errors"
	"fmt"

	"hdlower/internal/source"
)

// Kind enumerates the five status kinds the engine can return
// (spec.md §7). None of them are ever thrown as a panic; they always
// propagate as a returned error.
type Kind uint8

const (
	// NotFound: an AST node was Use'd before it was Def'd. Driver bug.
	NotFound Kind = iota + 1
	// Internal: an invariant the engine owns has been violated.
	Internal
	// InvalidArgument: an external constraint violated by the caller.
	InvalidArgument
	// Unimplemented: a construct is recognized but not yet lowerable.
	Unimplemented
	// ConversionError: a user-facing wrapper around Internal used when
	// missing type information is detectable at a particular span.
	ConversionError
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Internal:
		return "Internal"
	case InvalidArgument:
		return "InvalidArgument"
	case Unimplemented:
		return "Unimplemented"
	case ConversionError:
		return "ConversionError"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Status is the error type returned by every fallible engine operation.
type Status struct {
	Kind Kind
	Msg  string
	Span source.Span
	Err  error // optional wrapped cause
}

func (s *Status) Error() string {
	if s == nil {
		return "<nil>"
	}
	if s.Span.Valid() {
		if s.Err != nil {
			return fmt.Sprintf("%s: %s (%s): %v", s.Kind, s.Msg, s.Span, s.Err)
		}
		return fmt.Sprintf("%s: %s (%s)", s.Kind, s.Msg, s.Span)
	}
	if s.Err != nil {
		return fmt.Sprintf("%s: %s: %v", s.Kind, s.Msg, s.Err)
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Msg)
}

func (s *Status) Unwrap() error {
	if s == nil {
		return nil
	}
	return s.Err
}

func newStatus(kind Kind, span source.Span, format string, args ...any) *Status {
	return &Status{Kind: kind, Msg: fmt.Sprintf(format, args...), Span: span}
}

// NotFoundf builds a NotFound status.
func NotFoundf(span source.Span, format string, args ...any) *Status {
	return newStatus(NotFound, span, format, args...)
}

// Internalf builds an Internal status.
func Internalf(span source.Span, format string, args ...any) *Status {
	return newStatus(Internal, span, format, args...)
}

// InvalidArgumentf builds an InvalidArgument status.
func InvalidArgumentf(span source.Span, format string, args ...any) *Status {
	return newStatus(InvalidArgument, span, format, args...)
}

// Unimplementedf builds an Unimplemented status.
func Unimplementedf(span source.Span, format string, args ...any) *Status {
	return newStatus(Unimplemented, span, format, args...)
}

// ConversionErrorf builds a ConversionError status wrapping cause.
func ConversionErrorf(span source.Span, cause error, format string, args ...any) *Status {
	st := newStatus(ConversionError, span, format, args...)
	st.Err = cause
	return st
}

// Is reports whether err is a *Status of the given kind, unwrapping once.
func Is(err error, kind Kind) bool {
	st, ok := err.(*Status)
	if !ok {
		st, ok = errors.Unwrap(err).(*Status)
	}
	return ok && st.Kind == kind
}
