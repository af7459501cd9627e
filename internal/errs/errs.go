// Package errs defines the error kinds returned by table operations.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the category of an operation failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindSchema covers unknown columns, size and shape mismatches.
	KindSchema
	// KindIndex covers row or column positions out of bounds.
	KindIndex
	// KindType covers numeric operations on STRING columns.
	KindType
	// KindStatistical covers too few valid values and bad quantiles.
	KindStatistical
	// KindFileAccess covers unreadable or unwritable paths.
	KindFileAccess
	// KindArgument covers invalid method names, windows and options.
	KindArgument
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "SchemaError"
	case KindIndex:
		return "IndexError"
	case KindType:
		return "TypeError"
	case KindStatistical:
		return "StatisticalError"
	case KindFileAccess:
		return "FileAccessError"
	case KindArgument:
		return "ArgumentError"
	default:
		return "Error"
	}
}

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrSizeMismatch   = errors.New("size mismatch")
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrNoValidValues  = errors.New("no valid values")
	ErrOutOfRange     = errors.New("out of range")
)

// Error is a categorized failure of one operation.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
	Details map[string]any
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and operation to cause. It returns nil for a nil cause.
func Wrap(cause error, kind Kind, op, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func ColumnNotFound(op, name string) *Error {
	return Wrap(ErrColumnNotFound, KindSchema, op, name).WithDetail("column", name)
}

func SizeMismatch(op string, want, got int) *Error {
	return Wrap(ErrSizeMismatch, KindSchema, op, fmt.Sprintf("expected %d values got %d", want, got)).
		WithDetail("want", want).WithDetail("got", got)
}

func ShapeMismatch(op string, rows, cols, otherRows, otherCols int) *Error {
	return Wrap(ErrShapeMismatch, KindSchema, op, fmt.Sprintf("(%d, %d) vs (%d, %d)", rows, cols, otherRows, otherCols))
}

func OutOfRange(op string, what string, i, n int) *Error {
	return Wrap(ErrOutOfRange, KindIndex, op, fmt.Sprintf("%s %d not in [0, %d)", what, i, n)).
		WithDetail(what, i)
}

func NumericRequired(op, column string) *Error {
	return Newf(KindType, op, "column %s is STRING", column).WithDetail("column", column)
}

func NoValidValues(op, column string) *Error {
	return Wrap(ErrNoValidValues, KindStatistical, op, column).WithDetail("column", column)
}
