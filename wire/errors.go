package wire

import (
	"fmt"
	"strings"
)

// ErrorKind distinguishes the runtime (as opposed to compile-time) failure
// modes a CodecError can carry. See spec §7.
type ErrorKind int

const (
	WireTypeMismatch ErrorKind = iota
	UnknownField
	RequiredFieldMissing
	BadString
	ValueOutOfRange
	VarintOverflow
)

func (k ErrorKind) String() string {
	switch k {
	case WireTypeMismatch:
		return "wire type mismatch"
	case UnknownField:
		return "unknown field"
	case RequiredFieldMissing:
		return "required field missing"
	case BadString:
		return "invalid UTF-8 string"
	case ValueOutOfRange:
		return "value out of range"
	case VarintOverflow:
		return "varint overflow"
	default:
		return "codec error"
	}
}

// CodecError is the umbrella runtime error described in spec §7. Field
// identifies the offending field by name (kv schemas) or by its tag number
// formatted as a string (format-string schemas, or when no name is known).
type CodecError struct {
	Kind  ErrorKind
	Field string
	Msg   string
}

func (e *CodecError) Error() string {
	if e.Field == "" {
		if e.Msg == "" {
			return e.Kind.String()
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: field %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%s: field %s: %s", e.Kind, e.Field, e.Msg)
}

// Is lets errors.Is(err, wire.ErrVarintOverflow) and friends work without
// callers needing to know about ErrorKind.
func (e *CodecError) Is(target error) bool {
	ce, ok := target.(*CodecError)
	if !ok {
		return false
	}
	return ce.Field == "" && ce.Msg == "" && ce.Kind == e.Kind
}

// NewCodecError builds a CodecError without a field context; codec attaches
// the field as it unwinds.
func NewCodecError(kind ErrorKind, msg string) *CodecError {
	return &CodecError{Kind: kind, Msg: msg}
}

// Sentinel, field-less CodecErrors for use with errors.Is.
var (
	ErrWireTypeMismatch     = &CodecError{Kind: WireTypeMismatch}
	ErrUnknownField         = &CodecError{Kind: UnknownField}
	ErrRequiredFieldMissing = &CodecError{Kind: RequiredFieldMissing}
	ErrBadString            = &CodecError{Kind: BadString}
	ErrValueOutOfRange      = &CodecError{Kind: ValueOutOfRange}
	ErrVarintOverflow       = &CodecError{Kind: VarintOverflow}
)

// EndOfMessageError signals that the input ended where more was expected.
// Partial is true when bytes were consumed past the last complete record
// boundary (spec §7).
type EndOfMessageError struct {
	Partial bool
	Msg     string
}

func (e *EndOfMessageError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("end of message (partial=%v)", e.Partial)
	}
	return fmt.Sprintf("end of message (partial=%v): %s", e.Partial, e.Msg)
}

func (e *EndOfMessageError) Is(target error) bool {
	_, ok := target.(*EndOfMessageError)
	return ok
}

// FieldError represents an encoding/decoding error with a field path.
type FieldError struct {
	FieldPath []string // e.g., ["field_args", "input", "target_location", "latitude"]
	Err       error    // underlying error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("error at proto path %s: %v", strings.Join(e.FieldPath, "."), e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for compatibility.
func (e *FieldError) Is(target error) bool {
	_, ok := target.(*FieldError)
	return ok
}

// WrapWithField wraps an error with a field name, building up a dotted
// path as the error unwinds out of nested message recursion.
func WrapWithField(err error, fieldName string) error {
	if err == nil {
		return nil
	}

	if fe, ok := err.(*FieldError); ok {
		return &FieldError{
			FieldPath: append([]string{fieldName}, fe.FieldPath...),
			Err:       fe.Err,
		}
	}

	return &FieldError{
		FieldPath: []string{fieldName},
		Err:       err,
	}
}
