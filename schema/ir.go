// Package schema compiles the two schema surfaces described by the format
// (a compact type-code string, and a key/value description) into one
// immutable intermediate representation (IR) of fields, each carrying a
// tag number, wire type, semantic type, cardinality, and an optional
// nested schema. Compilation is total and side-effect-free; the IR is
// immutable once built and may be shared across concurrent encoders and
// decoders.
package schema

import "github.com/dogtopus/minipb/wire"

// Type is one letter from the semantic-type table (spec §3.2).
type Type byte

const (
	TypeSFixed32    Type = 'i' // signed fixed32
	TypeSFixed32Alt Type = 'l' // signed fixed32 (alias)
	TypeFixed32     Type = 'I' // unsigned fixed32
	TypeFixed32Alt  Type = 'L' // unsigned fixed32 (alias)
	TypeSFixed64    Type = 'q' // signed fixed64
	TypeFixed64     Type = 'Q' // unsigned fixed64
	TypeFloat32     Type = 'f' // IEEE-754 float32
	TypeFloat64     Type = 'd' // IEEE-754 float64
	TypeBytes       Type = 'a' // bytes, byte-transparent
	TypeString      Type = 'U' // UTF-8 text
	TypeBool        Type = 'b' // boolean
	TypeTwosComp    Type = 't' // bounded two's-complement signed varint
	TypeUvarintT    Type = 'T' // unsigned varint
	TypeUvarintV    Type = 'V' // unsigned varint (alias)
	TypeZigZagZ     Type = 'z' // zigzag-encoded signed varint
	TypeZigZagV     Type = 'v' // zigzag-encoded signed varint (alias)
	TypePlaceholder Type = 'x' // no value, advances the field number only
	TypeNested      Type = '[' // nested message (the Type of every nested-message Field; not a type letter)
)

// WireType returns the canonical wire type for a semantic type. Nested
// messages and the placeholder both report LengthDelimited/undefined
// specially by their callers; WireType is meaningful for the scalar codes.
func (t Type) WireType() (wire.WireType, bool) {
	switch t {
	case TypeSFixed32, TypeSFixed32Alt, TypeFixed32, TypeFixed32Alt, TypeFloat32:
		return wire.WireFixed32, true
	case TypeSFixed64, TypeFixed64, TypeFloat64:
		return wire.WireFixed64, true
	case TypeBytes, TypeString:
		return wire.WireBytes, true
	case TypeBool, TypeTwosComp, TypeUvarintT, TypeUvarintV, TypeZigZagZ, TypeZigZagV:
		return wire.WireVarint, true
	default:
		return 0, false
	}
}

// Packable reports whether a repeated field of this type may be packed
// into a single length-delimited run (scalar varint/fixed/bool types;
// bytes and strings are never packed, per spec §3.3).
func (t Type) Packable() bool {
	wt, ok := t.WireType()
	if !ok {
		return false
	}
	return wt != wire.WireBytes
}

// IsValid reports whether t is one of the recognized one-letter semantic
// codes (including the placeholder, excluding the nested-message marker,
// which is never written as a type letter).
func IsValid(t Type) bool {
	switch t {
	case TypeSFixed32, TypeSFixed32Alt, TypeFixed32, TypeFixed32Alt,
		TypeSFixed64, TypeFixed64, TypeFloat32, TypeFloat64,
		TypeBytes, TypeString, TypeBool, TypeTwosComp,
		TypeUvarintT, TypeUvarintV, TypeZigZagZ, TypeZigZagV, TypePlaceholder:
		return true
	default:
		return false
	}
}

// Field is one compiled field descriptor (spec §3.3).
type Field struct {
	Tag         int32  // positive, unique, stable; assigned sequentially from 1
	Name        string // only set for key/value schemas
	Type        Type
	Required    bool
	Repeated    bool
	Packed      bool
	Nested      *IR // non-nil iff this is a nested-message field
	PrefixCount int // count from a format-string numeric suffix (1 if absent)
}

// IsNested reports whether the field carries a nested message schema.
func (f *Field) IsNested() bool { return f.Nested != nil }

// IsPlaceholder reports whether the field is an 'x' slot: it consumes a
// tag/position but carries no value.
func (f *Field) IsPlaceholder() bool { return f.Type == TypePlaceholder }

// IR is the compiled, immutable schema: an ordered sequence of fields plus
// a flag recording whether the schema is named (key/value) or positional
// (format-string). TwosComplementWidth is the bit width W used for 't'
// fields in this schema (spec §4.1, §9); it defaults to 64 and may be
// overridden per-schema. A nested schema does not inherit it: its own
// IR's width applies to its fields.
type IR struct {
	Fields              []*Field
	KVFormat            bool
	TwosComplementWidth int
}

// FieldByTag returns the field with the given tag, or nil if none exists.
func (ir *IR) FieldByTag(tag int32) *Field {
	for _, f := range ir.Fields {
		if f.Tag == tag {
			return f
		}
	}
	return nil
}

// FieldByName returns the field with the given name, or nil. Only
// meaningful for KVFormat schemas.
func (ir *IR) FieldByName(name string) *Field {
	for _, f := range ir.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// BitWidth returns the configured two's-complement varint width, or the
// default of 64 if unset.
func (ir *IR) BitWidth() int {
	if ir.TwosComplementWidth <= 0 {
		return 64
	}
	return ir.TwosComplementWidth
}
