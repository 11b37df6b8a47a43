// Package wire implements the byte-level Protobuf wire format: varints,
// zigzag and two's-complement signed varints, fixed32/64, length-delimited
// values, the tag codec, and the schema-less raw record codec. Nothing in
// this package knows about schemas; that lives one layer up in schema and
// codec.
package wire

// ===== PROTOBUF WIRE FORMAT TYPES =====

// WireType represents protobuf wire format types
type WireType int32

const (
	WireVarint  WireType = 0 // varint-encoded scalars, bool, enum
	WireFixed64 WireType = 1 // fixed64, sfixed64, double
	WireBytes   WireType = 2 // string, bytes, embedded messages, packed repeated fields
	WireFixed32 WireType = 5 // fixed32, sfixed32, float
)

// Groups (wire types 3 and 4) are not part of this codec's supported
// subset; any tag carrying them fails decoding.
const (
	wireGroupStart WireType = 3
	wireGroupEnd   WireType = 4
)

// FieldNumber represents a protobuf field number
type FieldNumber int32

// MinFieldNumber and MaxFieldNumber bound a legal field number on the wire.
const (
	MinFieldNumber FieldNumber = 1
	MaxFieldNumber FieldNumber = 1<<29 - 1
)

// Tag represents a protobuf field tag (field number + wire type)
type Tag uint64

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag parses a tag into field number and wire type
func ParseTag(tag Tag) (FieldNumber, WireType) {
	return FieldNumber(tag >> 3), WireType(tag & 0x7)
}

// ValidWireType reports whether wt is one of the four wire types this codec
// supports (groups are excluded).
func ValidWireType(wt WireType) bool {
	switch wt {
	case WireVarint, WireFixed64, WireBytes, WireFixed32:
		return true
	default:
		return false
	}
}

// Record is one schema-less (field_number, wire_type, payload) triple, as
// produced and consumed by the raw record codec (EncodeRaw/RawDecoder).
// Data holds a uint64 for WireVarint, a uint32 for WireFixed32, a uint64
// for WireFixed64, or a []byte for WireBytes.
type Record struct {
	FieldNumber FieldNumber
	WireType    WireType
	Data        interface{}
}
