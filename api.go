// Package minipb is a compact encoder/decoder for the Protobuf wire
// format, usable on memory-constrained targets as well as general-purpose
// hosts. It maps between in-memory structured values and the canonical
// Protobuf byte stream, driven by a schema compiled from one of two
// surface representations (schema.ParseFormat, schema.CompileKV), or — in
// schema-less mode — by the tags and wire types present in the bytes
// themselves (EncodeRaw/DecodeRaw).
package minipb

import (
	"github.com/dogtopus/minipb/codec"
	"github.com/dogtopus/minipb/schema"
	"github.com/dogtopus/minipb/wire"
)

// Options configures a Schema's runtime behavior. The zero value is the
// default: 64-bit two's-complement width, dense kv decode output.
type Options struct {
	// BitWidth is the two's-complement width used for 't' fields in this
	// schema's own top-level fields. 0 selects the default of 64. Nested
	// schemas are not affected: each uses its own IR's width (64 unless
	// set on that IR).
	BitWidth int
	// AllowSparseDict, for a key/value schema, omits absent optional
	// fields from a decoded map instead of filling them with a nil
	// sentinel.
	AllowSparseDict bool
}

// Schema is a compiled schema (C4/C5/C6) bound to an Options set, ready to
// encode and decode payloads against it (C7/C8).
type Schema struct {
	ir   *schema.IR
	opts Options
}

// Compile parses a compact type-code format string into a Schema (C5).
func Compile(format string) (*Schema, error) {
	return CompileWithOptions(format, Options{})
}

// CompileWithOptions is Compile with an explicit Options set.
func CompileWithOptions(format string, opts Options) (*Schema, error) {
	ir, err := schema.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return newSchema(ir, opts), nil
}

// CompileKV compiles a key/value schema description into a Schema (C6).
func CompileKV(entries []KVEntry) (*Schema, error) {
	return CompileKVWithOptions(entries, Options{})
}

// CompileKVWithOptions is CompileKV with an explicit Options set.
func CompileKVWithOptions(entries []KVEntry, opts Options) (*Schema, error) {
	ir, err := schema.CompileKV(entries)
	if err != nil {
		return nil, err
	}
	return newSchema(ir, opts), nil
}

func newSchema(ir *schema.IR, opts Options) *Schema {
	if opts.BitWidth > 0 {
		ir.TwosComplementWidth = opts.BitWidth
	}
	return &Schema{ir: ir, opts: opts}
}

// Encode walks the schema against payload, producing the encoded message
// bytes. payload is a map[string]interface{} for a key/value schema, or a
// []interface{} (one entry per field, in declared order) for a
// format-string schema.
func (s *Schema) Encode(payload interface{}) ([]byte, error) {
	return codec.Encode(s.ir, payload)
}

// Decode parses data against the schema, producing a map[string]interface{}
// (key/value schema) or a []interface{} (format-string schema).
func (s *Schema) Decode(data []byte) (interface{}, error) {
	return codec.Decode(s.ir, data, codec.Options{AllowSparseDict: s.opts.AllowSparseDict})
}

// IR exposes the compiled schema's intermediate representation, for use
// with the schema and codec packages directly (for example
// schema.Nested / schema.NestedWithPrefix, which take an *schema.IR).
func (s *Schema) IR() *schema.IR { return s.ir }

// KVEntry is one entry of a key/value schema description; build entries
// with Scalar, Nested, or NestedWithPrefix.
type KVEntry = schema.KVEntry

// Scalar builds a (name, type_code) key/value entry.
func Scalar(name, typeCode string) KVEntry { return schema.Scalar(name, typeCode) }

// Nested builds a (name, nested_schema) key/value entry: an unprefixed,
// scalar-cardinality nested message field.
func Nested(name string, nested *Schema) KVEntry { return schema.Nested(name, nested.ir) }

// NestedWithPrefix builds a (name, prefix_code, nested_schema) key/value
// entry with explicit cardinality (prefix one of "[", "*[", "+[", "#[",
// or the packed-repeated spellings "+#[", "#+[", "*+[", "+*[").
func NestedWithPrefix(name, prefix string, nested *Schema) KVEntry {
	return schema.NestedWithPrefix(name, prefix, nested.ir)
}

// Record is one schema-less (field_number, wire_type, payload) triple, as
// used by EncodeRaw/DecodeRaw/NewRawDecoder (C3).
type Record = wire.Record

// WireType identifies one of the four wire types this codec supports.
type WireType = wire.WireType

// Wire type constants, re-exported for callers building raw Records
// without importing the wire package directly.
const (
	WireVarint  = wire.WireVarint
	WireFixed64 = wire.WireFixed64
	WireBytes   = wire.WireBytes
	WireFixed32 = wire.WireFixed32
)

// EncodeRaw emits tag||payload for each record, in order, concatenated,
// with no schema involved.
func EncodeRaw(records []Record) ([]byte, error) { return wire.EncodeRaw(records) }

// DecodeRaw drains data into a slice of schema-less Records.
func DecodeRaw(data []byte) ([]Record, error) { return wire.DecodeRaw(data) }

// NewRawDecoder returns a restartable cursor over data that yields one
// Record at a time; use this over DecodeRaw for streaming consumption.
func NewRawDecoder(data []byte) *wire.RawDecoder { return wire.NewRawDecoder(data) }
