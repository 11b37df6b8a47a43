package codec

import (
	"fmt"

	"github.com/dogtopus/minipb/schema"
	"github.com/dogtopus/minipb/wire"
)

// Options controls the shape of a schema-driven decode (spec §4.8, §9).
type Options struct {
	// AllowSparseDict, for a KVFormat schema, omits absent optional fields
	// from the output map instead of filling them with a nil sentinel.
	AllowSparseDict bool
}

// fieldState accumulates what Decode has seen for one field while walking
// the wire stream: set distinguishes "field never appeared" from "field
// appeared with a zero value", and values holds every occurrence in
// arrival order (a single entry for a non-repeated field, since later
// occurrences overwrite it — last value wins).
type fieldState struct {
	set    bool
	values []interface{}
}

// Decode parses data against ir, producing a map[string]interface{} (for a
// KVFormat schema) or a []interface{} (for a positional schema) (C8, spec
// §4.8). Required fields missing at the end of input fail with
// RequiredFieldMissing; an unrecognized tag fails with UnknownField;
// truncated input fails with *wire.EndOfMessageError.
func Decode(ir *schema.IR, data []byte, opts Options) (interface{}, error) {
	d := wire.NewDecoder(data)
	states := make(map[int32]*fieldState, len(ir.Fields))
	width := ir.BitWidth()

	for !d.Done() {
		fieldNumber, wireType, err := d.DecodeTag()
		if err != nil {
			return nil, err
		}

		f := ir.FieldByTag(int32(fieldNumber))
		if f == nil {
			return nil, wire.NewCodecError(wire.UnknownField, fmt.Sprintf("tag %d", fieldNumber))
		}

		st := states[f.Tag]
		if st == nil {
			st = &fieldState{}
			states[f.Tag] = st
		}

		values, err := decodeOccurrence(d, f, wireType, width)
		if err != nil {
			label := f.Name
			if label == "" {
				label = fmt.Sprintf("tag %d", f.Tag)
			}
			return nil, wire.WrapWithField(forcePartial(err), label)
		}

		if f.Repeated {
			st.values = append(st.values, values...)
		} else if len(values) > 0 {
			// last value wins (spec §9, Open Question decision)
			st.values = values
		}
		st.set = true
	}

	for _, f := range ir.Fields {
		if f.Required {
			st := states[f.Tag]
			if st == nil || !st.set || len(st.values) == 0 {
				label := f.Name
				if label == "" {
					label = fmt.Sprintf("tag %d", f.Tag)
				}
				return nil, wire.WrapWithField(wire.NewCodecError(wire.RequiredFieldMissing, ""), label)
			}
		}
	}

	return materialize(ir, states, opts), nil
}

// decodeOccurrence decodes one wire-stream occurrence of field f (already
// tag-matched), returning the one or more logical values it represents: a
// packed run yields many, anything else yields exactly one (or zero for an
// 'x' placeholder, whose value on the wire is skipped).
func decodeOccurrence(d *wire.Decoder, f *schema.Field, wireType wire.WireType, width int) ([]interface{}, error) {
	if f.IsPlaceholder() {
		if err := d.SkipValue(wireType); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if f.IsNested() {
		if wireType != wire.WireBytes {
			return nil, wire.NewCodecError(wire.WireTypeMismatch, "nested message field must be length-delimited")
		}
		raw, err := wire.NewBytesDecoder(d).DecodeBytes()
		if err != nil {
			return nil, err
		}
		v, err := Decode(f.Nested, raw, Options{})
		if err != nil {
			return nil, err
		}
		return []interface{}{v}, nil
	}

	expected, _ := f.Type.WireType()

	// Packed/unpacked interoperability (spec §4.8, point 6): a repeated
	// scalar field accepts a packed run on the wire regardless of how it
	// was declared, and a single unpacked occurrence regardless of
	// whether it was declared packed.
	if f.Repeated && wireType == wire.WireBytes && expected != wire.WireBytes {
		return decodePackedRun(d, f, width)
	}

	if wireType != expected {
		return nil, wire.NewCodecError(wire.WireTypeMismatch, fmt.Sprintf("field expects wire type %d, got %d", expected, wireType))
	}

	v, err := decodeScalar(d, f, width)
	if err != nil {
		return nil, err
	}
	return []interface{}{v}, nil
}

// decodePackedRun consumes one length-delimited blob and splits it into a
// sequence of scalar values of f's type.
func decodePackedRun(d *wire.Decoder, f *schema.Field, width int) ([]interface{}, error) {
	raw, err := wire.NewBytesDecoder(d).DecodeBytes()
	if err != nil {
		return nil, err
	}
	sub := wire.NewDecoder(raw)
	var out []interface{}
	for !sub.Done() {
		v, err := decodeScalar(sub, f, width)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeScalar decodes one value of f's semantic type from the current
// cursor position, with no tag involved.
func decodeScalar(d *wire.Decoder, f *schema.Field, width int) (interface{}, error) {
	switch f.Type {
	case schema.TypeSFixed32, schema.TypeSFixed32Alt:
		return wire.NewFixedDecoder(d).DecodeSfixed32()
	case schema.TypeFixed32, schema.TypeFixed32Alt:
		return wire.NewFixedDecoder(d).DecodeFixed32()
	case schema.TypeSFixed64:
		return wire.NewFixedDecoder(d).DecodeSfixed64()
	case schema.TypeFixed64:
		return wire.NewFixedDecoder(d).DecodeFixed64()
	case schema.TypeFloat32:
		return wire.NewFixedDecoder(d).DecodeFloat32()
	case schema.TypeFloat64:
		return wire.NewFixedDecoder(d).DecodeFloat64()
	case schema.TypeBytes:
		return wire.NewBytesDecoder(d).DecodeBytes()
	case schema.TypeString:
		return wire.NewBytesDecoder(d).DecodeString()
	case schema.TypeBool:
		return wire.NewVarintDecoder(d).DecodeBool()
	case schema.TypeTwosComp:
		return wire.NewVarintDecoder(d).DecodeTwosComplement(width)
	case schema.TypeUvarintT, schema.TypeUvarintV:
		return wire.NewVarintDecoder(d).DecodeVarint()
	case schema.TypeZigZagZ, schema.TypeZigZagV:
		return wire.NewVarintDecoder(d).DecodeSint64()
	default:
		return nil, wire.NewCodecError(wire.WireTypeMismatch, fmt.Sprintf("unsupported scalar type %q", rune(f.Type)))
	}
}

// materialize builds the output payload shape from accumulated field
// states: a named map for a KVFormat schema, a positional slice otherwise.
func materialize(ir *schema.IR, states map[int32]*fieldState, opts Options) interface{} {
	if ir.KVFormat {
		out := make(map[string]interface{}, len(ir.Fields))
		for _, f := range ir.Fields {
			if f.IsPlaceholder() {
				continue
			}
			st := states[f.Tag]
			switch {
			case f.Repeated:
				if st == nil {
					out[f.Name] = []interface{}{}
				} else {
					out[f.Name] = st.values
				}
			case st != nil && st.set && len(st.values) > 0:
				out[f.Name] = st.values[0]
			case !opts.AllowSparseDict:
				out[f.Name] = nil
			}
		}
		return out
	}

	out := make([]interface{}, len(ir.Fields))
	for i, f := range ir.Fields {
		if f.IsPlaceholder() {
			continue
		}
		st := states[f.Tag]
		switch {
		case f.Repeated:
			if st == nil {
				out[i] = []interface{}{}
			} else {
				out[i] = st.values
			}
		case st != nil && st.set && len(st.values) > 0:
			out[i] = st.values[0]
		default:
			out[i] = nil
		}
	}
	return out
}

// forcePartial marks an *wire.EndOfMessageError as Partial: once a field's
// tag has been consumed, any truncation while reading its value is by
// definition past the last complete record boundary.
func forcePartial(err error) error {
	if eom, ok := err.(*wire.EndOfMessageError); ok {
		return &wire.EndOfMessageError{Partial: true, Msg: eom.Msg}
	}
	return err
}
