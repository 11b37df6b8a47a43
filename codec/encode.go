package codec

import (
	"fmt"

	"github.com/dogtopus/minipb/schema"
	"github.com/dogtopus/minipb/wire"
)

// Encode walks ir's fields in declared order against payload, producing the
// encoded message bytes (C7, spec §4.7). For a KVFormat schema, payload
// must be a map[string]interface{} keyed by field name; missing keys are
// treated as absent. For a positional (format-string) schema, payload must
// be a []interface{} with exactly len(ir.Fields) entries; a nil entry marks
// a missing optional/repeated field.
func Encode(ir *schema.IR, payload interface{}) ([]byte, error) {
	e := wire.NewEncoder()
	width := ir.BitWidth()
	if ir.KVFormat {
		m, ok := payload.(map[string]interface{})
		if !ok {
			return nil, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected a map[string]interface{} payload for a key/value schema, got %T", payload))
		}
		for _, f := range ir.Fields {
			v, present := m[f.Name]
			if err := encodeField(e, f, v, present, width); err != nil {
				return nil, wire.WrapWithField(err, f.Name)
			}
		}
		return e.Bytes(), nil
	}

	s, ok := payload.([]interface{})
	if !ok {
		return nil, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected a []interface{} payload for a format-string schema, got %T", payload))
	}
	if len(s) != len(ir.Fields) {
		return nil, wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("payload has %d entries, schema has %d fields", len(s), len(ir.Fields)))
	}
	for i, f := range ir.Fields {
		v := s[i]
		present := v != nil
		if err := encodeField(e, f, v, present, width); err != nil {
			return nil, wire.WrapWithField(err, fmt.Sprintf("tag %d", f.Tag))
		}
	}
	return e.Bytes(), nil
}

func encodeField(e *wire.Encoder, f *schema.Field, v interface{}, present bool, width int) error {
	if f.IsPlaceholder() {
		if present {
			return wire.NewCodecError(wire.ValueOutOfRange, "'x' field must not carry a value")
		}
		return nil
	}

	if !present {
		if f.Required {
			return wire.NewCodecError(wire.RequiredFieldMissing, "")
		}
		return nil
	}

	if f.Repeated {
		elems, ok := v.([]interface{})
		if !ok {
			return wire.NewCodecError(wire.ValueOutOfRange, fmt.Sprintf("expected a []interface{} for a repeated field, got %T", v))
		}
		if f.IsNested() {
			for _, elem := range elems {
				sub, err := Encode(f.Nested, elem)
				if err != nil {
					return err
				}
				e.EncodeTag(wire.FieldNumber(f.Tag), wire.WireBytes)
				e.EncodeBytes(sub)
			}
			return nil
		}
		if f.Packed {
			scratch := wire.NewEncoder()
			for _, elem := range elems {
				if err := encodeScalar(scratch, f, elem, width); err != nil {
					return err
				}
			}
			e.EncodeTag(wire.FieldNumber(f.Tag), wire.WireBytes)
			e.EncodeBytes(scratch.Bytes())
			return nil
		}
		wt, _ := f.Type.WireType()
		for _, elem := range elems {
			e.EncodeTag(wire.FieldNumber(f.Tag), wt)
			if err := encodeScalar(e, f, elem, width); err != nil {
				return err
			}
		}
		return nil
	}

	if f.IsNested() {
		sub, err := Encode(f.Nested, v)
		if err != nil {
			return err
		}
		e.EncodeTag(wire.FieldNumber(f.Tag), wire.WireBytes)
		e.EncodeBytes(sub)
		return nil
	}

	wt, _ := f.Type.WireType()
	e.EncodeTag(wire.FieldNumber(f.Tag), wt)
	return encodeScalar(e, f, v, width)
}

// encodeScalar appends the wire encoding of one scalar value to e, with no
// tag of its own — callers emit the tag (or, for a packed run, nothing at
// all) around the call. width is the schema's configured two's-complement
// bit width, used only by the 't' type.
func encodeScalar(e *wire.Encoder, f *schema.Field, v interface{}, width int) error {
	switch f.Type {
	case schema.TypeSFixed32, schema.TypeSFixed32Alt:
		i, err := toInt32(v)
		if err != nil {
			return err
		}
		return wire.NewFixedEncoder(e).EncodeSfixed32(i)
	case schema.TypeFixed32, schema.TypeFixed32Alt:
		u, err := toUint32(v)
		if err != nil {
			return err
		}
		return wire.NewFixedEncoder(e).EncodeFixed32(u)
	case schema.TypeSFixed64:
		i, err := toInt64(v)
		if err != nil {
			return err
		}
		return wire.NewFixedEncoder(e).EncodeSfixed64(i)
	case schema.TypeFixed64:
		u, err := toUint64(v)
		if err != nil {
			return err
		}
		return wire.NewFixedEncoder(e).EncodeFixed64(u)
	case schema.TypeFloat32:
		fv, err := toFloat32(v)
		if err != nil {
			return err
		}
		return wire.NewFixedEncoder(e).EncodeFloat32(fv)
	case schema.TypeFloat64:
		fv, err := toFloat64(v)
		if err != nil {
			return err
		}
		return wire.NewFixedEncoder(e).EncodeFloat64(fv)
	case schema.TypeBytes:
		b, err := toBytes(v)
		if err != nil {
			return err
		}
		wire.NewBytesEncoder(e).EncodeBytes(b)
		return nil
	case schema.TypeString:
		s, err := toString(v)
		if err != nil {
			return err
		}
		wire.NewBytesEncoder(e).EncodeString(s)
		return nil
	case schema.TypeBool:
		b, err := toBool(v)
		if err != nil {
			return err
		}
		wire.NewVarintEncoder(e).EncodeBool(b)
		return nil
	case schema.TypeTwosComp:
		i, err := toInt64(v)
		if err != nil {
			return err
		}
		wire.NewVarintEncoder(e).EncodeTwosComplement(i, width)
		return nil
	case schema.TypeUvarintT, schema.TypeUvarintV:
		u, err := toUint64(v)
		if err != nil {
			return err
		}
		wire.NewVarintEncoder(e).EncodeVarint(u)
		return nil
	case schema.TypeZigZagZ, schema.TypeZigZagV:
		i, err := toInt64(v)
		if err != nil {
			return err
		}
		wire.NewVarintEncoder(e).EncodeSint64(i)
		return nil
	default:
		return wire.NewCodecError(wire.WireTypeMismatch, fmt.Sprintf("unsupported scalar type %q", rune(f.Type)))
	}
}
