package codec

import (
	"reflect"
	"testing"

	"github.com/dogtopus/minipb/schema"
	"github.com/dogtopus/minipb/wire"
)

func mustFormat(t *testing.T, s string) *schema.IR {
	t.Helper()
	ir, err := schema.ParseFormat(s)
	if err != nil {
		t.Fatalf("ParseFormat(%q): %v", s, err)
	}
	return ir
}

func TestEncodeDecodePositionalScalar(t *testing.T) {
	ir := mustFormat(t, "*Ua")
	payload := []interface{}{"hello", []byte{1, 2, 3}}

	encoded, err := Encode(ir, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(ir, encoded, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, payload) {
		t.Fatalf("round trip mismatch: got %#v, want %#v", decoded, payload)
	}
}

func TestEncodeRequiredFieldMissing(t *testing.T) {
	ir := mustFormat(t, "*U")
	_, err := Encode(ir, []interface{}{nil})
	if err == nil {
		t.Fatal("expected an error for a missing required field")
	}
	var ce *wire.CodecError
	if fe, ok := err.(*wire.FieldError); ok {
		ce, _ = fe.Err.(*wire.CodecError)
	}
	if ce == nil || ce.Kind != wire.RequiredFieldMissing {
		t.Fatalf("expected RequiredFieldMissing, got %v", err)
	}
}

func TestDecodeRequiredFieldMissing(t *testing.T) {
	ir := mustFormat(t, "*UU")
	payload := []interface{}{nil, "present"}
	// Bypass Encode's required-field check by hand-encoding only field 2.
	e := wire.NewEncoder()
	e.EncodeTag(2, wire.WireBytes)
	e.EncodeString("present")
	_ = payload

	_, err := Decode(ir, e.Bytes(), Options{})
	if err == nil {
		t.Fatal("expected RequiredFieldMissing")
	}
}

func TestUnknownFieldIsAnError(t *testing.T) {
	ir := mustFormat(t, "U")
	e := wire.NewEncoder()
	e.EncodeTag(7, wire.WireBytes)
	e.EncodeString("surprise")

	_, err := Decode(ir, e.Bytes(), Options{})
	if err == nil {
		t.Fatal("expected an UnknownField error")
	}
}

func TestPackedUnpackedInterop(t *testing.T) {
	packedIR := mustFormat(t, "#T")
	unpackedIR := mustFormat(t, "+T")

	// Encode as packed, decode with a schema that declares it unpacked.
	encoded, err := Encode(packedIR, []interface{}{[]interface{}{uint64(1), uint64(2), uint64(3)}})
	if err != nil {
		t.Fatalf("Encode packed: %v", err)
	}
	decoded, err := Decode(unpackedIR, encoded, Options{})
	if err != nil {
		t.Fatalf("Decode via unpacked schema: %v", err)
	}
	want := []interface{}{[]interface{}{uint64(1), uint64(2), uint64(3)}}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("got %#v, want %#v", decoded, want)
	}

	// Encode as unpacked, decode with a schema that declares it packed.
	encoded2, err := Encode(unpackedIR, []interface{}{[]interface{}{uint64(4), uint64(5)}})
	if err != nil {
		t.Fatalf("Encode unpacked: %v", err)
	}
	decoded2, err := Decode(packedIR, encoded2, Options{})
	if err != nil {
		t.Fatalf("Decode via packed schema: %v", err)
	}
	want2 := []interface{}{[]interface{}{uint64(4), uint64(5)}}
	if !reflect.DeepEqual(decoded2, want2) {
		t.Fatalf("got %#v, want %#v", decoded2, want2)
	}
}

func TestLastValueWins(t *testing.T) {
	ir := mustFormat(t, "T")
	e := wire.NewEncoder()
	e.EncodeTag(1, wire.WireVarint)
	wire.NewVarintEncoder(e).EncodeVarint(10)
	e.EncodeTag(1, wire.WireVarint)
	wire.NewVarintEncoder(e).EncodeVarint(20)

	decoded, err := Decode(ir, e.Bytes(), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []interface{}{uint64(20)}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("got %#v, want %#v", decoded, want)
	}
}

func TestNestedMessageRoundTrip(t *testing.T) {
	ir := mustFormat(t, "*[Ud]")
	inner := []interface{}{"leaf", 3.5}
	payload := []interface{}{inner}

	encoded, err := Encode(ir, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(ir, encoded, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, payload) {
		t.Fatalf("got %#v, want %#v", decoded, payload)
	}
}

func TestKVSchemaRoundTrip(t *testing.T) {
	ir, err := schema.CompileKV([]schema.KVEntry{
		schema.Scalar("name", "U"),
		schema.Scalar("age", "T"),
	})
	if err != nil {
		t.Fatalf("CompileKV: %v", err)
	}

	payload := map[string]interface{}{"name": "ada", "age": uint64(36)}
	encoded, err := Encode(ir, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(ir, encoded, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, payload) {
		t.Fatalf("got %#v, want %#v", decoded, payload)
	}
}

func TestSparseDictOmitsAbsentOptionalFields(t *testing.T) {
	ir, err := schema.CompileKV([]schema.KVEntry{
		schema.Scalar("name", "U"),
		schema.Scalar("nickname", "U"),
	})
	if err != nil {
		t.Fatalf("CompileKV: %v", err)
	}

	encoded, err := Encode(ir, map[string]interface{}{"name": "ada"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	sparse, err := Decode(ir, encoded, Options{AllowSparseDict: true})
	if err != nil {
		t.Fatalf("Decode (sparse): %v", err)
	}
	m := sparse.(map[string]interface{})
	if _, present := m["nickname"]; present {
		t.Fatalf("expected nickname to be absent in sparse mode, got %#v", m)
	}

	full, err := Decode(ir, encoded, Options{AllowSparseDict: false})
	if err != nil {
		t.Fatalf("Decode (full): %v", err)
	}
	m2 := full.(map[string]interface{})
	if v, present := m2["nickname"]; !present || v != nil {
		t.Fatalf("expected nickname present with nil sentinel, got %#v (present=%v)", v, present)
	}
}

func TestTwosComplementWidth(t *testing.T) {
	ir := mustFormat(t, "t")
	ir.TwosComplementWidth = 8

	encoded, err := Encode(ir, []interface{}{int64(-1)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(ir, encoded, Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []interface{}{int64(-1)}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("got %#v, want %#v", decoded, want)
	}
}

func TestTruncatedInputIsEndOfMessage(t *testing.T) {
	ir := mustFormat(t, "U")
	e := wire.NewEncoder()
	e.EncodeTag(1, wire.WireBytes)
	e.EncodeString("hello world")
	truncated := e.Bytes()[:len(e.Bytes())-3]

	_, err := Decode(ir, truncated, Options{})
	if fe, ok := err.(*wire.FieldError); ok {
		err = fe.Err
	}
	eom, ok := err.(*wire.EndOfMessageError)
	if !ok {
		t.Fatalf("expected *wire.EndOfMessageError, got %T: %v", err, err)
	}
	if !eom.Partial {
		t.Fatalf("expected Partial=true, got %#v", eom)
	}
}
