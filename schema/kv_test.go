package schema

import "testing"

func TestCompileKVScalar(t *testing.T) {
	ir, err := CompileKV([]KVEntry{
		Scalar("name", "*U"),
		Scalar("age", "T"),
	})
	if err != nil {
		t.Fatalf("CompileKV: %v", err)
	}
	if len(ir.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(ir.Fields))
	}
	if ir.Fields[0].Name != "name" || !ir.Fields[0].Required || ir.Fields[0].Tag != 1 {
		t.Fatalf("field 0: got %+v", ir.Fields[0])
	}
	if ir.Fields[1].Name != "age" || ir.Fields[1].Tag != 2 {
		t.Fatalf("field 1: got %+v", ir.Fields[1])
	}
	if !ir.KVFormat {
		t.Fatal("expected KVFormat=true")
	}
}

func TestCompileKVNested(t *testing.T) {
	inner, err := CompileKV([]KVEntry{Scalar("x", "T")})
	if err != nil {
		t.Fatalf("CompileKV inner: %v", err)
	}
	ir, err := CompileKV([]KVEntry{
		Nested("point", inner),
	})
	if err != nil {
		t.Fatalf("CompileKV: %v", err)
	}
	if !ir.Fields[0].IsNested() || ir.Fields[0].Nested != inner {
		t.Fatalf("got %+v", ir.Fields[0])
	}
	if ir.Fields[0].Required || ir.Fields[0].Repeated || ir.Fields[0].Packed {
		t.Fatalf("unprefixed nested entry should be scalar cardinality, got %+v", ir.Fields[0])
	}
}

func TestCompileKVNestedWithPrefix(t *testing.T) {
	inner, err := CompileKV([]KVEntry{Scalar("x", "T")})
	if err != nil {
		t.Fatalf("CompileKV inner: %v", err)
	}
	ir, err := CompileKV([]KVEntry{
		NestedWithPrefix("points", "+[", inner),
	})
	if err != nil {
		t.Fatalf("CompileKV: %v", err)
	}
	f := ir.Fields[0]
	if !f.Repeated || f.Packed {
		t.Fatalf("expected Repeated=true, Packed=false, got %+v", f)
	}
}

func TestCompileKVNestedHashPrefixIsNeverPacked(t *testing.T) {
	inner, err := CompileKV([]KVEntry{Scalar("x", "T")})
	if err != nil {
		t.Fatalf("CompileKV inner: %v", err)
	}
	ir, err := CompileKV([]KVEntry{
		NestedWithPrefix("points", "#[", inner),
	})
	if err != nil {
		t.Fatalf("CompileKV: %v", err)
	}
	f := ir.Fields[0]
	if !f.Repeated || f.Packed {
		t.Fatalf("nested message fields must never be packed, got %+v", f)
	}
}

func TestCompileKVRejectsDuplicateNames(t *testing.T) {
	_, err := CompileKV([]KVEntry{
		Scalar("name", "U"),
		Scalar("name", "T"),
	})
	if err == nil {
		t.Fatal("expected an error for a duplicate field name")
	}
}

func TestCompileKVRejectsEmptyName(t *testing.T) {
	_, err := CompileKV([]KVEntry{Scalar("", "U")})
	if err == nil {
		t.Fatal("expected an error for an empty field name")
	}
}

func TestCompileKVRejectsMultiFieldTypeCode(t *testing.T) {
	_, err := CompileKV([]KVEntry{Scalar("xs", "T3")})
	if err == nil {
		t.Fatal("expected an error: a kv entry cannot fan out into multiple tags")
	}
}

func TestCompileKVRejectsRequiredAndRepeatedNested(t *testing.T) {
	inner, err := CompileKV([]KVEntry{Scalar("x", "T")})
	if err != nil {
		t.Fatalf("CompileKV inner: %v", err)
	}
	_, err = CompileKV([]KVEntry{NestedWithPrefix("p", "*#[", inner)})
	if err == nil {
		t.Fatal("expected an error for a required+repeated nested field")
	}
}
