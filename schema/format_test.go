package schema

import "testing"

func TestParseFormatSimple(t *testing.T) {
	ir, err := ParseFormat("*U*tU+[*Ut]")
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	// *U, *t, U, +[...] -> 4 top-level fields, tags 1..4
	if len(ir.Fields) != 4 {
		t.Fatalf("got %d fields, want 4", len(ir.Fields))
	}
	if !ir.Fields[0].Required || ir.Fields[0].Type != TypeString {
		t.Fatalf("field 0: got %+v", ir.Fields[0])
	}
	if !ir.Fields[1].Required || ir.Fields[1].Type != TypeTwosComp {
		t.Fatalf("field 1: got %+v", ir.Fields[1])
	}
	if ir.Fields[2].Required || ir.Fields[2].Type != TypeString {
		t.Fatalf("field 2: got %+v", ir.Fields[2])
	}
	last := ir.Fields[3]
	if !last.Repeated || !last.IsNested() {
		t.Fatalf("field 3: got %+v", last)
	}
	if len(last.Nested.Fields) != 2 {
		t.Fatalf("nested: got %d fields, want 2", len(last.Nested.Fields))
	}
	for i, ft := range ir.Fields {
		if ft.Tag != int32(i+1) {
			t.Fatalf("field %d: tag %d, want %d", i, ft.Tag, i+1)
		}
	}
}

func TestParseFormatNumericSuffixExpansion(t *testing.T) {
	ir, err := ParseFormat("T3U")
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if len(ir.Fields) != 4 {
		t.Fatalf("got %d fields, want 4 (3 uvarint + 1 string)", len(ir.Fields))
	}
	for i := 0; i < 3; i++ {
		if ir.Fields[i].Type != TypeUvarintT {
			t.Fatalf("field %d: got type %q, want uvarint", i, ir.Fields[i].Type)
		}
		if ir.Fields[i].Tag != int32(i+1) {
			t.Fatalf("field %d: tag %d, want %d", i, ir.Fields[i].Tag, i+1)
		}
	}
	if ir.Fields[3].Type != TypeString || ir.Fields[3].Tag != 4 {
		t.Fatalf("field 3: got %+v", ir.Fields[3])
	}
}

func TestParseFormatPackedSuffixIsOneFieldNotMultipleTags(t *testing.T) {
	ir, err := ParseFormat("#T3")
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if len(ir.Fields) != 1 {
		t.Fatalf("got %d fields, want 1 (#T3 is one packed field)", len(ir.Fields))
	}
	f := ir.Fields[0]
	if f.Tag != 1 || !f.Repeated || !f.Packed || f.PrefixCount != 3 {
		t.Fatalf("got %+v", f)
	}
}

func TestParseFormatRepeatedSuffixIsOneFieldNotMultipleTags(t *testing.T) {
	ir, err := ParseFormat("+U2")
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if len(ir.Fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(ir.Fields))
	}
	f := ir.Fields[0]
	if f.Tag != 1 || !f.Repeated || f.Packed || f.PrefixCount != 2 {
		t.Fatalf("got %+v", f)
	}
}

func TestParseFormatNestedSuffixSharesSchema(t *testing.T) {
	ir, err := ParseFormat("[U]2")
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if len(ir.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(ir.Fields))
	}
	if ir.Fields[0].Nested != ir.Fields[1].Nested {
		t.Fatal("expected both expanded copies to share one nested IR")
	}
}

func TestParseFormatPlaceholder(t *testing.T) {
	ir, err := ParseFormat("UxU")
	if err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if len(ir.Fields) != 3 {
		t.Fatalf("got %d fields, want 3", len(ir.Fields))
	}
	if !ir.Fields[1].IsPlaceholder() {
		t.Fatalf("field 1: expected placeholder, got %+v", ir.Fields[1])
	}
	if ir.Fields[1].Tag != 2 {
		t.Fatalf("placeholder should still consume a tag slot, got %d", ir.Fields[1].Tag)
	}
}

func TestParseFormatRejectsRequiredAndRepeated(t *testing.T) {
	if _, err := ParseFormat("*+U"); err == nil {
		t.Fatal("expected an error for a required+repeated field")
	}
}

func TestParseFormatRejectsDuplicatePrefix(t *testing.T) {
	if _, err := ParseFormat("**U"); err == nil {
		t.Fatal("expected an error for a duplicate '*' prefix")
	}
}

func TestParseFormatRejectsUnknownTypeCode(t *testing.T) {
	if _, err := ParseFormat("?"); err == nil {
		t.Fatal("expected an error for an unrecognized type code")
	}
}

func TestParseFormatRejectsUnterminatedBracket(t *testing.T) {
	if _, err := ParseFormat("[U"); err == nil {
		t.Fatal("expected an error for an unterminated '['")
	}
}

func TestParseFormatRejectsUnmatchedCloseBracket(t *testing.T) {
	if _, err := ParseFormat("U]"); err == nil {
		t.Fatal("expected an error for an unmatched ']'")
	}
}

func TestParseFormatRejectsEmptyNestedGroup(t *testing.T) {
	if _, err := ParseFormat("[]"); err == nil {
		t.Fatal("expected an error for an empty nested message group")
	}
}

func TestParseFormatRejectsPackedBytes(t *testing.T) {
	if _, err := ParseFormat("#a"); err == nil {
		t.Fatal("expected an error packing a bytes field")
	}
}

func TestParseFormatRejectsPlaceholderWithPrefix(t *testing.T) {
	if _, err := ParseFormat("*x"); err == nil {
		t.Fatal("expected an error for a prefixed 'x' placeholder")
	}
}
