package schema

import "fmt"

// EntryKind distinguishes the three tuple arities a key/value schema
// entry may take (spec §4.6); these are the full surface, no other shapes
// are accepted.
type EntryKind int

const (
	// EntryScalar is (name, type_code): a scalar field, where type_code
	// may itself carry '*'/'+'/'#' prefixes in the format-string grammar.
	EntryScalar EntryKind = iota
	// EntryNested is (name, nested_schema): shorthand for an unprefixed
	// (scalar-cardinality) nested message.
	EntryNested
	// EntryNestedWithPrefix is (name, prefix_code, nested_schema): a
	// nested message with explicit cardinality.
	EntryNestedWithPrefix
)

// KVEntry is one entry of a key/value schema (spec §4.6, §6.3).
type KVEntry struct {
	Kind     EntryKind
	Name     string
	TypeCode string // EntryScalar
	Prefix   string // EntryNestedWithPrefix: one of "[", "*[", "+[", "#[", "+#[", "#+[", "*+[", "+*["
	Nested   *IR    // EntryNested, EntryNestedWithPrefix
}

// Scalar builds an (name, type_code) entry.
func Scalar(name, typeCode string) KVEntry {
	return KVEntry{Kind: EntryScalar, Name: name, TypeCode: typeCode}
}

// Nested builds an (name, nested_schema) entry — an unprefixed nested
// message field.
func Nested(name string, nested *IR) KVEntry {
	return KVEntry{Kind: EntryNested, Name: name, Nested: nested}
}

// NestedWithPrefix builds an (name, prefix_code, nested_schema) entry.
func NestedWithPrefix(name, prefix string, nested *IR) KVEntry {
	return KVEntry{Kind: EntryNestedWithPrefix, Name: name, Prefix: prefix, Nested: nested}
}

// CompileKV compiles a sequence of key/value entries into an IR (C6,
// spec §4.6). Each entry consumes exactly one tag slot; names must be
// unique within the schema.
func CompileKV(entries []KVEntry) (*IR, error) {
	fields := make([]*Field, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	var tag int32 = 1

	for _, entry := range entries {
		if entry.Name == "" {
			return nil, &FormatError{Pos: -1, Msg: "key/value entry must have a non-empty name"}
		}
		if seen[entry.Name] {
			return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("duplicate field name %q", entry.Name)}
		}
		seen[entry.Name] = true

		var field *Field
		var err error
		switch entry.Kind {
		case EntryScalar:
			field, err = compileScalarEntry(entry)
		case EntryNested:
			field = &Field{Name: entry.Name, Type: TypeNested, Nested: entry.Nested, PrefixCount: 1}
		case EntryNestedWithPrefix:
			field, err = compileNestedPrefixEntry(entry)
		default:
			err = &FormatError{Pos: -1, Msg: "unrecognized key/value entry kind"}
		}
		if err != nil {
			return nil, err
		}
		if field.Type == TypeNested && (field.Nested == nil || len(field.Nested.Fields) == 0) {
			return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: nested field must carry a non-empty schema", entry.Name)}
		}

		field.Name = entry.Name
		field.Tag = tag
		tag++
		fields = append(fields, field)
	}

	return &IR{Fields: fields, KVFormat: true}, nil
}

// compileScalarEntry parses a type_code using the same grammar element
// parser as format strings, requiring it to expand into exactly one field
// (a named entry cannot fan out into several tags under one name).
func compileScalarEntry(entry KVEntry) (*Field, error) {
	p := &formatParser{input: []rune(entry.TypeCode), tag: 1}
	parsed, err := p.parseElement()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.input) {
		return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: trailing characters in type code %q", entry.Name, entry.TypeCode)}
	}
	if len(parsed) != 1 {
		return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: a key/value entry cannot use a numeric suffix expanding to multiple fields", entry.Name)}
	}
	f := parsed[0]
	f.PrefixCount = 1
	return f, nil
}

// compileNestedPrefixEntry parses the explicit cardinality prefix code of
// an (name, prefix_code, nested_schema) entry: "[", "*[", "+[", "#[", or
// the packed-repeated equivalents "+#[" / "#+[" (also accepted in the
// "*+[" / "+*[" spelling some schemas use — treated identically to "#["
// since '+' and '#' both mark Repeated and '#' additionally marks Packed;
// see DESIGN.md for this Open Question decision). Any other combination
// of '*' with a repeated marker (such as "*#[") is rejected: required
// and repeated remain mutually exclusive.
func compileNestedPrefixEntry(entry KVEntry) (*Field, error) {
	prefix := entry.Prefix
	if prefix == "*+[" || prefix == "+*[" {
		prefix = "#["
	}
	var required, repeatedPlus, packedHash bool
	for _, r := range prefix {
		switch r {
		case '*':
			if required {
				return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: duplicate '*' prefix", entry.Name)}
			}
			required = true
		case '+':
			if repeatedPlus {
				return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: duplicate '+' prefix", entry.Name)}
			}
			repeatedPlus = true
		case '#':
			if packedHash {
				return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: duplicate '#' prefix", entry.Name)}
			}
			packedHash = true
		case '[':
			// marks the start of the nested schema; nothing more to parse.
		default:
			return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: unrecognized nested prefix code %q", entry.Name, entry.Prefix)}
		}
	}

	repeated := repeatedPlus || packedHash
	if required && repeated {
		return nil, &FormatError{Pos: -1, Msg: fmt.Sprintf("field %q: a field cannot be both required and repeated", entry.Name)}
	}

	// Nested messages are never packed (spec §3.3: Packed implies a
	// scalar varint/fixed/bool type) — '#' on a nested entry is just an
	// alternate repeated marker, equivalent to '+' here.
	return &Field{
		Type:        TypeNested,
		Required:    required,
		Repeated:    repeated,
		Packed:      false,
		Nested:      entry.Nested,
		PrefixCount: 1,
	}, nil
}
