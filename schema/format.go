package schema

import "strconv"

// ParseFormat compiles a compact type-code string into an IR (C5, spec
// §4.5). Grammar, design-level:
//
//	format   := element*
//	element  := prefix* (type | '[' format ']') suffix?
//	prefix   := '*' | '+' | '#'
//	type     := one letter from the semantic-type table
//	suffix   := DIGIT+   ; repeats the preceding element this many times
//
// '*' marks the next field required, '+' marks it repeated (unpacked),
// '#' marks it packed-repeated. A numeric suffix after a type letter or a
// closing ']' expands into that many consecutive fields (or consecutive
// copies of the nested message), each consuming its own tag — UNLESS the
// element is repeated or packed ('+'/'#'), in which case the suffix
// instead records the expected element count on the single resulting
// repeated field (so `#T3` compiles to one packed field at tag 1 holding
// 3 elements, not three fields at tags 1-3). 'x' occupies a field slot
// but carries no value.
func ParseFormat(s string) (*IR, error) {
	p := &formatParser{input: []rune(s), tag: 1}
	fields, err := p.parseElements(false)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.input) {
		return nil, &FormatError{Pos: p.pos, Msg: "unmatched ']'"}
	}
	return &IR{Fields: fields, KVFormat: false}, nil
}

type formatParser struct {
	input []rune
	pos   int
	tag   int32
}

// parseElements parses a run of elements until it hits the matching ']'
// (when nested) or the end of input (top level).
func (p *formatParser) parseElements(nested bool) ([]*Field, error) {
	var fields []*Field
	for p.pos < len(p.input) {
		if p.input[p.pos] == ']' {
			if !nested {
				return nil, &FormatError{Pos: p.pos, Msg: "unmatched ']'"}
			}
			return fields, nil
		}
		elemFields, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		fields = append(fields, elemFields...)
	}
	if nested {
		return nil, &FormatError{Pos: p.pos, Msg: "unterminated '['"}
	}
	return fields, nil
}

// parseElement parses one prefix*+type/nested+suffix? group and returns
// the (possibly several, via suffix expansion) Field values it produces.
func (p *formatParser) parseElement() ([]*Field, error) {
	start := p.pos
	required, repeated, packed, err := p.parsePrefixes()
	if err != nil {
		return nil, err
	}

	if required && (repeated || packed) {
		return nil, &FormatError{Pos: start, Msg: "a field cannot be both required and repeated"}
	}

	if p.pos >= len(p.input) {
		return nil, &FormatError{Pos: p.pos, Msg: "expected a type code or '[' after prefix"}
	}

	if p.input[p.pos] == '[' {
		p.pos++ // consume '['
		// A nested message is its own independently tagged schema (spec
		// §4.5): its tag counter starts at 1 regardless of how many tags
		// the enclosing schema has already assigned.
		nested := &formatParser{input: p.input, pos: p.pos, tag: 1}
		nestedFields, err := nested.parseElements(true)
		if err != nil {
			return nil, err
		}
		p.pos = nested.pos
		if len(nestedFields) == 0 {
			return nil, &FormatError{Pos: p.pos, Msg: "empty nested message group"}
		}
		if p.pos >= len(p.input) || p.input[p.pos] != ']' {
			return nil, &FormatError{Pos: p.pos, Msg: "unterminated '['"}
		}
		p.pos++ // consume ']'
		nestedIR := &IR{Fields: nestedFields, KVFormat: false}

		count, err := p.parseSuffix()
		if err != nil {
			return nil, err
		}

		// A repeated/packed element's suffix counts expected elements of
		// one field, not additional tags.
		if repeated || packed {
			return []*Field{{
				Tag:         p.nextTag(),
				Type:        TypeNested,
				Required:    required,
				Repeated:    true,
				Packed:      packed,
				Nested:      nestedIR,
				PrefixCount: count,
			}}, nil
		}

		out := make([]*Field, 0, count)
		for i := 0; i < count; i++ {
			out = append(out, &Field{
				Tag:         p.nextTag(),
				Type:        TypeNested,
				Required:    required,
				Nested:      nestedIR,
				PrefixCount: count,
			})
		}
		return out, nil
	}

	code := Type(p.input[p.pos])
	if !IsValid(code) {
		return nil, &FormatError{Pos: p.pos, Msg: "unrecognized type code '" + string(p.input[p.pos]) + "'"}
	}
	p.pos++

	if code == TypePlaceholder && (required || repeated || packed) {
		return nil, &FormatError{Pos: start, Msg: "'x' cannot carry a cardinality prefix"}
	}
	if packed && !code.Packable() {
		return nil, &FormatError{Pos: start, Msg: "type '" + string(code) + "' cannot be packed"}
	}

	count, err := p.parseSuffix()
	if err != nil {
		return nil, err
	}

	// A repeated/packed element's suffix counts expected elements of one
	// field, not additional tags: `#T3` is one packed field at tag 1
	// holding 3 elements, not three fields at tags 1-3.
	if repeated || packed {
		return []*Field{{
			Tag:         p.nextTag(),
			Type:        code,
			Required:    required,
			Repeated:    true,
			Packed:      packed,
			PrefixCount: count,
		}}, nil
	}

	out := make([]*Field, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &Field{
			Tag:         p.nextTag(),
			Type:        code,
			Required:    required,
			PrefixCount: count,
		})
	}
	return out, nil
}

// parsePrefixes consumes a run of '*'/'+'/'#' prefix markers, rejecting
// duplicates of the same marker.
func (p *formatParser) parsePrefixes() (required, repeated, packed bool, err error) {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '*':
			if required {
				return false, false, false, &FormatError{Pos: p.pos, Msg: "duplicate '*' prefix"}
			}
			required = true
		case '+':
			if repeated {
				return false, false, false, &FormatError{Pos: p.pos, Msg: "duplicate '+' prefix"}
			}
			repeated = true
		case '#':
			if packed {
				return false, false, false, &FormatError{Pos: p.pos, Msg: "duplicate '#' prefix"}
			}
			packed = true
		default:
			return required, repeated, packed, nil
		}
		p.pos++
	}
	return required, repeated, packed, nil
}

// parseSuffix consumes an optional run of digits, returning the repeat
// count (1 if no digits are present).
func (p *formatParser) parseSuffix() (int, error) {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 1, nil
	}
	n, err := strconv.Atoi(string(p.input[start:p.pos]))
	if err != nil || n <= 0 {
		return 0, &FormatError{Pos: start, Msg: "invalid numeric suffix"}
	}
	return n, nil
}

func (p *formatParser) nextTag() int32 {
	t := p.tag
	p.tag++
	return t
}
