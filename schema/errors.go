package schema

import "fmt"

// FormatError is raised when a format string or key/value schema fails to
// compile (spec §7's BadFormatString): unknown type code, unmatched
// bracket, duplicate prefix, empty nested group, or a duplicate field name.
type FormatError struct {
	Pos int // rune offset into the source string, -1 if not applicable
	Msg string
}

func (e *FormatError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("bad format string: %s", e.Msg)
	}
	return fmt.Sprintf("bad format string at offset %d: %s", e.Pos, e.Msg)
}
