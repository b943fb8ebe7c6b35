package sign

import (
	"fmt"
	"strings"
)

// escapeText renders s as the body of a double-quoted text literal,
// using the same escape vocabulary the lexer decodes (spec §4.4):
// `\"`, `\\`, `\$`, `\n`, `\r`, `\t`, and `\u{...}` for everything else
// that is not printable ASCII.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '$':
			b.WriteString(`\$`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r >= 0x20 && r < 0x7f {
				b.WriteRune(r)
			} else {
				fmt.Fprintf(&b, `\u{%x}`, r)
			}
		}
	}
	return b.String()
}
