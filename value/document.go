package value

import "github.com/erbsland-dev/erbsland-conf-go/lexer"

// Document is the parse result of spec §3: a root Value (always
// DocumentRoot, a SectionWithNames variant with nothing above it) plus
// the document-level metadata gathered from its meta directives
// (`@version`, `@features`, `@signature`) and its source identity/digest.
type Document struct {
	*Value

	Version  string
	Features []string
	Source   lexer.SourceIdentifier

	// Signature is the decoded text of a leading "@signature: ..." line,
	// or "" if the document carried none.
	Signature string

	// Digest is the SHA3-256 digest accumulated over the document's
	// bytes, excluding a leading BOM and signature line (spec §4.8).
	// Nil if digesting was not requested for this parse.
	Digest []byte
}

// NewDocument wraps root (which must have Kind() == DocumentRoot) together
// with the metadata the parser collected while building it.
func NewDocument(root *Value, source lexer.SourceIdentifier) *Document {
	return &Document{Value: root, Source: source}
}

// HasFeature reports whether name appears in the document's declared
// `@features` list (spec §4.6), compared case-insensitively the same way
// a Regular name would be.
func (d *Document) HasFeature(name string) bool {
	folded := lexer.NormalizeRegularName(name)
	for _, f := range d.Features {
		if lexer.NormalizeRegularName(f) == folded {
			return true
		}
	}
	return false
}
