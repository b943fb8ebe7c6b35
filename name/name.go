// Package name implements the four Name variants and name-path text form
// of spec §3 and §6.2: Regular, Text, Index, and TextIndex names, joined
// into an immutable NamePath used to address values in a Document.
package name

import (
	"strconv"
	"strings"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

// Kind distinguishes the four Name variants (spec §3).
type Kind int

const (
	Regular Kind = iota
	Text
	Index
	TextIndex
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "Regular"
	case Text:
		return "Text"
	case Index:
		return "Index"
	case TextIndex:
		return "TextIndex"
	}
	return "Unknown"
}

// Name is one path element: a normalised regular word, a raw text literal,
// a numeric index, or a text-indexed slot. Exactly one of Word/Text/Idx is
// meaningful, selected by Kind.
type Name struct {
	kind Kind
	word string // normalised, for Regular
	text string // raw, for Text
	idx  uint32 // for Index and TextIndex
}

// NewRegular builds a Regular name from raw source text, normalising it
// (lowercase, space→underscore) and enforcing spec §3's word-separator
// rules.
func NewRegular(raw string) (Name, error) {
	if err := lexer.ValidateRegularName(raw, lexer.Location{}); err != nil {
		return Name{}, err
	}
	return Name{kind: Regular, word: lexer.NormalizeRegularName(raw)}, nil
}

// NewText builds a Text name from its decoded (unescaped) content.
func NewText(text string) Name {
	return Name{kind: Text, text: text}
}

// NewIndex builds an Index name addressing the element at position idx in
// an ordered list.
func NewIndex(idx uint32) Name {
	return Name{kind: Index, idx: idx}
}

// NewTextIndex builds a TextIndex name disambiguating the idx'th value
// stored under a preceding Text name (spec §3: "Text(raw_string)" entries
// that repeat are addressed by a following TextIndex element).
func NewTextIndex(idx uint32) Name {
	return Name{kind: TextIndex, idx: idx}
}

func (n Name) Kind() Kind { return n.kind }

// Word returns the normalised word of a Regular name; "" otherwise.
func (n Name) Word() string { return n.word }

// Text returns the raw content of a Text name; "" otherwise.
func (n Name) Text() string { return n.text }

// Index returns the numeric slot of an Index/TextIndex name; 0 otherwise.
func (n Name) Index() uint32 { return n.idx }

// Equal reports whether two names address the same slot. Regular names
// compare by their normalised word (so "Connect", "connect", "Con Nect"
// all compare equal, spec §8 property "name normalisation"); Text names
// compare by raw content; Index/TextIndex compare by their numeric slot.
func (n Name) Equal(other Name) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case Regular:
		return n.word == other.word
	case Text:
		return n.text == other.text
	case Index, TextIndex:
		return n.idx == other.idx
	}
	return false
}

// escapeTextName escapes the characters spec §3 reserves in a name-path's
// text form: '.', ':', '=', '"', '\'.
func escapeTextName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', ':', '=', '"', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// String renders n as a single name-path element (spec §6.2). Index and
// TextIndex carry their own gluing rule (see NamePath.String): Index has
// no leading separator of its own ("c[3]" glues directly to the
// preceding element) while TextIndex embeds its leading dot ("".[0]").
func (n Name) String() string {
	switch n.kind {
	case Regular:
		return n.word
	case Text:
		return `"` + escapeTextName(n.text) + `"`
	case Index:
		return "[" + strconv.FormatUint(uint64(n.idx), 10) + "]"
	case TextIndex:
		return `.[` + strconv.FormatUint(uint64(n.idx), 10) + "]"
	}
	return ""
}
