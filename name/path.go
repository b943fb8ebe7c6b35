package name

import (
	"strconv"
	"strings"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

// MaxPathDepth is the maximum number of elements a NamePath may hold
// (spec §5, resource limit "name-path depth").
const MaxPathDepth = 10

// Path is an ordered, immutable sequence of Name elements addressing a
// value relative to a Document's root or to an enclosing section (spec
// §3, "NamePath").
type Path struct {
	elems []Name
}

// Root is the empty path, addressing the document root itself.
var Root = Path{}

// New builds a Path from a sequence of elements, rejecting one that would
// exceed MaxPathDepth.
func New(elems ...Name) (Path, error) {
	if len(elems) > MaxPathDepth {
		return Path{}, lexer.Errorf(lexer.LimitExceeded, lexer.Location{}, "name path exceeds the maximum depth of %d", MaxPathDepth)
	}
	cp := make([]Name, len(elems))
	copy(cp, elems)
	return Path{elems: cp}, nil
}

// Len returns the number of elements in p.
func (p Path) Len() int { return len(p.elems) }

// IsRoot reports whether p addresses the document root.
func (p Path) IsRoot() bool { return len(p.elems) == 0 }

// At returns the element at index i.
func (p Path) At(i int) Name { return p.elems[i] }

// Elements returns a defensive copy of p's elements.
func (p Path) Elements() []Name {
	cp := make([]Name, len(p.elems))
	copy(cp, p.elems)
	return cp
}

// Append returns a new Path with elem appended, leaving p unmodified.
func (p Path) Append(elem Name) (Path, error) {
	if len(p.elems)+1 > MaxPathDepth {
		return Path{}, lexer.Errorf(lexer.LimitExceeded, lexer.Location{}, "name path exceeds the maximum depth of %d", MaxPathDepth)
	}
	cp := make([]Name, len(p.elems)+1)
	copy(cp, p.elems)
	cp[len(p.elems)] = elem
	return Path{elems: cp}, nil
}

// Join returns a new Path with the elements of other appended after p's
// own. Join performs only the concatenation; it has no notion of
// relative or absolute paths, so callers resolve relative vs. absolute
// (spec §4.5, "Name-path resolution") before calling it.
func (p Path) Join(other Path) (Path, error) {
	if len(p.elems)+len(other.elems) > MaxPathDepth {
		return Path{}, lexer.Errorf(lexer.LimitExceeded, lexer.Location{}, "name path exceeds the maximum depth of %d", MaxPathDepth)
	}
	cp := make([]Name, 0, len(p.elems)+len(other.elems))
	cp = append(cp, p.elems...)
	cp = append(cp, other.elems...)
	return Path{elems: cp}, nil
}

// Parent returns p with its last element removed, and ok=false if p is
// already the root.
func (p Path) Parent() (Path, bool) {
	if len(p.elems) == 0 {
		return Path{}, false
	}
	return Path{elems: p.elems[:len(p.elems)-1]}, true
}

// Last returns p's final element, and ok=false if p is the root.
func (p Path) Last() (Name, bool) {
	if len(p.elems) == 0 {
		return Name{}, false
	}
	return p.elems[len(p.elems)-1], true
}

// Equal reports whether p and other address the same slot.
func (p Path) Equal(other Path) bool {
	if len(p.elems) != len(other.elems) {
		return false
	}
	for i := range p.elems {
		if !p.elems[i].Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

// String renders p in the canonical, re-parseable name-path text form of
// spec §6.2, e.g. `a.b.c[3].d."text"."".[0]`.
func (p Path) String() string {
	if len(p.elems) == 0 {
		return ""
	}
	var b strings.Builder
	for i, el := range p.elems {
		if i > 0 && el.Kind() != Index && el.Kind() != TextIndex {
			b.WriteByte('.')
		}
		b.WriteString(el.String())
	}
	return b.String()
}

// Parse reads the canonical name-path text form of spec §6.2 back into a
// Path. It accepts regular words, quoted text names (with the §3 escape
// set), and bracketed indices either standalone ("[3]", glued to the
// preceding element) or following an empty text name with a separating
// dot (".[0]", a TextIndex).
func Parse(text string) (Path, error) {
	var elems []Name
	runes := []rune(text)
	i := 0
	n := len(runes)
	lastWasEmptyText := false
	for i < n {
		// A '.' only ever separates two elements; Index/TextIndex glue to
		// (or, for TextIndex, are introduced by) the previous element, so
		// it is never mandatory immediately before a '['.
		if runes[i] == '.' {
			i++
			continue
		}
		switch {
		case runes[i] == '"':
			raw, consumed, err := parseQuotedName(runes[i:])
			if err != nil {
				return Path{}, err
			}
			elems = append(elems, NewText(raw))
			lastWasEmptyText = raw == ""
			i += consumed
		case runes[i] == '[':
			idx, consumed, err := parseBracketIndex(runes[i:])
			if err != nil {
				return Path{}, err
			}
			if lastWasEmptyText {
				elems = append(elems, NewTextIndex(idx))
			} else {
				elems = append(elems, NewIndex(idx))
			}
			lastWasEmptyText = false
			i += consumed
		default:
			word, consumed := parseWord(runes[i:])
			if consumed == 0 {
				return Path{}, lexer.Errorf(lexer.Syntax, lexer.Location{}, "malformed name path at offset %d", i)
			}
			nm, err := NewRegular(word)
			if err != nil {
				return Path{}, err
			}
			elems = append(elems, nm)
			lastWasEmptyText = false
			i += consumed
		}
	}
	return New(elems...)
}

func parseWord(runes []rune) (string, int) {
	i := 0
	for i < len(runes) && runes[i] != '.' && runes[i] != '[' {
		i++
	}
	return string(runes[:i]), i
}

func parseQuotedName(runes []rune) (string, int, error) {
	if len(runes) == 0 || runes[0] != '"' {
		return "", 0, lexer.Errorf(lexer.Syntax, lexer.Location{}, "expected a quoted name")
	}
	var b strings.Builder
	i := 1
	for i < len(runes) {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			b.WriteRune(runes[i+1])
			i += 2
			continue
		}
		if r == '"' {
			return b.String(), i + 1, nil
		}
		b.WriteRune(r)
		i++
	}
	return "", 0, lexer.Errorf(lexer.UnexpectedEnd, lexer.Location{}, "unterminated quoted name in name path")
}

func parseBracketIndex(runes []rune) (uint32, int, error) {
	if len(runes) == 0 || runes[0] != '[' {
		return 0, 0, lexer.Errorf(lexer.Syntax, lexer.Location{}, "expected '[' in name path")
	}
	i := 1
	start := i
	for i < len(runes) && runes[i] != ']' {
		i++
	}
	if i >= len(runes) {
		return 0, 0, lexer.Errorf(lexer.UnexpectedEnd, lexer.Location{}, "unterminated index in name path")
	}
	val, err := strconv.ParseUint(string(runes[start:i]), 10, 32)
	if err != nil {
		return 0, 0, lexer.Errorf(lexer.Syntax, lexer.Location{}, "malformed index in name path")
	}
	return uint32(val), i + 1, nil
}
