package parser

import (
	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
	"github.com/erbsland-dev/erbsland-conf-go/value"
)

// parseSectionOpen consumes a `[...]` or `*[...]` construct and makes
// the resulting section the current section (spec §4.4 "Section open",
// §4.5 "Structural enforcement"). A `*[...]` open may be closed by either
// `]*` or a plain `]`.
func (s *sourceParser) parseSectionOpen() error {
	isList := s.tok.Type == lexer.SectionListOpen
	openLoc := s.tok.Loc
	if err := s.advance(); err != nil {
		return err
	}
	pp, err := s.parseNamePath()
	if err != nil {
		return err
	}
	wantClose := lexer.SectionMapClose
	if isList {
		wantClose = lexer.SectionListClose
	}
	if s.tok.Type != wantClose && !(isList && s.tok.Type == lexer.SectionMapClose) {
		return lexer.Errorf(lexer.Syntax, s.tok.Loc, "expected closing bracket for section, found %s", s.tok.Type)
	}
	if err := s.advance(); err != nil {
		return err
	}
	if err := s.expectEndOfLine(); err != nil {
		return err
	}

	sec, err := s.openSection(pp, isList, openLoc)
	if err != nil {
		return err
	}
	s.current = sec
	return nil
}

// openSection resolves pp against the current section (relative) or the
// document root (absolute), creating IntermediateSection placeholders
// along the way, and returns the Value that key/value lines following
// this open now attach to: a freshly appended element of a SectionList
// when isList, or the (possibly newly promoted) section map otherwise.
func (s *sourceParser) openSection(pp parsedPath, isList bool, loc lexer.Location) (*value.Value, error) {
	base := s.root
	if pp.relative {
		base = s.current
	}
	elems := pp.path.Elements()
	if len(elems) == 0 {
		return nil, lexer.Errorf(lexer.Syntax, loc, "section name path must not be empty")
	}

	cur := base
	for _, elem := range elems[:len(elems)-1] {
		next := cur.Child(elem)
		if next == nil {
			inter := value.NewIntermediateSection(elem, &loc)
			if err := value.AddChild(cur, inter); err != nil {
				return nil, err
			}
			next = inter
		} else if !isAddressableSection(next.Kind()) {
			return nil, nameConflict(next, elem, loc)
		}
		cur = next
	}
	last := elems[len(elems)-1]

	if isList {
		listNode := cur.Child(last)
		if listNode == nil {
			listNode = value.NewSectionList(last, &loc)
			if err := value.AddChild(cur, listNode); err != nil {
				return nil, err
			}
		} else if listNode.Kind() != value.SectionList {
			return nil, nameConflict(listNode, last, loc)
		}
		newElem := value.NewSectionWithNames(name.Name{}, &loc)
		if err := value.AppendElement(listNode, newElem); err != nil {
			return nil, err
		}
		return newElem, nil
	}

	existing := cur.Child(last)
	if existing == nil {
		sec := newSectionFor(last, loc)
		if err := value.AddChild(cur, sec); err != nil {
			return nil, err
		}
		return sec, nil
	}
	if existing.Kind() == value.IntermediateSection {
		final := newSectionFor(last, loc)
		if err := value.ReplaceChild(cur, existing, final); err != nil {
			return nil, err
		}
		return final, nil
	}
	return nil, nameConflict(existing, last, loc)
}

func newSectionFor(nm name.Name, loc lexer.Location) *value.Value {
	if nm.Kind() == name.Text {
		return value.NewSectionWithTexts(nm, &loc)
	}
	return value.NewSectionWithNames(nm, &loc)
}

func isAddressableSection(k value.Kind) bool {
	return k == value.IntermediateSection || k == value.SectionWithNames || k == value.SectionWithTexts
}

func nameConflict(existing *value.Value, elem name.Name, loc lexer.Location) error {
	return lexer.Errorf(lexer.NameConflict, loc,
		"name %q already exists as a %s", elem.String(), existing.Kind()).
		WithPath(elem.String())
}
