package parser

import (
	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
)

// parsedPath is a name path as read from the token stream, still carrying
// whether it began with a leading separator (relative to the closest
// enclosing section, spec §4.5) or not (absolute, from the document
// root).
type parsedPath struct {
	path     name.Path
	relative bool
}

// parseNamePath reads a name path: an optional leading NamePathSeparator
// (relative marker), then one RegularName/TextName element, then zero or
// more (NamePathSeparator element) pairs. s.tok must already be
// positioned on the first token of the path; on return s.tok is the first
// token past the path.
func (s *sourceParser) parseNamePath() (parsedPath, error) {
	relative := false
	if s.tok.Type == lexer.NamePathSeparator {
		relative = true
		if err := s.advance(); err != nil {
			return parsedPath{}, err
		}
	}
	var elems []name.Name
	for {
		el, err := s.parseNameElement()
		if err != nil {
			return parsedPath{}, err
		}
		elems = append(elems, el)
		if s.tok.Type != lexer.NamePathSeparator {
			break
		}
		if err := s.advance(); err != nil {
			return parsedPath{}, err
		}
	}
	p, err := name.New(elems...)
	if err != nil {
		return parsedPath{}, err
	}
	return parsedPath{path: p, relative: relative}, nil
}

// parseNameElement reads one RegularName or quoted-Text (reinterpreted as
// a name, per the lexer's TextName-deferred-to-parser design decision)
// token as a single name.Name.
func (s *sourceParser) parseNameElement() (name.Name, error) {
	switch s.tok.Type {
	case lexer.RegularName:
		raw := s.tok.Payload.Text
		loc := s.tok.Loc
		if err := s.advance(); err != nil {
			return name.Name{}, err
		}
		n, err := name.NewRegular(raw)
		if err != nil {
			if elErr, ok := err.(lexer.Error); ok {
				elErr.Location = loc
				return name.Name{}, elErr
			}
			return name.Name{}, err
		}
		return n, nil
	case lexer.Text:
		raw := s.tok.Payload.Text
		if err := s.advance(); err != nil {
			return name.Name{}, err
		}
		return name.NewText(raw), nil
	default:
		return name.Name{}, lexer.Errorf(lexer.Syntax, s.tok.Loc, "expected a name, found %s", s.tok.Type)
	}
}
