package parser

import (
	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
	"github.com/erbsland-dev/erbsland-conf-go/value"
)

// parseKeyValueLine consumes a `name : value` (or `name = value`) line
// and attaches the resulting scalar/list Value to the current section at
// name's path (spec §4.5).
func (s *sourceParser) parseKeyValueLine() error {
	keyLoc := s.tok.Loc
	pp, err := s.parseNamePath()
	if err != nil {
		return err
	}
	if s.tok.Type != lexer.NameValueSeparator {
		return lexer.Errorf(lexer.Syntax, s.tok.Loc, "expected ':' or '=', found %s", s.tok.Type)
	}
	if err := s.advance(); err != nil {
		return err
	}
	// A multi-line value list consumes its continuation lines and leaves
	// s.tok on the first token of the line after it.
	multiLine := s.tok.Type == lexer.LineBreak || s.tok.Type == lexer.EndOfData
	val, err := s.parseValue()
	if err != nil {
		return err
	}
	if !multiLine {
		if err := s.expectEndOfLine(); err != nil {
			return err
		}
	}
	return s.attachValue(pp, val, keyLoc)
}

// attachValue walks pp from the current section, creating
// IntermediateSection placeholders for every element but the last, and
// attaches val at the final element. A non-IntermediateSection already
// occupying that slot is a NameConflict (spec §4.5, "duplicate key
// within a section, or a key colliding with an intermediate section").
//
// Unlike a section's name_path, a kv_line's key carries no
// absolute/relative distinction in the grammar (spec §6.1: `kv_line :=
// (name | text_literal) (":" | "=") value EOL`) — it always names a
// child of whatever section is currently open. A leading `.` written on
// a key is accepted as a no-op relative marker, not as an alternative to
// an (nonexistent) root-absolute form.
func (s *sourceParser) attachValue(pp parsedPath, val *value.Value, loc lexer.Location) error {
	base := s.current
	elems := pp.path.Elements()
	if len(elems) == 0 {
		return lexer.Errorf(lexer.Syntax, loc, "key name path must not be empty")
	}
	cur := base
	for _, elem := range elems[:len(elems)-1] {
		next := cur.Child(elem)
		if next == nil {
			inter := value.NewIntermediateSection(elem, &loc)
			if err := value.AddChild(cur, inter); err != nil {
				return err
			}
			next = inter
		} else if !isAddressableSection(next.Kind()) {
			return nameConflict(next, elem, loc)
		}
		cur = next
	}
	last := elems[len(elems)-1]
	val.SetName(last)
	if existing := cur.Child(last); existing != nil {
		return nameConflict(existing, last, loc)
	}
	return value.AddChild(cur, val)
}

// parseValue reads one value position: a single scalar, a single-line
// comma-separated ValueList, or (if the line ends immediately after the
// separator) a multi-line `*`-prefixed ValueList (spec §4.4 "Value-list
// separators").
func (s *sourceParser) parseValue() (*value.Value, error) {
	if s.tok.Type == lexer.LineBreak || s.tok.Type == lexer.EndOfData {
		return s.parseMultiLineValueList()
	}
	first, err := s.parseScalarToken()
	if err != nil {
		return nil, err
	}
	if s.tok.Type != lexer.ValueListSeparator {
		return first, nil
	}
	list := value.NewValueList(name.Name{}, nil)
	if err := value.AppendElement(list, first); err != nil {
		return nil, err
	}
	for s.tok.Type == lexer.ValueListSeparator {
		if err := s.advance(); err != nil {
			return nil, err
		}
		el, err := s.parseScalarToken()
		if err != nil {
			return nil, err
		}
		if err := value.AppendElement(list, el); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// parseMultiLineValueList reads the `* value` / `* value, value` lines
// that follow a key's `:`/`=` when no value appears on the same line. It
// switches the lexer into ValueContinuationContext so a leading `*` is
// read as MultiLineValueListSeparator rather than SectionListOpen, and
// reverts to DefaultContext once the list of continuation lines ends.
func (s *sourceParser) parseMultiLineValueList() (*value.Value, error) {
	list := value.NewValueList(name.Name{}, nil)
	s.lx.SetLineContext(lexer.ValueContinuationContext)
	defer s.lx.SetLineContext(lexer.DefaultContext)

	for {
		if err := s.advance(); err != nil {
			return nil, err
		}
		for s.tok.Type == lexer.Indentation || s.tok.Type == lexer.LineBreak {
			if err := s.advance(); err != nil {
				return nil, err
			}
		}
		if s.tok.Type != lexer.MultiLineValueListSeparator {
			break
		}
		if err := s.advance(); err != nil {
			return nil, err
		}
		el, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		if err := value.AppendElement(list, el); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// parseScalarToken reads and advances past one scalar literal, including
// a full multi-line literal's open/format/content/close token sequence.
func (s *sourceParser) parseScalarToken() (*value.Value, error) {
	tok := s.tok
	switch tok.Type {
	case lexer.Integer:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewInteger(name.Name{}, tok.Payload.Int, &tok.Loc), nil
	case lexer.Boolean:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewBoolean(name.Name{}, tok.Payload.Bool, &tok.Loc), nil
	case lexer.Float:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewFloat(name.Name{}, tok.Payload.Float, &tok.Loc), nil
	case lexer.Text, lexer.Code:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewText(name.Name{}, tok.Payload.Text, &tok.Loc), nil
	case lexer.RegEx:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewRegEx(name.Name{}, tok.Payload.Text, &tok.Loc), nil
	case lexer.Date:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewDate(name.Name{}, tok.Payload.Date, &tok.Loc), nil
	case lexer.Time:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewTime(name.Name{}, tok.Payload.Time, &tok.Loc), nil
	case lexer.DateTime:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewDateTime(name.Name{}, tok.Payload.DateTime, &tok.Loc), nil
	case lexer.Bytes:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewBytes(name.Name{}, tok.Payload.Bytes, &tok.Loc), nil
	case lexer.TimeDelta:
		if err := s.advance(); err != nil {
			return nil, err
		}
		return value.NewTimeDelta(name.Name{}, tok.Payload.Delta, &tok.Loc), nil
	case lexer.MultiLineTextOpen:
		return s.parseMultiLineScalar(lexer.MultiLineText, lexer.MultiLineTextClose, false)
	case lexer.MultiLineCodeOpen:
		return s.parseMultiLineScalar(lexer.MultiLineCode, lexer.MultiLineCodeClose, false)
	case lexer.MultiLineRegexOpen:
		return s.parseMultiLineScalar(lexer.MultiLineRegex, lexer.MultiLineRegexClose, true)
	case lexer.MultiLineBytesOpen:
		return s.parseMultiLineScalarBytes()
	default:
		return nil, lexer.Errorf(lexer.Syntax, tok.Loc, "expected a value, found %s", tok.Type)
	}
}

// parseMultiLineScalar drains a scanned-ahead multi-line text/code/regex
// literal's Open→[Language]→Content→Close token run (spec §4.4
// "Multi-line literals"; the Lexer has already scanned the whole literal
// in one call and queued these on Next, see lexer.Lexer's "multi-line
// literals scanned eagerly" design decision).
func (s *sourceParser) parseMultiLineScalar(contentType, closeType lexer.TokenType, isRegEx bool) (*value.Value, error) {
	loc := s.tok.Loc
	if err := s.advance(); err != nil {
		return nil, err
	}
	if s.tok.Type == lexer.MultiLineCodeLanguage {
		if err := s.advance(); err != nil {
			return nil, err
		}
	}
	if s.tok.Type != contentType {
		return nil, lexer.Errorf(lexer.Internal, s.tok.Loc, "expected multi-line literal content, found %s", s.tok.Type)
	}
	content := s.tok.Payload.Text
	if err := s.advance(); err != nil {
		return nil, err
	}
	if s.tok.Type != closeType {
		return nil, lexer.Errorf(lexer.Internal, s.tok.Loc, "expected multi-line literal close, found %s", s.tok.Type)
	}
	if err := s.advance(); err != nil {
		return nil, err
	}
	if isRegEx {
		return value.NewRegEx(name.Name{}, content, &loc), nil
	}
	return value.NewText(name.Name{}, content, &loc), nil
}

func (s *sourceParser) parseMultiLineScalarBytes() (*value.Value, error) {
	loc := s.tok.Loc
	if err := s.advance(); err != nil {
		return nil, err
	}
	if s.tok.Type == lexer.MultiLineBytesFormat {
		if err := s.advance(); err != nil {
			return nil, err
		}
	}
	if s.tok.Type != lexer.MultiLineBytes {
		return nil, lexer.Errorf(lexer.Internal, s.tok.Loc, "expected multi-line bytes content, found %s", s.tok.Type)
	}
	content := s.tok.Payload.Bytes
	if err := s.advance(); err != nil {
		return nil, err
	}
	if s.tok.Type != lexer.MultiLineBytesClose {
		return nil, lexer.Errorf(lexer.Internal, s.tok.Loc, "expected multi-line bytes close, found %s", s.tok.Type)
	}
	if err := s.advance(); err != nil {
		return nil, err
	}
	return value.NewBytes(name.Name{}, content, &loc), nil
}
