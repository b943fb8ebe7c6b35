package lexer

import (
	"strings"

	"github.com/smasher164/xid"
)

// LineContext tells the Lexer how to interpret a `*` at the start of a
// content line: as a new SectionListOpen ("*[") at the document's default
// context, or as a MultiLineValueListSeparator ("* ") while scanning the
// continuation of a value that started on a prior line (spec §4.4, "line
// context" flag). The parser drives this by calling SetLineContext when a
// NameValueSeparator is followed directly by the end of the line, for the
// duration of the multi-line value list that follows.
type LineContext int

const (
	DefaultContext LineContext = iota
	ValueContinuationContext
)

// Lexer is the deterministic state machine of spec §4.4: given a
// TokenDecoder it emits a lazy sequence of Tokens up to EndOfData. It is
// single-use — once Next returns an error the Lexer stays in that errored
// state for every subsequent call (spec §4.4, "errors abort the stream").
type Lexer struct {
	dec *TokenDecoder
	src SourceIdentifier

	atLineStart bool
	lineCtx     LineContext

	// pending holds tokens already scanned ahead of the one being
	// returned: multi-line literals scan their whole open/format/content/
	// close sequence in one go (see scan_literals.go) and queue the rest
	// here for subsequent Next calls to drain before resuming normal
	// dispatch.
	pending []Token

	err error
}

// NewLexer builds a Lexer over dec, whose underlying source is identified
// by src (used to build error Locations).
func NewLexer(dec *TokenDecoder, src SourceIdentifier) *Lexer {
	return &Lexer{dec: dec, src: src, atLineStart: true}
}

// SetLineContext changes how a `*` at a fresh line start is interpreted.
// See LineContext.
func (lx *Lexer) SetLineContext(ctx LineContext) {
	lx.lineCtx = ctx
}

// Digest forwards the rolling digest from the underlying character stream.
func (lx *Lexer) Digest() [32]byte {
	return lx.dec.Digest()
}

func (lx *Lexer) loc(pos Position) Location {
	return Location{Source: lx.src, Pos: pos}
}

// Next scans and returns the next Token. Once an error is returned, every
// subsequent call returns the same error.
func (lx *Lexer) Next() (Token, error) {
	if lx.err != nil {
		return Token{}, lx.err
	}
	tok, err := lx.next()
	if err != nil {
		lx.err = err
		return Token{}, err
	}
	if tok.Type != Indentation && tok.Type != LineBreak {
		lx.atLineStart = false
	}
	return tok, nil
}

func (lx *Lexer) next() (Token, error) {
	if len(lx.pending) > 0 {
		tok := lx.pending[0]
		lx.pending = lx.pending[1:]
		return tok, nil
	}

	c, err := lx.dec.Current()
	if err != nil {
		return Token{}, err
	}
	begin := c.Pos
	if c.IsEnd() {
		return Token{Type: EndOfData, Begin: begin, End: begin}, nil
	}

	switch {
	case c.Rune == '\n':
		lx.dec.Advance()
		lx.atLineStart = true
		return lx.finish(LineBreak, begin, "\n")
	case c.Rune == '\r':
		lx.dec.Advance()
		lx.atLineStart = true
		text := "\r"
		if n, _ := lx.dec.Current(); n.Rune == '\n' {
			lx.dec.Advance()
			text = "\r\n"
		}
		return lx.finish(LineBreak, begin, text)
	case lx.atLineStart && isHorizontalSpace(c.Rune):
		return lx.scanIndentation(begin)
	case isHorizontalSpace(c.Rune):
		return lx.scanSpacing(begin)
	case c.Rune == '#':
		return lx.scanComment(begin)
	case c.Rune == '@':
		return lx.scanMetaName(begin)
	case c.Rune == '.':
		// A `.` immediately followed by a digit is a fraction-only float
		// literal (spec §4.4: the decimal point needs only one side
		// populated, so ".5" is valid) rather than a name-path separator.
		if lx.peekAfterIsDigit() {
			return lx.scanNumberOrDateTime(begin, "")
		}
		lx.dec.Advance()
		return lx.finish(NamePathSeparator, begin, ".")
	case c.Rune == ':' || c.Rune == '=':
		lx.dec.Advance()
		return lx.finish(NameValueSeparator, begin, string(c.Rune))
	case c.Rune == ',':
		lx.dec.Advance()
		return lx.finish(ValueListSeparator, begin, ",")
	case c.Rune == '*':
		return lx.scanStar(begin)
	case c.Rune == '[':
		lx.dec.Advance()
		return lx.finish(SectionMapOpen, begin, "[")
	case c.Rune == ']':
		return lx.scanSectionClose(begin, "")
	case c.Rune == '-' || c.Rune == '+':
		return lx.scanDecoratedSectionOrNumber(begin)
	case c.Rune == '"':
		return lx.scanTextOrOpen(begin)
	case c.Rune == '`':
		return lx.scanCodeOrOpen(begin)
	case c.Rune == '/':
		return lx.scanRegexOrOpen(begin)
	case c.Rune == '<':
		return lx.scanBytesOrOpen(begin)
	case c.Rune >= '0' && c.Rune <= '9':
		return lx.scanNumberOrDateTime(begin, "")
	case isRegularNameStart(c.Rune):
		return lx.scanNameOrBoolean(begin)
	default:
		return Token{}, Errorf(Syntax, lx.loc(begin), "unexpected character %q", c.Rune)
	}
}

// peekAfterIsDigit reports whether the rune after the current one (not yet
// consumed) is an ASCII digit, without advancing the decoder.
func (lx *Lexer) peekAfterIsDigit() bool {
	tx := lx.dec.Begin()
	defer tx.RollbackIfOpen()
	if _, err := lx.dec.Advance(); err != nil {
		return false
	}
	c, err := lx.dec.Current()
	if err != nil {
		return false
	}
	return isASCIIDigit(c.Rune)
}

func (lx *Lexer) finish(tt TokenType, begin Position, raw string) (Token, error) {
	end := lx.dec.Position()
	return Token{Type: tt, RawText: raw, Begin: begin, End: end}, nil
}

func isHorizontalSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isRegularNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || xid.Start(r)
}

func isRegularNameContinue(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == ' ' || xid.Continue(r)
}

func (lx *Lexer) scanIndentation(begin Position) (Token, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return Token{}, err
		}
		if !isHorizontalSpace(c.Rune) {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return lx.finish(Indentation, begin, b.String())
}

func (lx *Lexer) scanSpacing(begin Position) (Token, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return Token{}, err
		}
		if !isHorizontalSpace(c.Rune) {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return lx.finish(Spacing, begin, b.String())
}

func (lx *Lexer) scanComment(begin Position) (Token, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return Token{}, err
		}
		if c.IsEnd() || c.Rune == '\n' || c.Rune == '\r' {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return lx.finish(Comment, begin, b.String())
}

// scanStar handles both SectionListOpen ("*[") and
// MultiLineValueListSeparator ("*" followed by spacing, only valid while
// SetLineContext(ValueContinuationContext) is active).
func (lx *Lexer) scanStar(begin Position) (Token, error) {
	lx.dec.Advance()
	c, err := lx.dec.Current()
	if err != nil {
		return Token{}, err
	}
	if c.Rune == '[' {
		lx.dec.Advance()
		return lx.finish(SectionListOpen, begin, "*[")
	}
	if lx.lineCtx == ValueContinuationContext {
		return lx.finish(MultiLineValueListSeparator, begin, "*")
	}
	return Token{}, Errorf(Syntax, lx.loc(begin), "unexpected '*'")
}

func (lx *Lexer) scanSectionClose(begin Position, decoration string) (Token, error) {
	lx.dec.Advance()
	c, err := lx.dec.Current()
	if err != nil {
		return Token{}, err
	}
	if c.Rune == '*' {
		lx.dec.Advance()
		trailing, terr := lx.scanTrailingDecoration()
		if terr != nil {
			return Token{}, terr
		}
		return lx.finish(SectionListClose, begin, "]*"+trailing)
	}
	trailing, terr := lx.scanTrailingDecoration()
	if terr != nil {
		return Token{}, terr
	}
	return lx.finish(SectionMapClose, begin, "]"+trailing)
}

func (lx *Lexer) scanTrailingDecoration() (string, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return "", err
		}
		if c.Rune != '-' && c.Rune != '+' {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return b.String(), nil
}

// scanDecoratedSectionOrNumber disambiguates a leading run of '-'/'+'
// (section-open decoration, spec §4.4 "Section open") from a signed number
// literal: decoration is only valid immediately before '[' or '*['.
func (lx *Lexer) scanDecoratedSectionOrNumber(begin Position) (Token, error) {
	tx := lx.dec.Begin()
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			tx.RollbackIfOpen()
			return Token{}, err
		}
		if c.Rune != '-' && c.Rune != '+' {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	c, err := lx.dec.Current()
	if err != nil {
		tx.RollbackIfOpen()
		return Token{}, err
	}
	if c.Rune == '[' || (c.Rune == '*' && b.Len() > 0) {
		tx.Commit()
		if c.Rune == '[' {
			lx.dec.Advance()
			return lx.finish(SectionMapOpen, begin, b.String()+"[")
		}
		lx.dec.Advance()
		nc, _ := lx.dec.Current()
		if nc.Rune == '[' {
			lx.dec.Advance()
			return lx.finish(SectionListOpen, begin, b.String()+"*[")
		}
		return Token{}, Errorf(Syntax, lx.loc(begin), "expected '[' after '*' in section open")
	}
	tx.Rollback()
	// Not section decoration: this is a signed number (or nan/inf) literal.
	c, err = lx.dec.Current()
	if err != nil {
		return Token{}, err
	}
	sign := string(c.Rune)
	lx.dec.Advance()
	if nc, _ := lx.dec.Current(); nc.Rune == 'n' || nc.Rune == 'N' || nc.Rune == 'i' || nc.Rune == 'I' {
		if tok, ok, nerr := lx.tryScanNanOrInf(begin, sign); nerr != nil {
			return Token{}, nerr
		} else if ok {
			return tok, nil
		}
	}
	return lx.scanNumberOrDateTime(begin, sign)
}
