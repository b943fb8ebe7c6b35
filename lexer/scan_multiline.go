package lexer

import "strings"

func closeMarkerFor(openMarker string) string {
	if openMarker == "<<<" {
		return ">>>"
	}
	return openMarker
}

func isLangChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '_' || r == '+' || r == '.' || r == '-'
}

// scanFormatWord scans a run of up to 16 characters matching accept,
// immediately after a multi-line literal's opening marker (spec §4.4,
// "format specifier").
func (lx *Lexer) scanFormatWord(accept func(rune) bool) string {
	var b strings.Builder
	for b.Len() < 16 {
		c, err := lx.dec.Current()
		if err != nil || c.IsEnd() || !accept(c.Rune) {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return b.String()
}

// scanMultiLineOpen scans the full lifetime of a multi-line literal in one
// call: the opening marker, an optional format specifier, the mandatory
// line break, every content line honoring the established indent prefix,
// and the closing marker line. It returns the Open token immediately and
// queues the Format (if any), Content, and Close tokens on lx.pending for
// subsequent Next calls to drain — the token stream still only ever hands
// out one Token per call.
func (lx *Lexer) scanMultiLineOpen(begin Position, openMarker string, openType, closeType, contentType TokenType) (Token, error) {
	loc := lx.loc(begin)
	for range []rune(openMarker) {
		lx.dec.Advance()
	}
	openTok, _ := lx.finish(openType, begin, openMarker)

	var queued []Token

	formatBegin := lx.dec.Position()
	switch contentType {
	case MultiLineCode:
		if format := lx.scanFormatWord(isLangChar); format != "" {
			ft, _ := lx.finish(MultiLineCodeLanguage, formatBegin, format)
			ft.Payload.Text = format
			ft.HasValue = true
			queued = append(queued, ft)
		}
	case MultiLineBytes:
		if format := lx.scanFormatWord(isLangChar); format != "" {
			if !strings.EqualFold(format, "hex") {
				return Token{}, Errorf(Unsupported, lx.loc(formatBegin), "unsupported byte format %q", format)
			}
			ft, _ := lx.finish(MultiLineBytesFormat, formatBegin, format)
			ft.Payload.Text = format
			ft.HasValue = true
			queued = append(queued, ft)
		}
	}

	if err := lx.skipTrailingCommentAndLineBreak(loc); err != nil {
		return Token{}, err
	}

	contentBegin := lx.dec.Position()
	rawContent, decodedText, decodedBytes, closeBegin, closeIndent, err := lx.scanMultiLineLines(contentType, closeMarkerFor(openMarker), loc)
	if err != nil {
		return Token{}, err
	}

	ct, _ := lx.finish(contentType, contentBegin, rawContent)
	if contentType == MultiLineBytes {
		ct.Payload.Bytes = decodedBytes
	} else {
		ct.Payload.Text = decodedText
	}
	ct.HasValue = true
	queued = append(queued, ct)

	closeTok, _ := lx.finish(closeType, closeBegin, closeIndent+closeMarkerFor(openMarker))
	queued = append(queued, closeTok)

	lx.pending = append(lx.pending, queued...)
	return openTok, nil
}

func (lx *Lexer) skipTrailingCommentAndLineBreak(loc Location) error {
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return err
		}
		if c.Rune == ' ' || c.Rune == '\t' {
			lx.dec.Advance()
			continue
		}
		if c.Rune == '#' {
			for {
				c2, err := lx.dec.Current()
				if err != nil {
					return err
				}
				if c2.IsEnd() || c2.Rune == '\n' || c2.Rune == '\r' {
					break
				}
				lx.dec.Advance()
			}
			continue
		}
		break
	}
	c, err := lx.dec.Current()
	if err != nil {
		return err
	}
	if c.Rune != '\n' && c.Rune != '\r' {
		return Errorf(Syntax, loc, "expected a line break after the multi-line literal opening")
	}
	lx.dec.Advance()
	if c.Rune == '\r' {
		if n, _ := lx.dec.Current(); n.Rune == '\n' {
			lx.dec.Advance()
		}
	}
	return nil
}

// scanMultiLineLines consumes every content line up to and including the
// closing marker line, enforcing the shared indent-prefix rule (spec
// §4.4, "Multi-line literals"). It returns the still-escaped raw content
// (lines joined by '\n'), the decoded text (for Text/Code/RegEx) or bytes
// (for Bytes), the close marker's begin position, and its leading
// indentation text.
func (lx *Lexer) scanMultiLineLines(contentType TokenType, closeMarker string, loc Location) (rawContent, decodedText string, decodedBytes []byte, closeBegin Position, closeIndent string, err error) {
	var rawLines []string
	var decodedLines []string
	var hexBuf strings.Builder
	prefix := ""
	prefixSet := false

	for {
		lineBegin := lx.dec.Position()
		indent, ierr := lx.scanHorizontalRun()
		if ierr != nil {
			return "", "", nil, Position{}, "", ierr
		}

		c, cerr := lx.dec.Current()
		if cerr != nil {
			return "", "", nil, Position{}, "", cerr
		}
		if c.IsEnd() {
			return "", "", nil, Position{}, "", Errorf(UnexpectedEnd, loc, "unexpected end of data inside multi-line literal")
		}

		restIsEmpty := c.Rune == '\n' || c.Rune == '\r'
		looksLikeClose := !restIsEmpty && lx.peekIs(closeMarker) && (indent == prefix || !prefixSet)

		if looksLikeClose {
			for range []rune(closeMarker) {
				lx.dec.Advance()
			}
			decoded, derr := decodeMultiLineLines(contentType, decodedLines, &hexBuf)
			if derr != nil {
				return "", "", nil, Position{}, "", derr
			}
			raw := strings.Join(rawLines, "\n")
			if contentType == MultiLineBytes {
				data, herr := decodeHexDigits(hexBuf.String(), loc)
				if herr != nil {
					return "", "", nil, Position{}, "", herr
				}
				return raw, "", data, lineBegin, indent, nil
			}
			return raw, decoded, nil, lineBegin, indent, nil
		}

		if restIsEmpty {
			// blank content line: no prefix requirement.
			lineText, lerr := lx.consumeRestOfLine()
			if lerr != nil {
				return "", "", nil, Position{}, "", lerr
			}
			rawLines = append(rawLines, indent+lineText)
			decodedLines = append(decodedLines, "")
			continue
		}

		if !prefixSet {
			prefix = indent
			prefixSet = true
		} else if indent != prefix {
			return "", "", nil, Position{}, "", Errorf(Indentation, lx.loc(lineBegin), "content line does not match the established indent prefix")
		}

		lineText, decodedLine, lerr := lx.consumeContentLine(contentType, loc)
		if lerr != nil {
			return "", "", nil, Position{}, "", lerr
		}
		rawLines = append(rawLines, indent+lineText)
		decodedLines = append(decodedLines, decodedLine)
		if contentType == MultiLineBytes {
			hexBuf.WriteString(decodedLine)
		}
	}
}

func (lx *Lexer) scanHorizontalRun() (string, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return "", err
		}
		if !isHorizontalSpace(c.Rune) {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return b.String(), nil
}

func (lx *Lexer) consumeRestOfLine() (string, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return "", err
		}
		if c.IsEnd() {
			return b.String(), nil
		}
		if c.Rune == '\n' {
			lx.dec.Advance()
			return b.String(), nil
		}
		if c.Rune == '\r' {
			lx.dec.Advance()
			if n, _ := lx.dec.Current(); n.Rune == '\n' {
				lx.dec.Advance()
			}
			return b.String(), nil
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
}

// consumeContentLine scans one non-empty content line, applying the
// literal kind's escape rules, and consumes its trailing line break.
func (lx *Lexer) consumeContentLine(contentType TokenType, loc Location) (raw, decoded string, err error) {
	var r, d strings.Builder
	for {
		c, cerr := lx.dec.Current()
		if cerr != nil {
			return "", "", cerr
		}
		if c.IsEnd() {
			return r.String(), d.String(), nil
		}
		if c.Rune == '\n' {
			lx.dec.Advance()
			return r.String(), d.String(), nil
		}
		if c.Rune == '\r' {
			lx.dec.Advance()
			if n, _ := lx.dec.Current(); n.Rune == '\n' {
				lx.dec.Advance()
			}
			return r.String(), d.String(), nil
		}
		if contentType == MultiLineText && c.Rune == '\\' {
			lx.dec.Advance()
			dr, rr, eerr := lx.scanEscapeSequence(loc)
			if eerr != nil {
				return "", "", eerr
			}
			d.WriteRune(dr)
			r.WriteByte('\\')
			r.WriteString(rr)
			continue
		}
		if contentType == MultiLineRegex && c.Rune == '\\' {
			lx.dec.Advance()
			n, nerr := lx.dec.Current()
			if nerr != nil {
				return "", "", nerr
			}
			if n.Rune == '/' {
				d.WriteByte('/')
				r.WriteString(`\/`)
				lx.dec.Advance()
				continue
			}
			d.WriteByte('\\')
			r.WriteByte('\\')
			continue
		}
		r.WriteRune(c.Rune)
		d.WriteRune(c.Rune)
		lx.dec.Advance()
	}
}

func decodeMultiLineLines(contentType TokenType, decodedLines []string, hexBuf *strings.Builder) (string, error) {
	if contentType == MultiLineBytes {
		return "", nil
	}
	return strings.Join(decodedLines, "\n"), nil
}

func decodeHexDigits(digits string, loc Location) ([]byte, error) {
	var clean strings.Builder
	for _, r := range digits {
		if isHorizontalSpace(r) {
			continue
		}
		clean.WriteRune(r)
	}
	d := clean.String()
	if len(d)%2 != 0 {
		return nil, Errorf(Syntax, loc, "bytes literal has an odd number of hex digits")
	}
	data := make([]byte, len(d)/2)
	for i := range data {
		if !isHexDigit(rune(d[i*2])) || !isHexDigit(rune(d[i*2+1])) {
			return nil, Errorf(Syntax, loc, "invalid hex digit in bytes literal")
		}
		data[i] = hexVal(d[i*2])<<4 | hexVal(d[i*2+1])
	}
	return data, nil
}
