package lexer

import "strings"

// scanTextOrOpen handles a leading '"': either a single-line Text literal
// or, if followed by two more '"', the opening of a multi-line text
// literal.
func (lx *Lexer) scanTextOrOpen(begin Position) (Token, error) {
	if lx.peekIs(`"""`) {
		return lx.scanMultiLineOpen(begin, `"""`, MultiLineTextOpen, MultiLineTextClose, MultiLineText)
	}
	lx.dec.Advance()
	loc := lx.loc(begin)
	decoded, raw, err := lx.scanEscapedLiteral('"', loc)
	if err != nil {
		return Token{}, err
	}
	tok, _ := lx.finish(Text, begin, `"`+raw+`"`)
	tok.Payload.Text = decoded
	tok.HasValue = true
	return tok, nil
}

// scanCodeOrOpen handles a leading '`'.
func (lx *Lexer) scanCodeOrOpen(begin Position) (Token, error) {
	if lx.peekIs("```") {
		return lx.scanMultiLineOpen(begin, "```", MultiLineCodeOpen, MultiLineCodeClose, MultiLineCode)
	}
	lx.dec.Advance()
	loc := lx.loc(begin)
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return Token{}, err
		}
		if c.IsEnd() || c.Rune == '\n' {
			return Token{}, Errorf(UnexpectedEnd, loc, "unterminated code literal")
		}
		if c.Rune == '`' {
			lx.dec.Advance()
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	tok, _ := lx.finish(Code, begin, "`"+b.String()+"`")
	tok.Payload.Text = b.String()
	tok.HasValue = true
	return tok, nil
}

// scanRegexOrOpen handles a leading '/'.
func (lx *Lexer) scanRegexOrOpen(begin Position) (Token, error) {
	if lx.peekIs("///") {
		return lx.scanMultiLineOpen(begin, "///", MultiLineRegexOpen, MultiLineRegexClose, MultiLineRegex)
	}
	lx.dec.Advance()
	loc := lx.loc(begin)
	var decoded, raw strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return Token{}, err
		}
		if c.IsEnd() || c.Rune == '\n' {
			return Token{}, Errorf(UnexpectedEnd, loc, "unterminated regular expression literal")
		}
		if c.Rune == '\\' {
			lx.dec.Advance()
			n, nerr := lx.dec.Current()
			if nerr != nil {
				return Token{}, nerr
			}
			if n.Rune == '/' {
				decoded.WriteByte('/')
				raw.WriteString(`\/`)
				lx.dec.Advance()
				continue
			}
			decoded.WriteByte('\\')
			raw.WriteByte('\\')
			continue
		}
		if c.Rune == '/' {
			lx.dec.Advance()
			break
		}
		decoded.WriteRune(c.Rune)
		raw.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	tok, _ := lx.finish(RegEx, begin, "/"+raw.String()+"/")
	tok.Payload.Text = decoded.String()
	tok.HasValue = true
	return tok, nil
}

// scanBytesOrOpen handles a leading '<'.
func (lx *Lexer) scanBytesOrOpen(begin Position) (Token, error) {
	if lx.peekIs("<<<") {
		return lx.scanMultiLineOpen(begin, "<<<", MultiLineBytesOpen, MultiLineBytesClose, MultiLineBytes)
	}
	lx.dec.Advance()
	loc := lx.loc(begin)
	data, raw, err := lx.scanHexBody('>', loc)
	if err != nil {
		return Token{}, err
	}
	tok, _ := lx.finish(Bytes, begin, "<"+raw+">")
	tok.Payload.Bytes = data
	tok.HasValue = true
	return tok, nil
}

// scanHexBody scans an (optional "format:") hex-pair body up to (not
// including) closeRune, allowing whitespace between pairs (spec §4.4,
// Bytes).
func (lx *Lexer) scanHexBody(closeRune rune, loc Location) ([]byte, string, error) {
	var raw strings.Builder
	save := lx.dec.Begin()
	word, _ := lx.scanLowerWord()
	if c, _ := lx.dec.Current(); word != "" && c.Rune == ':' {
		lx.dec.Advance()
		save.Commit()
		if !strings.EqualFold(word, "hex") {
			return nil, "", Errorf(Unsupported, loc, "unsupported byte format %q", word)
		}
		raw.WriteString(word + ":")
	} else {
		save.Rollback()
	}

	var hexDigits strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return nil, "", err
		}
		if c.IsEnd() {
			return nil, "", Errorf(UnexpectedEnd, loc, "unterminated bytes literal")
		}
		if c.Rune == closeRune {
			lx.dec.Advance()
			break
		}
		if c.Rune == ' ' || c.Rune == '\t' || c.Rune == '\n' || c.Rune == '\r' {
			raw.WriteRune(c.Rune)
			lx.dec.Advance()
			continue
		}
		if !isHexDigit(c.Rune) {
			return nil, "", Errorf(Syntax, loc, "invalid hex digit %q in bytes literal", c.Rune)
		}
		hexDigits.WriteRune(c.Rune)
		raw.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	digits := hexDigits.String()
	if len(digits)%2 != 0 {
		return nil, "", Errorf(Syntax, loc, "bytes literal has an odd number of hex digits")
	}
	data := make([]byte, len(digits)/2)
	for i := 0; i < len(data); i++ {
		hi := hexVal(digits[i*2])
		lo := hexVal(digits[i*2+1])
		data[i] = byte(hi<<4 | lo)
	}
	return data, raw.String(), nil
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

// peekIs reports whether the upcoming characters match s exactly, without
// consuming anything.
func (lx *Lexer) peekIs(s string) bool {
	tx := lx.dec.Begin()
	defer tx.RollbackIfOpen()
	for _, r := range s {
		c, err := lx.dec.Current()
		if err != nil || c.Rune != r {
			return false
		}
		lx.dec.Advance()
	}
	return true
}

// scanEscapedLiteral scans single-line text content up to closeRune,
// processing the escape sequences from spec §4.4 (Text). Returns the
// decoded value and the raw (still-escaped) source text.
func (lx *Lexer) scanEscapedLiteral(closeRune rune, loc Location) (decoded, raw string, err error) {
	var d, r strings.Builder
	for {
		c, cerr := lx.dec.Current()
		if cerr != nil {
			return "", "", cerr
		}
		if c.IsEnd() || c.Rune == '\n' {
			return "", "", Errorf(UnexpectedEnd, loc, "unterminated text literal")
		}
		if c.Rune == closeRune {
			lx.dec.Advance()
			return d.String(), r.String(), nil
		}
		if c.Rune == '\\' {
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
		d.WriteRune(c.Rune)
		r.WriteRune(c.Rune)
		lx.dec.Advance()
	}
}

// scanEscapeSequence scans one escape body (the part after the leading
// backslash, which the caller has already consumed).
func (lx *Lexer) scanEscapeSequence(loc Location) (rune, string, error) {
	c, err := lx.dec.Current()
	if err != nil {
		return 0, "", err
	}
	switch c.Rune {
	case '"':
		lx.dec.Advance()
		return '"', `"`, nil
	case '\\':
		lx.dec.Advance()
		return '\\', `\`, nil
	case '$':
		lx.dec.Advance()
		return '$', `$`, nil
	case 'n', 'N':
		lx.dec.Advance()
		return '\n', string(c.Rune), nil
	case 'r', 'R':
		lx.dec.Advance()
		return '\r', string(c.Rune), nil
	case 't', 'T':
		lx.dec.Advance()
		return '\t', string(c.Rune), nil
	case 'u':
		lx.dec.Advance()
		return lx.scanUnicodeEscape(loc)
	default:
		return 0, "", Errorf(Syntax, loc, "unknown escape sequence \\%c", c.Rune)
	}
}

func (lx *Lexer) scanUnicodeEscape(loc Location) (rune, string, error) {
	c, err := lx.dec.Current()
	if err != nil {
		return 0, "", err
	}
	if c.Rune == '{' {
		lx.dec.Advance()
		var hex strings.Builder
		for {
			cc, cerr := lx.dec.Current()
			if cerr != nil {
				return 0, "", cerr
			}
			if cc.Rune == '}' {
				lx.dec.Advance()
				break
			}
			if !isHexDigit(cc.Rune) {
				return 0, "", Errorf(Syntax, loc, "invalid unicode escape")
			}
			hex.WriteRune(cc.Rune)
			lx.dec.Advance()
			if hex.Len() > 8 {
				return 0, "", Errorf(Syntax, loc, "unicode escape has too many digits")
			}
		}
		return finishUnicodeEscape(hex.String(), "u{"+hex.String()+"}", loc)
	}
	var hex strings.Builder
	for i := 0; i < 4; i++ {
		cc, cerr := lx.dec.Current()
		if cerr != nil {
			return 0, "", cerr
		}
		if !isHexDigit(cc.Rune) {
			return 0, "", Errorf(Syntax, loc, "unicode escape requires exactly 4 hex digits")
		}
		hex.WriteRune(cc.Rune)
		lx.dec.Advance()
	}
	return finishUnicodeEscape(hex.String(), "u"+hex.String(), loc)
}

func finishUnicodeEscape(hex, raw string, loc Location) (rune, string, error) {
	if hex == "" {
		return 0, "", Errorf(Syntax, loc, "empty unicode escape")
	}
	var v int64
	for _, c := range hex {
		v = v*16 + int64(hexVal(byte(c)))
	}
	if v == 0 {
		return 0, "", Errorf(Syntax, loc, "escaped code point must not be zero")
	}
	if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, "", Errorf(Encoding, loc, "escaped value is not a valid Unicode scalar value")
	}
	return rune(v), raw, nil
}
