package lexer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

var nameFolder = cases.Fold()

var booleanWords = map[string]bool{
	"true": true, "yes": true, "enabled": true, "on": true,
	"false": false, "no": false, "disabled": false, "off": false,
}

// scanMetaName scans "@" followed by a regular-name body, spec §4.4
// ("Meta names are regular names prefixed with @").
func (lx *Lexer) scanMetaName(begin Position) (Token, error) {
	lx.dec.Advance() // consume '@'
	body, err := lx.scanRegularNameBody()
	if err != nil {
		return Token{}, err
	}
	if err := ValidateRegularName(body, lx.loc(begin)); err != nil {
		return Token{}, err
	}
	return lx.finish(MetaName, begin, "@"+body)
}

// scanNameOrBoolean scans a bare word starting with a name-start
// character. If the full word matches one of the boolean keywords
// (case-insensitive) and is not directly followed by ':', '=', '.' or ']'
// it is a Boolean token; otherwise it is a RegularName, so a keyword can
// still be used as a key or section name.
func (lx *Lexer) scanNameOrBoolean(begin Position) (Token, error) {
	if c, _ := lx.dec.Current(); c.Rune == 'n' || c.Rune == 'N' || c.Rune == 'i' || c.Rune == 'I' {
		if tok, ok, err := lx.tryScanNanOrInf(begin, ""); err != nil {
			return Token{}, err
		} else if ok {
			return tok, nil
		}
	}
	body, err := lx.scanRegularNameBody()
	if err != nil {
		return Token{}, err
	}
	lower := strings.ToLower(strings.TrimSpace(body))
	next, err := lx.dec.Current()
	if err != nil {
		return Token{}, err
	}
	usedAsName := !next.IsEnd() && strings.ContainsRune(":=.]", next.Rune)
	if val, ok := booleanWords[lower]; ok && !usedAsName {
		tok, _ := lx.finish(Boolean, begin, body)
		tok.Payload.Bool = val
		tok.HasValue = true
		return tok, nil
	}
	if err := ValidateRegularName(body, lx.loc(begin)); err != nil {
		return Token{}, err
	}
	tok, _ := lx.finish(RegularName, begin, body)
	tok.Payload.Text = body
	tok.HasValue = true
	return tok, nil
}

// scanRegularNameBody consumes the raw run of name characters
// ([a-zA-Z0-9_ ] plus Unicode continue code points), without validating
// the word-separator rules yet — that is deferred to ValidateRegularName
// so callers can first check the boolean-keyword special case.
func (lx *Lexer) scanRegularNameBody() (string, error) {
	var b strings.Builder
	for {
		c, err := lx.dec.Current()
		if err != nil {
			return "", err
		}
		if c.IsEnd() || !isRegularNameContinue(c.Rune) {
			break
		}
		b.WriteRune(c.Rune)
		lx.dec.Advance()
	}
	return b.String(), nil
}

// isFullOrHalfWidthVariant reports whether r is a fullwidth or halfwidth
// Unicode compatibility variant of an ASCII character (e.g. U+FF21 "Ａ",
// the fullwidth form of "A"). These fold to plain ASCII under case/width
// normalisation and so would slip past a naive rune-range check; spec §3
// restricts name bodies to the literal ASCII ranges, so they are rejected
// outright rather than silently folded (see DESIGN.md, name package).
func isFullOrHalfWidthVariant(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianFullwidth, width.EastAsianHalfwidth:
		return true
	}
	return false
}

// ValidateRegularName enforces spec §3's word-separator rules: no
// leading/trailing separator (space or underscore), no doubled separator,
// no leading digit, first code point in [a-z@] (case-insensitively),
// remaining code points in [a-z0-9_ ].
func ValidateRegularName(raw string, loc Location) error {
	runes := []rune(raw)
	if len(runes) == 0 {
		return Errorf(Syntax, loc, "empty name")
	}
	if len(runes) > 100 {
		return Errorf(LimitExceeded, loc, "name exceeds maximum length of 100 code points")
	}
	first := runes[0]
	if first >= '0' && first <= '9' {
		return Errorf(Syntax, loc, "name must not start with a digit")
	}
	if first == '_' || first == ' ' {
		return Errorf(Syntax, loc, "name must not start with a separator")
	}
	last := runes[len(runes)-1]
	if last == '_' || last == ' ' {
		return Errorf(Syntax, loc, "name must not end with a separator")
	}
	prevSeparator := false
	for _, r := range runes {
		if isFullOrHalfWidthVariant(r) {
			return Errorf(Encoding, loc, "name must not contain fullwidth or halfwidth look-alike characters")
		}
		isSeparator := r == '_' || r == ' '
		if isSeparator && prevSeparator {
			return Errorf(Syntax, loc, "name must not contain doubled separators")
		}
		if !isSeparator && !isASCIIDigit(r) && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') {
			return Errorf(Syntax, loc, "name characters must be ASCII letters, digits, spaces, or underscores")
		}
		prevSeparator = isSeparator
	}
	return nil
}

// NormalizeRegularName folds raw to its canonical comparison form per spec
// §3: locale-independent case folding (so any Unicode-uppercase variant
// that passed scanning still normalises consistently) followed by mapping
// space to underscore.
func NormalizeRegularName(raw string) string {
	folded := nameFolder.String(raw)
	var b strings.Builder
	for _, r := range folded {
		if r == ' ' {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
