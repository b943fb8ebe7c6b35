package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestLexer(t *testing.T, content string) *Lexer {
	t.Helper()
	cs := NewCharacterStream(NewTextByteSource(content), false)
	dec := NewTokenDecoder(cs)
	return NewLexer(dec, TextSourceIdentifier)
}

func allTokens(t *testing.T, lx *Lexer) []Token {
	t.Helper()
	var toks []Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Type == EndOfData {
			break
		}
	}
	return toks
}

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestLexerSectionAndIntegerValue(t *testing.T) {
	lx := newTestLexer(t, "[main]\nvalue: 42\n")
	toks := allTokens(t, lx)
	require.Equal(t, []TokenType{
		SectionMapOpen, RegularName, SectionMapClose, LineBreak,
		RegularName, NameValueSeparator, Spacing, Integer, LineBreak,
		EndOfData,
	}, types(toks))

	var intTok Token
	for _, tok := range toks {
		if tok.Type == Integer {
			intTok = tok
		}
	}
	require.True(t, intTok.HasValue)
	require.Equal(t, int64(42), intTok.Payload.Int)
}

func TestLexerDigitGroupedFloatWithExponent(t *testing.T) {
	lx := newTestLexer(t, "8'283.9e-5")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Float, tok.Type)
	require.True(t, tok.HasValue)
	require.InDelta(t, 8283.9e-5, tok.Payload.Float, 1e-12)
}

func TestLexerExponentMagnitudeLimitExceeded(t *testing.T) {
	lx := newTestLexer(t, "1.23e1234567")
	_, err := lx.Next()
	require.Error(t, err)
	var elErr Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, LimitExceeded, elErr.Category)
}

func TestLexerExponentMagnitudeAtLimitIsAccepted(t *testing.T) {
	lx := newTestLexer(t, "1e308")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Float, tok.Type)
}

func TestLexerFractionOnlyFloat(t *testing.T) {
	lx := newTestLexer(t, ".5")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Float, tok.Type)
	require.True(t, tok.HasValue)
	require.InDelta(t, 0.5, tok.Payload.Float, 1e-12)

	lx = newTestLexer(t, ".0")
	tok, err = lx.Next()
	require.NoError(t, err)
	require.Equal(t, Float, tok.Type)
	require.InDelta(t, 0.0, tok.Payload.Float, 1e-12)
}

func TestLexerLeadingDotWithoutDigitIsNamePathSeparator(t *testing.T) {
	lx := newTestLexer(t, ".name")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, NamePathSeparator, tok.Type)
}

func TestLexerBooleanKeywords(t *testing.T) {
	for word, want := range booleanWords {
		lx := newTestLexer(t, word)
		tok, err := lx.Next()
		require.NoError(t, err)
		require.Equal(t, Boolean, tok.Type, "word %q", word)
		require.Equal(t, want, tok.Payload.Bool)
	}
}

func TestLexerRegularName(t *testing.T) {
	lx := newTestLexer(t, "server name")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, RegularName, tok.Type)
	require.Equal(t, "server name", tok.Payload.Text)
}

func TestLexerMetaName(t *testing.T) {
	lx := newTestLexer(t, "@version")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, MetaName, tok.Type)
	require.Equal(t, "@version", tok.RawText)
}

func TestLexerSectionList(t *testing.T) {
	lx := newTestLexer(t, "*[items]\n")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, SectionListOpen, tok.Type)
	require.Equal(t, "*[", tok.RawText)
}

func TestLexerSignedIntegerAndNanInf(t *testing.T) {
	lx := newTestLexer(t, "-42")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Integer, tok.Type)
	require.Equal(t, int64(-42), tok.Payload.Int)

	lx2 := newTestLexer(t, "-inf")
	tok2, err := lx2.Next()
	require.NoError(t, err)
	require.Equal(t, Float, tok2.Type)
	require.True(t, tok2.Payload.Float < 0)

	lx3 := newTestLexer(t, "nan")
	tok3, err := lx3.Next()
	require.NoError(t, err)
	require.Equal(t, Float, tok3.Type)
	require.True(t, tok3.Payload.Float != tok3.Payload.Float) // NaN != NaN
}

func TestLexerDecoratedSectionOpen(t *testing.T) {
	lx := newTestLexer(t, "-[section]\n")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, SectionMapOpen, tok.Type)
	require.Equal(t, "-[", tok.RawText)
}

func TestLexerHexAndBinaryIntegers(t *testing.T) {
	lx := newTestLexer(t, "0xff")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Integer, tok.Type)
	require.Equal(t, int64(255), tok.Payload.Int)

	lx2 := newTestLexer(t, "0b101")
	tok2, err := lx2.Next()
	require.NoError(t, err)
	require.Equal(t, Integer, tok2.Type)
	require.Equal(t, int64(5), tok2.Payload.Int)
}

func TestLexerByteCountSuffix(t *testing.T) {
	lx := newTestLexer(t, "2kb")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Integer, tok.Type)
	require.Equal(t, int64(2000), tok.Payload.Int)

	lx2 := newTestLexer(t, "1kib")
	tok2, err := lx2.Next()
	require.NoError(t, err)
	require.Equal(t, Integer, tok2.Type)
	require.Equal(t, int64(1024), tok2.Payload.Int)
}

func TestLexerTimeDelta(t *testing.T) {
	lx := newTestLexer(t, "10 minutes")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, TimeDelta, tok.Type)
	require.Equal(t, int64(10), tok.Payload.Delta.Count)
	require.Equal(t, UnitMinute, tok.Payload.Delta.Unit)
}

func TestLexerDate(t *testing.T) {
	lx := newTestLexer(t, "2024-03-15")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Date, tok.Type)
	require.Equal(t, DateValue{Year: 2024, Month: 3, Day: 15}, tok.Payload.Date)
}

func TestLexerDateTimeWithZone(t *testing.T) {
	lx := newTestLexer(t, "2024-03-15 13:45:30.5z")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, DateTime, tok.Type)
	require.Equal(t, 2024, tok.Payload.DateTime.Date.Year)
	require.Equal(t, 13, tok.Payload.DateTime.Time.Hour)
	require.True(t, tok.Payload.DateTime.Time.HasFraction)
	require.True(t, tok.Payload.DateTime.Time.ZoneIsUTC)
}

func TestLexerTime(t *testing.T) {
	lx := newTestLexer(t, "08:30")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Time, tok.Type)
	require.Equal(t, 8, tok.Payload.Time.Hour)
	require.Equal(t, 30, tok.Payload.Time.Minute)
	require.False(t, tok.Payload.Time.HasSeconds)
}

func TestLexerTextLiteralWithEscapes(t *testing.T) {
	lx := newTestLexer(t, `"line one\nline two"`)
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Text, tok.Type)
	require.Equal(t, "line one\nline two", tok.Payload.Text)
}

func TestLexerCodeLiteral(t *testing.T) {
	lx := newTestLexer(t, "`SELECT 1`")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Code, tok.Type)
	require.Equal(t, "SELECT 1", tok.Payload.Text)
}

func TestLexerRegexLiteral(t *testing.T) {
	lx := newTestLexer(t, `/a\/b/`)
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, RegEx, tok.Type)
	require.Equal(t, "a/b", tok.Payload.Text)
}

func TestLexerBytesLiteral(t *testing.T) {
	lx := newTestLexer(t, "<ab cd>")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Bytes, tok.Type)
	require.Equal(t, []byte{0xab, 0xcd}, tok.Payload.Bytes)
}

func TestLexerBytesLiteralWithHexFormat(t *testing.T) {
	lx := newTestLexer(t, "<hex:ab cd>")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Bytes, tok.Type)
	require.Equal(t, []byte{0xab, 0xcd}, tok.Payload.Bytes)
}

func TestLexerMultiLineTextLiteral(t *testing.T) {
	lx := newTestLexer(t, "\"\"\"\n    Hello\n    World\n    \"\"\"")
	toks := allTokens(t, lx)
	require.Equal(t, []TokenType{
		MultiLineTextOpen, MultiLineText, MultiLineTextClose, EndOfData,
	}, types(toks))
	require.Equal(t, "Hello\nWorld", toks[1].Payload.Text)
}

func TestLexerMultiLineCodeLiteralWithLanguage(t *testing.T) {
	lx := newTestLexer(t, "```sql\n    SELECT 1\n    ```")
	toks := allTokens(t, lx)
	require.Equal(t, []TokenType{
		MultiLineCodeOpen, MultiLineCodeLanguage, MultiLineCode, MultiLineCodeClose, EndOfData,
	}, types(toks))
	require.Equal(t, "sql", toks[1].Payload.Text)
	require.Equal(t, "SELECT 1", toks[2].Payload.Text)
}

func TestLexerMultiLineBytesLiteral(t *testing.T) {
	lx := newTestLexer(t, "<<<\n    abcd\n    >>>")
	toks := allTokens(t, lx)
	require.Equal(t, []TokenType{
		MultiLineBytesOpen, MultiLineBytes, MultiLineBytesClose, EndOfData,
	}, types(toks))
	require.Equal(t, []byte{0xab, 0xcd}, toks[1].Payload.Bytes)
}

func TestLexerValueContinuationStar(t *testing.T) {
	lx := newTestLexer(t, "* item\n")
	lx.SetLineContext(ValueContinuationContext)
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, MultiLineValueListSeparator, tok.Type)
}

func TestLexerIndentationVsSpacing(t *testing.T) {
	lx := newTestLexer(t, "  a: 1\n")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Indentation, tok.Type)
	require.Equal(t, "  ", tok.RawText)
}

func TestLexerCommentToEndOfLine(t *testing.T) {
	lx := newTestLexer(t, "# a comment\nvalue: 1")
	tok, err := lx.Next()
	require.NoError(t, err)
	require.Equal(t, Comment, tok.Type)
	require.Equal(t, "# a comment", tok.RawText)
}

func TestLexerUnterminatedTextLiteralIsUnexpectedEnd(t *testing.T) {
	lx := newTestLexer(t, `"no closing quote`)
	_, err := lx.Next()
	require.Error(t, err)
	var elErr Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, UnexpectedEnd, elErr.Category)
}

func TestLexerStickyErrorAfterFirstFailure(t *testing.T) {
	lx := newTestLexer(t, "\x01")
	_, err1 := lx.Next()
	require.Error(t, err1)
	_, err2 := lx.Next()
	require.Error(t, err2)
	require.Equal(t, err1, err2)
}
