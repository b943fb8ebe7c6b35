package lexer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, cs *CharacterStream) string {
	t.Helper()
	var out []rune
	for {
		c, err := cs.Next()
		require.NoError(t, err)
		if c.IsEnd() {
			break
		}
		out = append(out, c.Rune)
	}
	return string(out)
}

func TestCharacterStreamDecodesAndTracksPosition(t *testing.T) {
	cs := NewCharacterStream(NewTextByteSource("ab\ncd"), false)
	defer cs.Close()

	c, err := cs.Next()
	require.NoError(t, err)
	require.Equal(t, 'a', c.Rune)
	require.Equal(t, Position{Line: 1, Column: 1, ByteIndex: 0}, c.Pos)

	c, err = cs.Next()
	require.NoError(t, err)
	require.Equal(t, 'b', c.Rune)
	require.Equal(t, Position{Line: 1, Column: 2, ByteIndex: 1}, c.Pos)

	c, err = cs.Next() // '\n'
	require.NoError(t, err)
	require.Equal(t, '\n', c.Rune)

	c, err = cs.Next() // 'c', now on line 2
	require.NoError(t, err)
	require.Equal(t, 'c', c.Rune)
	require.Equal(t, 2, c.Pos.Line)
	require.Equal(t, 1, c.Pos.Column)
}

// repeatingLineSource hands back the same line forever, so a document-size
// test doesn't need to materialize tens of megabytes as a single string
// literal.
type repeatingLineSource struct {
	line []byte
}

func (s *repeatingLineSource) Identifier() SourceIdentifier { return TextSourceIdentifier }
func (s *repeatingLineSource) ReadLine() ([]byte, error)     { return s.line, nil }
func (s *repeatingLineSource) Close() error                  { return nil }

func TestCharacterStreamEnforcesMaxDocumentSize(t *testing.T) {
	line := append(bytes.Repeat([]byte("a"), MaxLineLength), '\n')
	cs := NewCharacterStream(&repeatingLineSource{line: line}, false)
	defer cs.Close()

	var err error
	for i := 0; i < MaxDocumentSize/len(line)+2; i++ {
		_, err = cs.Next()
		if err != nil {
			break
		}
		// drain the rest of this line's characters before fetching the next
		for j := 0; j < len(line)-1; j++ {
			if _, err = cs.Next(); err != nil {
				break
			}
		}
		if err != nil {
			break
		}
	}
	require.Error(t, err)
	var elErr Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, LimitExceeded, elErr.Category)
}

func TestCharacterStreamStripsLeadingBOM(t *testing.T) {
	cs := NewCharacterStream(NewTextByteSource("﻿hello"), false)
	defer cs.Close()
	require.Equal(t, "hello", readAll(t, cs))
}

func TestCharacterStreamRejectsBOMNotAtStart(t *testing.T) {
	cs := NewCharacterStream(NewTextByteSource("a﻿b"), false)
	defer cs.Close()
	_, err := cs.Next() // 'a'
	require.NoError(t, err)
	_, err = cs.Next()
	require.Error(t, err)
	var elErr Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, Encoding, elErr.Category)
}

func TestCharacterStreamRejectsControlCharacters(t *testing.T) {
	cs := NewCharacterStream(NewTextByteSource("a\x01b"), false)
	defer cs.Close()
	_, err := cs.Next()
	require.NoError(t, err)
	_, err = cs.Next()
	require.Error(t, err)
	var elErr Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, Character, elErr.Category)
}

func TestCharacterStreamDigestExcludesSignatureLine(t *testing.T) {
	withSig := NewCharacterStream(NewTextByteSource("@signature: \"abc\"\n[main]\nvalue: 1\n"), true)
	defer withSig.Close()
	readAll(t, withSig)

	without := NewCharacterStream(NewTextByteSource("[main]\nvalue: 1\n"), true)
	defer without.Close()
	readAll(t, without)

	require.Equal(t, without.Digest(), withSig.Digest())
}

func TestCharacterStreamLoneCRAdvancesLine(t *testing.T) {
	cs := NewCharacterStream(NewTextByteSource("a\rb"), false)
	defer cs.Close()
	c, err := cs.Next()
	require.NoError(t, err)
	require.Equal(t, 'a', c.Rune)
	c, err = cs.Next() // '\r'
	require.NoError(t, err)
	require.Equal(t, '\r', c.Rune)
	c, err = cs.Next() // 'b', now on line 2 because of the lone CR
	require.NoError(t, err)
	require.Equal(t, 'b', c.Rune)
	require.Equal(t, 2, c.Pos.Line)
}
