package lexer

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/erbsland-dev/erbsland-conf-go/digest"
)

var bomBytes = []byte{0xEF, 0xBB, 0xBF}
var signatureLinePrefix = []byte("@signature:")

// MaxDocumentSize is the hard per-source byte guard from spec §4.5/§5
// ("document size (bytes) ≤ an implementation limit"). It bounds the raw
// bytes read from a single ByteSource, including bytes skipped as part of
// a BOM or an excluded `@signature:` line — every byte ReadLine hands back
// counts, matching how a reader of the original document would size it
// on disk.
const MaxDocumentSize = 50 * 1024 * 1024

// CharacterStream decodes a ByteSource into Unicode scalar values with
// position tracking and an optional rolling SHA3-256 digest (spec §4.2).
//
// A CharacterStream is single-use: construct a new one to re-read a
// source (spec §4.2, "restartable only by constructing a new one").
type CharacterStream struct {
	src ByteSource

	line    []byte // current raw line, BOM-stripped if this is line 1
	linePos int     // byte offset of the next undecoded byte in line

	curLine   int
	curCol    int
	byteIndex int

	fetchedAnyLine bool
	eof            bool
	sticky         error

	totalBytes int

	digestEnabled bool
	dig           *digest.Digest
}

// NewCharacterStream wraps src. When withDigest is true, a rolling
// SHA3-256 digest is maintained, excluding a leading `@signature:` line and
// a leading BOM (spec §3).
func NewCharacterStream(src ByteSource, withDigest bool) *CharacterStream {
	cs := &CharacterStream{
		src:           src,
		curLine:       1,
		curCol:        1,
		digestEnabled: withDigest,
	}
	if withDigest {
		cs.dig = digest.New()
	}
	return cs
}

// Close closes the underlying ByteSource.
func (cs *CharacterStream) Close() error {
	return cs.src.Close()
}

// Digest returns the digest accumulated so far. Only meaningful if this
// stream was constructed with withDigest true.
func (cs *CharacterStream) Digest() [digest.Size]byte {
	if cs.dig == nil {
		return [digest.Size]byte{}
	}
	return cs.dig.Sum()
}

// Next decodes and returns the next character, advancing the stream. Once
// exhausted it keeps returning the EndOfData sentinel. A non-nil error puts
// the stream into a sticky errored state: every subsequent call returns the
// same error (spec §4.4, "errors abort the stream").
func (cs *CharacterStream) Next() (Char, error) {
	if cs.sticky != nil {
		return Char{}, cs.sticky
	}
	c, err := cs.next()
	if err != nil {
		cs.sticky = err
		return Char{}, err
	}
	return c, nil
}

func (cs *CharacterStream) next() (Char, error) {
	if cs.linePos >= len(cs.line) {
		if cs.eof {
			return endCharacter(Position{Line: cs.curLine, Column: cs.curCol, ByteIndex: cs.byteIndex}), nil
		}
		if err := cs.fetchLine(); err != nil {
			return Char{}, err
		}
		if cs.eof {
			return endCharacter(Position{Line: cs.curLine, Column: cs.curCol, ByteIndex: cs.byteIndex}), nil
		}
	}

	pos := Position{Line: cs.curLine, Column: cs.curCol, ByteIndex: cs.byteIndex}

	r, w := utf8.DecodeRune(cs.line[cs.linePos:])
	if r == utf8.RuneError && w <= 1 {
		return Char{}, Error{Category: Encoding, Message: "invalid UTF-8 sequence", Location: Location{Source: cs.src.Identifier(), Pos: pos}}
	}
	if r > utf8.MaxRune {
		return Char{}, Error{Category: Encoding, Message: "code point beyond U+10FFFF", Location: Location{Source: cs.src.Identifier(), Pos: pos}}
	}
	if r == '\uFEFF' {
		// BOM is only legal as the very first character; fetchLine already
		// stripped a leading BOM on line 1, so any FEFF we decode here is
		// either on line 1 but not at offset 0, or on a later line.
		return Char{}, Error{Category: Encoding, Message: "byte order mark is only valid at the start of the source", Location: Location{Source: cs.src.Identifier(), Pos: pos}}
	}
	if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
		return Char{}, Error{Category: Character, Message: "control character not permitted", Location: Location{Source: cs.src.Identifier(), Pos: pos}}
	}

	cs.linePos += w
	cs.byteIndex += w

	switch r {
	case '\n':
		cs.curLine++
		cs.curCol = 1
	case '\r':
		if cs.linePos < len(cs.line) && cs.line[cs.linePos] == '\n' {
			cs.curCol++ // CRLF: let the following '\n' bump the line
		} else {
			cs.curLine++
			cs.curCol = 1
		}
	default:
		cs.curCol++
	}

	return Char{Rune: r, Pos: pos}, nil
}

func (cs *CharacterStream) fetchLine() error {
	raw, err := cs.src.ReadLine()
	if err == io.EOF {
		cs.eof = true
		cs.line = nil
		cs.linePos = 0
		return nil
	}
	if err != nil {
		return err
	}

	firstLine := !cs.fetchedAnyLine
	cs.fetchedAnyLine = true

	cs.totalBytes += len(raw)
	if cs.totalBytes > MaxDocumentSize {
		return Error{Category: LimitExceeded, Message: "document exceeds maximum size", Location: Location{Source: cs.src.Identifier(), Pos: Position{Line: cs.curLine, Column: cs.curCol, ByteIndex: cs.byteIndex}}}
	}

	if firstLine && bytes.HasPrefix(raw, bomBytes) {
		raw = raw[len(bomBytes):]
	}

	if cs.digestEnabled {
		if firstLine && bytes.HasPrefix(raw, signatureLinePrefix) {
			// excluded from the digest entirely, including its line break
		} else {
			cs.dig.Update(raw)
		}
	}

	cs.line = raw
	cs.linePos = 0
	return nil
}
