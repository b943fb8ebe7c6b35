// Package sign implements the out-of-band signing tool and the parser
// validator hook of spec §4.7: computing a document's digest with its
// signature line excluded, invoking a caller-supplied signer, and
// writing the signed document to the destination file. The destination
// is written once, with the real signature line; no placeholder line is
// written to disk.
package sign

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/parser"
)

// MaxSignaturePayload is the signature text's own size guard, derived
// from the line-length limit (spec §4.7: "escapable to ≤
// max_line_length − 20 bytes").
const MaxSignaturePayload = lexer.MaxLineLength - 20

// SigningFunc produces a signature for a document, given its identity,
// the signing person's label, and its digest (spec §4.7, step 2).
type SigningFunc func(source lexer.SourceIdentifier, signingPerson string, docDigest [32]byte) (string, error)

// Signer drives the sign algorithm of spec §4.7. The placeholder check
// runs in memory over the bytes read at the start, so it does not detect
// changes made to the source file after that read.
type Signer struct {
	SigningPerson string
	Sign          SigningFunc
}

// SignFile reads sourcePath, invokes Sign with its digest (excluding
// any existing `@signature:` line), and writes the signed document to
// destPath. sourcePath and destPath may be the same file.
func (s *Signer) SignFile(sourcePath, destPath string) error {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		id := lexer.NewFileSourceIdentifier(sourcePath)
		return lexer.Error{Category: lexer.IO, Message: err.Error(), Location: lexer.Location{Source: id}}
	}
	id := lexer.NewFileSourceIdentifier(sourcePath)
	crlf := bytes.Contains(raw, []byte("\r\n"))

	digestBefore, err := digestOf(raw, id)
	if err != nil {
		return err
	}

	signatureText, err := s.Sign(id, s.SigningPerson, digestBefore)
	if err != nil {
		return err
	}
	if err := validateSignatureText(signatureText); err != nil {
		return err
	}

	body := stripLeadingSignatureLine(raw)
	eol := "\n"
	if crlf {
		eol = "\r\n"
	}

	placeholder := placeholderLine(signatureText, eol)
	pass1 := append([]byte(placeholder), body...)

	digestAfter, err := digestOf(pass1, id)
	if err != nil {
		return err
	}
	if digestAfter != digestBefore {
		return lexer.Errorf(lexer.Signature, lexer.Location{Source: id}, "source %q changed while signing", sourcePath)
	}

	finalLine := "@signature: \"" + escapeText(signatureText) + "\"" + eol
	final := append([]byte(finalLine), body...)

	if err := os.WriteFile(destPath, final, 0o644); err != nil {
		return lexer.Error{Category: lexer.IO, Message: err.Error(), Location: lexer.Location{Source: id}}
	}
	return nil
}

func validateSignatureText(text string) error {
	if text == "" {
		return lexer.Errorf(lexer.Signature, lexer.Location{}, "signature text must not be empty")
	}
	if len(escapeText(text)) > MaxSignaturePayload {
		return lexer.Errorf(lexer.Signature, lexer.Location{}, "signature text exceeds %d bytes once escaped", MaxSignaturePayload)
	}
	return nil
}

// placeholderLine renders a signature line with the same byte width as
// the real one will have, so the pass-A digest check compares like
// with like (spec §4.7, "same width as real line").
func placeholderLine(signatureText, eol string) string {
	width := len(escapeText(signatureText))
	return fmt.Sprintf("@signature: \"%s\"%s", bytes.Repeat([]byte("x"), width), eol)
}

func stripLeadingSignatureLine(raw []byte) []byte {
	trimmed := bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if !bytes.HasPrefix(trimmed, []byte("@signature:")) {
		return raw
	}
	if i := bytes.IndexByte(trimmed, '\n'); i >= 0 {
		return trimmed[i+1:]
	}
	return nil
}

// digestOf computes the document digest spec §4.2 defines, reusing the
// same CharacterStream a real parse uses so the signer's notion of
// "digest" can never drift from the parser's.
func digestOf(content []byte, id lexer.SourceIdentifier) ([32]byte, error) {
	src := &rawByteSource{id: id, content: content}
	cs := lexer.NewCharacterStream(src, true)
	defer cs.Close()
	for {
		c, err := cs.Next()
		if err != nil {
			return [32]byte{}, err
		}
		if c.IsEnd() {
			break
		}
	}
	return cs.Digest(), nil
}

// rawByteSource feeds pre-read bytes to a CharacterStream line by line,
// used instead of lexer.NewTextByteSource so the digest carries the
// real file's SourceIdentifier rather than the fixed text identity.
type rawByteSource struct {
	id      lexer.SourceIdentifier
	content []byte
	pos     int
}

func (s *rawByteSource) Identifier() lexer.SourceIdentifier { return s.id }

func (s *rawByteSource) ReadLine() ([]byte, error) {
	if s.pos >= len(s.content) {
		return nil, io.EOF
	}
	i := bytes.IndexByte(s.content[s.pos:], '\n')
	var line []byte
	if i < 0 {
		line = s.content[s.pos:]
		s.pos = len(s.content)
	} else {
		line = s.content[s.pos : s.pos+i+1]
		s.pos += i + 1
	}
	return line, nil
}

func (s *rawByteSource) Close() error { return nil }

// Validator adapts a plain verification function into a
// parser.SignatureValidator.
type Validator struct {
	Verify func(source lexer.SourceIdentifier, signatureText string, docDigest [32]byte) bool
}

func (v *Validator) ValidateSignature(source lexer.SourceIdentifier, signatureText string, docDigest [32]byte) parser.SignatureOutcome {
	if v.Verify(source, signatureText, docDigest) {
		return parser.Accept
	}
	return parser.Reject
}
