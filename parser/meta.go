package parser

import (
	"strings"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/value"
)

// parseMetaLine consumes one `@name: "..."` line (spec §4.5 "Meta
// directives", §6.1 grammar `meta_line`). Every directive's payload is a
// single text literal; the directive name selects how it is interpreted.
// isFirst reports whether this is the first construct dispatched for
// this particular source, which `@signature` requires of the root
// document (spec §6.1: "only as first non-BOM line").
func (s *sourceParser) parseMetaLine(isFirst bool) error {
	metaLoc := s.tok.Loc
	metaName := s.tok.RawText // includes the leading '@'
	if err := s.advance(); err != nil {
		return err
	}
	if s.tok.Type != lexer.NameValueSeparator {
		return lexer.Errorf(lexer.Syntax, s.tok.Loc, "expected ':' or '=' after %s", metaName)
	}
	if err := s.advance(); err != nil {
		return err
	}
	payload, err := s.parseScalarToken()
	if err != nil {
		return err
	}
	if err := s.expectEndOfLine(); err != nil {
		return err
	}
	if payload.Kind() != value.Text {
		return lexer.Errorf(lexer.Syntax, metaLoc, "%s requires a text literal", metaName)
	}
	text, _ := payload.AsText()

	switch strings.ToLower(metaName) {
	case "@version":
		return s.applyVersion(text, metaLoc)
	case "@features":
		return s.applyFeatures(text, metaLoc)
	case "@signature":
		return s.applySignature(text, metaLoc, isFirst)
	case "@include":
		return s.applyInclude(text, metaLoc)
	default:
		return lexer.Errorf(lexer.Unsupported, metaLoc, "unsupported meta directive %s", metaName)
	}
}

func (s *sourceParser) applyVersion(text string, loc lexer.Location) error {
	if text != "1.0" {
		return lexer.Errorf(lexer.Unsupported, loc, "unsupported document version %q", text)
	}
	s.version = text
	return nil
}

func (s *sourceParser) applyFeatures(text string, loc lexer.Location) error {
	for _, tok := range strings.Fields(text) {
		if !s.featureKnown(tok) {
			return lexer.Errorf(lexer.Unsupported, loc, "unsupported feature %q", tok)
		}
		s.features = append(s.features, tok)
	}
	return nil
}

func (s *sourceParser) featureKnown(tok string) bool {
	if len(s.p.opts.KnownFeatures) == 0 {
		return true
	}
	folded := lexer.NormalizeRegularName(tok)
	for _, known := range s.p.opts.KnownFeatures {
		if lexer.NormalizeRegularName(known) == folded {
			return true
		}
	}
	return false
}

// applySignature records a leading `@signature` line's payload (spec
// §4.7, "Validation"). It is only legal as the first construct of the
// root document: not on a later line, and not inside an `@include`
// target, since an included source is never the signed document
// itself. The character stream has already excluded this line's bytes
// from the digest when the signature-line prefix matched (spec §4.2).
func (s *sourceParser) applySignature(text string, loc lexer.Location, isFirst bool) error {
	if !isFirst || len(s.p.includeStack) != 0 {
		return lexer.Errorf(lexer.Syntax, loc, "@signature is only permitted as the first line of the root document")
	}
	s.sawSignature = true
	s.signatureText = text
	return nil
}

// applyInclude resolves an `@include` literal to zero or more sources
// and recursively parses each one into the shared document state (spec
// §4.6).
func (s *sourceParser) applyInclude(pattern string, loc lexer.Location) error {
	if s.p.opts.Resolver == nil {
		return lexer.Errorf(lexer.Unsupported, loc, "document includes %q but no source resolver is configured", pattern)
	}
	if len(s.p.includeStack) >= MaxIncludeDepth {
		return lexer.Errorf(lexer.LimitExceeded, loc, "include nesting exceeds the maximum depth of %d", MaxIncludeDepth)
	}
	sources, err := s.p.opts.Resolver.Resolve(s.src, pattern)
	if err != nil {
		return err
	}
	for _, src := range sources {
		if err := s.includeOne(src, loc); err != nil {
			return err
		}
	}
	return nil
}

func (s *sourceParser) includeOne(src lexer.ByteSource, loc lexer.Location) error {
	id := src.Identifier().String()
	for _, inStack := range s.p.includeStack {
		if inStack == id {
			return lexer.Errorf(lexer.Syntax, loc, "include loop detected at %q", id)
		}
	}
	s.p.includeStack = append(s.p.includeStack, id)
	defer func() { s.p.includeStack = s.p.includeStack[:len(s.p.includeStack)-1] }()

	withDigest := s.p.opts.WithDigest || s.p.opts.SignatureValidator != nil
	cs := lexer.NewCharacterStream(src, withDigest)
	defer cs.Close()
	dec := lexer.NewTokenDecoder(cs)
	lx := lexer.NewLexer(dec, src.Identifier())
	child := newSourceParser(s.p, lx, s.docState, src.Identifier())
	return child.run()
}
