// Package parser drives the lexer token stream of spec §4.4 and builds the
// immutable value tree of spec §4.5: structural enforcement, name-path
// resolution, meta directives, value-list aggregation, and limits.
package parser

import (
	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/value"
)

// MaxIncludeDepth is the include-nesting guard of spec §4.5/§5.
const MaxIncludeDepth = 5

// SignatureOutcome is the validator callback's verdict (spec §4.7).
type SignatureOutcome int

const (
	Accept SignatureOutcome = iota
	Reject
)

func (o SignatureOutcome) String() string {
	if o == Accept {
		return "Accept"
	}
	return "Reject"
}

// SignatureValidator is invoked once, just before Parse returns, when the
// document carried a leading `@signature` line (spec §4.7, "Validation").
type SignatureValidator interface {
	ValidateSignature(source lexer.SourceIdentifier, signatureText string, digest [32]byte) SignatureOutcome
}

// SourceResolver expands an `@include` literal into zero or more byte
// sources to parse recursively (spec §4.6). Implemented by the `source`
// package; kept as an interface here so `parser` does not depend on it.
type SourceResolver interface {
	Resolve(includingSource lexer.SourceIdentifier, pattern string) ([]lexer.ByteSource, error)
}

// Options configures a Parse call.
type Options struct {
	// Resolver expands `@include` directives. A document containing
	// `@include` with no configured Resolver fails with Unsupported.
	Resolver SourceResolver

	// SignatureValidator is consulted for a document carrying
	// `@signature`. A document carrying `@signature` with no configured
	// validator fails with Signature (spec §4.7, "If no validator is
	// configured, presence of @signature is an error").
	SignatureValidator SignatureValidator

	// WithDigest enables the rolling SHA3-256 digest (spec §4.2/§4.8).
	// Forced on automatically when SignatureValidator is set.
	WithDigest bool

	// KnownFeatures is the set of `@features` tokens this build
	// understands (spec §4.5); anything else is Unsupported. Compared
	// case-insensitively the same way a Regular name would be.
	KnownFeatures []string
}

// Parser holds the state of one top-level Parse call, including the
// include stack it owns for its duration (spec §5, "the parser owns the
// include stack for the duration of a parse").
type Parser struct {
	opts         Options
	includeStack []string // canonical paths already being parsed, for cycle detection
}

// Parse reads src to completion and returns a fully populated, immutable
// Document (spec §4.5).
func Parse(src lexer.ByteSource, opts Options) (*value.Document, error) {
	p := &Parser{opts: opts}
	return p.parseRoot(src)
}

func (p *Parser) parseRoot(src lexer.ByteSource) (*value.Document, error) {
	withDigest := p.opts.WithDigest || p.opts.SignatureValidator != nil
	cs := lexer.NewCharacterStream(src, withDigest)
	defer cs.Close()
	dec := lexer.NewTokenDecoder(cs)
	lx := lexer.NewLexer(dec, src.Identifier())

	doc := value.NewDocument(value.NewDocumentRoot(), src.Identifier())
	state := &docState{root: doc.Value, current: doc.Value}
	s := newSourceParser(p, lx, state, src.Identifier())
	if err := s.run(); err != nil {
		return nil, err
	}
	doc.Version = state.version
	doc.Features = state.features
	doc.Signature = state.signatureText
	if withDigest {
		sum := lx.Digest()
		doc.Digest = sum[:]
	}
	if state.sawSignature {
		if p.opts.SignatureValidator == nil {
			return nil, lexer.Errorf(lexer.Signature, lexer.Location{}, "document is signed but no signature validator is configured")
		}
		outcome := p.opts.SignatureValidator.ValidateSignature(src.Identifier(), state.signatureText, lx.Digest())
		if outcome == Reject {
			return nil, lexer.Errorf(lexer.Signature, lexer.Location{}, "signature rejected")
		}
	}
	return doc, nil
}

// docState is the parse state shared across an entire document, root
// source and every `@include` target alike: the value tree under
// construction, the section a key/value line currently attaches to, and
// the meta-directive values collected so far. Spec §4.6's "include
// idempotence" property (inlining F1 then F2 equals parsing their
// concatenation) falls out naturally from every included source sharing
// this same state rather than building its own sub-document.
type docState struct {
	root    *value.Value
	current *value.Value

	sawSignature  bool
	signatureText string
	version       string
	features      []string
}

// sourceParser parses one source (the root, or one `@include` target) to
// completion. ELCL sections are not nested blocks: each `[...]`/`*[...]`
// line fully names its target path (absolute, or relative to whichever
// section was opened last), so "the enclosing section" a key/value line
// attaches to is a single current pointer, not a scope stack.
type sourceParser struct {
	p   *Parser
	lx  *lexer.Lexer
	src lexer.SourceIdentifier
	*docState

	tok Token

	// sawConstruct becomes true once this source's run loop has
	// dispatched its first line. It is per-sourceParser, not part of
	// the shared docState, because "first line" means first line of
	// *this* source — an `@include` target's own leading line is never
	// the root document's first line, no matter when the include runs.
	sawConstruct bool
}

func newSourceParser(p *Parser, lx *lexer.Lexer, state *docState, src lexer.SourceIdentifier) *sourceParser {
	return &sourceParser{p: p, lx: lx, src: src, docState: state}
}

// Token pairs a lexer.Token with the Location it was found at, for error
// reporting that doesn't need to re-derive it from Begin/src each time.
type Token struct {
	lexer.Token
	Loc lexer.Location
}

func (s *sourceParser) loc(pos lexer.Position) lexer.Location {
	return lexer.Location{Source: s.src, Pos: pos}
}

// advance fetches the next significant token, skipping Spacing and
// Comment (which carry no structural meaning) but not LineBreak/
// Indentation, which callers consult directly for line-oriented grammar.
func (s *sourceParser) advance() error {
	for {
		t, err := s.lx.Next()
		if err != nil {
			return err
		}
		s.tok = Token{Token: t, Loc: s.loc(t.Begin)}
		if t.Type != lexer.Spacing && t.Type != lexer.Comment {
			return nil
		}
	}
}

// run drives the top-level line loop: each iteration consumes zero or
// more Indentation/blank-line tokens then dispatches on the first
// significant token of a logical line.
func (s *sourceParser) run() error {
	if err := s.advance(); err != nil {
		return err
	}
	for {
		// Skip blank lines and leading indentation at document scope; a
		// section's own indentation is not semantically meaningful in
		// ELCL (unlike multi-line literal content), so it is discarded
		// here rather than tracked.
		for s.tok.Type == lexer.Indentation || s.tok.Type == lexer.LineBreak {
			if err := s.advance(); err != nil {
				return err
			}
		}
		if s.tok.Type == lexer.EndOfData {
			return nil
		}
		isFirst := !s.sawConstruct
		s.sawConstruct = true
		switch s.tok.Type {
		case lexer.MetaName:
			if err := s.parseMetaLine(isFirst); err != nil {
				return err
			}
		case lexer.SectionMapOpen, lexer.SectionListOpen:
			if err := s.parseSectionOpen(); err != nil {
				return err
			}
		case lexer.RegularName, lexer.Text:
			if err := s.parseKeyValueLine(); err != nil {
				return err
			}
		default:
			return lexer.Errorf(lexer.Syntax, s.tok.Loc, "unexpected %s at start of line", s.tok.Type)
		}
	}
}

// expectEndOfLine consumes trailing Spacing (already skipped by advance)
// and requires a LineBreak or EndOfData next.
func (s *sourceParser) expectEndOfLine() error {
	if s.tok.Type == lexer.LineBreak || s.tok.Type == lexer.EndOfData {
		return nil
	}
	return lexer.Errorf(lexer.Syntax, s.tok.Loc, "expected end of line, found %s", s.tok.Type)
}
