// Package conf is the application-facing facade over lexer/name/value/
// parser/source/sign: Parse/ParseFile/ParseString, Options, and the
// logging glue around include resolution and signature verification
// (mirrors the teacher's root `sqlcode` package sitting atop its
// internal `sqlparser`).
package conf

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/parser"
	"github.com/erbsland-dev/erbsland-conf-go/source"
	"github.com/erbsland-dev/erbsland-conf-go/value"
)

// Error is the category+location+message+path error every ELCL
// operation returns (spec §6.5). conf does not wrap it in a distinct
// type: lexer.Error already carries everything a caller needs, and
// errors.As(err, *Error) recovers it through any layer that wraps it.
type Error = lexer.Error

// Options configures a parse through the conf facade. The zero value
// is a usable configuration: ParseFile resolves includes with the default
// access policy, ParseString and Parse reject includes, no signature
// validator is configured, and no feature restrictions apply.
type Options struct {
	// Resolver expands `@include` directives. If nil, ParseFile defaults
	// to a source.Resolver built from AccessPolicy. ParseString and Parse
	// leave it nil unless set explicitly, so a document they parse that
	// uses `@include` fails with Unsupported.
	Resolver parser.SourceResolver

	// AccessPolicy configures the default Resolver that ParseFile builds;
	// the zero AccessPolicy stands for source.DefaultAccessPolicy().
	// Ignored if Resolver is set explicitly.
	AccessPolicy source.AccessPolicy

	// SignatureValidator is consulted for a document carrying
	// `@signature`.
	SignatureValidator parser.SignatureValidator

	// WithDigest enables the rolling digest even when no
	// SignatureValidator is configured.
	WithDigest bool

	// KnownFeatures is the set of `@features` tokens this build
	// understands.
	KnownFeatures []string

	// Log receives Debug/Trace diagnostics (include resolution steps,
	// signature verification outcome). Defaults to logrus's standard
	// logger.
	Log logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Log != nil {
		return o.Log
	}
	return logrus.StandardLogger()
}

func (o Options) parserOptions(resolver parser.SourceResolver, log logrus.FieldLogger) parser.Options {
	var validator parser.SignatureValidator
	if o.SignatureValidator != nil {
		validator = loggingValidator{inner: o.SignatureValidator, log: log}
	}
	var res parser.SourceResolver
	if resolver != nil {
		res = loggingResolver{inner: resolver, log: log}
	}
	return parser.Options{
		Resolver:           res,
		SignatureValidator: validator,
		WithDigest:         o.WithDigest,
		KnownFeatures:      o.KnownFeatures,
	}
}

// ParseFile parses the ELCL document at path. Relative `@include`
// literals resolve against path's directory unless Options.Resolver is
// set explicitly.
func ParseFile(path string, opts Options) (*value.Document, error) {
	canon, err := filepath.Abs(path)
	if err != nil {
		id := lexer.NewFileSourceIdentifier(path)
		return nil, lexer.Error{Category: lexer.IO, Message: err.Error(), Location: lexer.Location{Source: id}}
	}
	src, err := lexer.OpenFileByteSource(canon)
	if err != nil {
		return nil, err
	}
	resolver := opts.Resolver
	if resolver == nil {
		policy := opts.AccessPolicy
		if policy == (source.AccessPolicy{}) {
			policy = source.DefaultAccessPolicy()
		}
		resolver = source.NewResolver(policy)
	}
	return parseWith(src, opts, resolver)
}

// ParseString parses content as an in-memory ELCL document.
func ParseString(content string, opts Options) (*value.Document, error) {
	return parseWith(lexer.NewTextByteSource(content), opts, opts.Resolver)
}

// Parse parses an already-constructed ByteSource — the escape hatch for
// a caller supplying its own lexer.ByteSource implementation.
func Parse(src lexer.ByteSource, opts Options) (*value.Document, error) {
	return parseWith(src, opts, opts.Resolver)
}

func parseWith(src lexer.ByteSource, opts Options, resolver parser.SourceResolver) (*value.Document, error) {
	log := opts.logger().WithField("source", src.Identifier().String())
	log.Debug("parsing document")
	doc, err := parser.Parse(src, opts.parserOptions(resolver, log))
	if err != nil {
		log.WithError(err).Debug("parse failed")
		return nil, err
	}
	log.WithField("version", doc.Version).Debug("parse complete")
	return doc, nil
}

// loggingResolver wraps a parser.SourceResolver with Trace-level
// diagnostics for each `@include` pattern resolved, and a Debug-level
// line when resolution fails.
type loggingResolver struct {
	inner parser.SourceResolver
	log   logrus.FieldLogger
}

func (r loggingResolver) Resolve(including lexer.SourceIdentifier, pattern string) ([]lexer.ByteSource, error) {
	entry := r.log.WithField("pattern", pattern)
	entry.Trace("resolving include")
	sources, err := r.inner.Resolve(including, pattern)
	if err != nil {
		entry.WithError(err).Debug("include resolution failed")
		return nil, err
	}
	entry.WithField("matches", len(sources)).Trace("include resolved")
	return sources, nil
}

// loggingValidator wraps a parser.SignatureValidator with a Debug-level
// line recording the verification outcome.
type loggingValidator struct {
	inner parser.SignatureValidator
	log   logrus.FieldLogger
}

func (v loggingValidator) ValidateSignature(src lexer.SourceIdentifier, signatureText string, digest [32]byte) parser.SignatureOutcome {
	outcome := v.inner.ValidateSignature(src, signatureText, digest)
	v.log.WithField("outcome", outcome).Debug("signature verification outcome")
	return outcome
}
