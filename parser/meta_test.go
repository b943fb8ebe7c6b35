package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
)

func mustPath(t *testing.T, elems ...string) name.Path {
	t.Helper()
	ns := make([]name.Name, 0, len(elems))
	for _, e := range elems {
		n, err := name.NewRegular(e)
		require.NoError(t, err)
		ns = append(ns, n)
	}
	p, err := name.New(ns...)
	require.NoError(t, err)
	return p
}

func parseText(t *testing.T, text string, opts Options) (err error) {
	t.Helper()
	_, err = Parse(lexer.NewTextByteSource(text), opts)
	return err
}

func TestVersionMustBeExactly10(t *testing.T) {
	err := parseText(t, "@version: \"1.0\"\na: 1\n", Options{})
	require.NoError(t, err)

	err = parseText(t, "@version: \"1.1\"\na: 1\n", Options{})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Unsupported, elErr.Category)
}

func TestFeaturesRequireKnownList(t *testing.T) {
	err := parseText(t, "@features: \"sql json\"\na: 1\n", Options{KnownFeatures: []string{"SQL", "JSON"}})
	require.NoError(t, err)

	err = parseText(t, "@features: \"xml\"\na: 1\n", Options{KnownFeatures: []string{"sql"}})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Unsupported, elErr.Category)
}

func TestSignatureMustBeFirstLineOfRoot(t *testing.T) {
	doc, err := Parse(lexer.NewTextByteSource("@signature: \"abc\"\na: 1\n"), Options{SignatureValidator: acceptAllValidator{}})
	require.NoError(t, err)
	require.Equal(t, "abc", doc.Signature)
}

// acceptAllValidator accepts every signature; a signed document parsed
// with no validator at all fails with Signature.
type acceptAllValidator struct{}

func (acceptAllValidator) ValidateSignature(lexer.SourceIdentifier, string, [32]byte) SignatureOutcome {
	return Accept
}

func TestSignatureAfterFirstLineIsRejected(t *testing.T) {
	err := parseText(t, "a: 1\n@signature: \"abc\"\n", Options{})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Syntax, elErr.Category)
}

func TestSignatureInsideIncludeIsRejected(t *testing.T) {
	resolver := mapResolver{"child.elcl": "@signature: \"abc\"\na: 1\n"}
	err := parseText(t, "@include: \"child.elcl\"\n", Options{Resolver: resolver})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Syntax, elErr.Category)
}

// mapResolver is a minimal SourceResolver backed by an in-memory map,
// used where a test needs `@include` without exercising the `source`
// package's glob/access-policy machinery.
type mapResolver map[string]string

func (m mapResolver) Resolve(including lexer.SourceIdentifier, pattern string) ([]lexer.ByteSource, error) {
	content, ok := m[pattern]
	if !ok {
		return nil, lexer.Errorf(lexer.Syntax, lexer.Location{Source: including}, "no such include %q", pattern)
	}
	return []lexer.ByteSource{lexer.NewTextByteSource(content)}, nil
}
