package parser

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/value"
)

func TestParseKeyValueScalarAndList(t *testing.T) {
	doc, err := Parse(lexer.NewTextByteSource("host: \"localhost\"\nports: 80, 443\n"), Options{})
	require.NoError(t, err)

	host, err := doc.Value.GetTextThrow(mustPath(t, "host"))
	require.NoError(t, err)
	require.Equal(t, "localhost", host)

	ports, err := doc.Value.GetIntList(mustPath(t, "ports"))
	require.NoError(t, err)
	require.Equal(t, []int64{80, 443}, ports)
}

func TestParseMultiLineValueList(t *testing.T) {
	doc, err := Parse(lexer.NewTextByteSource("tags:\n  * \"a\"\n  * \"b\"\n  * \"c\"\n"), Options{})
	require.NoError(t, err)
	tags, err := doc.Value.GetTextList(mustPath(t, "tags"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, tags)
}

func TestParseSectionNestingAndRelativeNames(t *testing.T) {
	doc, err := Parse(lexer.NewTextByteSource("[server]\nhost: \"localhost\"\n[.tls]\nenabled: true\n"), Options{})
	require.NoError(t, err)
	require.True(t, doc.Value.Exists(mustPath(t, "server", "host")))
	require.True(t, doc.Value.Exists(mustPath(t, "server", "tls", "enabled")))
}

func TestParseSectionListAppendsElements(t *testing.T) {
	doc, err := Parse(lexer.NewTextByteSource("*[worker]\nname: \"a\"\n*[worker]\nname: \"b\"\n"), Options{})
	require.NoError(t, err)
	list := doc.Value.Lookup(mustPath(t, "worker"))
	require.NotNil(t, list)
	require.Equal(t, value.SectionList, list.Kind())
	require.Equal(t, 2, list.Size())
}

func TestParseDuplicateKeyIsNameConflict(t *testing.T) {
	err := parseText(t, "a: 1\na: 2\n", Options{})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.NameConflict, elErr.Category)
}

func TestParseKeyCollidingWithIntermediateSectionIsNameConflict(t *testing.T) {
	err := parseText(t, "a: 1\n[a.b]\nc: 2\n", Options{})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.NameConflict, elErr.Category)
}

func TestParseIncludeSharesDocumentState(t *testing.T) {
	resolver := mapResolver{"child.elcl": "b: 2\n"}
	doc, err := Parse(lexer.NewTextByteSource("a: 1\n@include: \"child.elcl\"\nc: 3\n"), Options{Resolver: resolver})
	require.NoError(t, err)
	require.True(t, doc.Value.Exists(mustPath(t, "a")))
	require.True(t, doc.Value.Exists(mustPath(t, "b")))
	require.True(t, doc.Value.Exists(mustPath(t, "c")))
}

func TestParseIncludeWithoutResolverIsUnsupported(t *testing.T) {
	err := parseText(t, "@include: \"child.elcl\"\n", Options{})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Unsupported, elErr.Category)
}

// cyclicResolver always resolves to the same single ByteSource so that
// recursive `@include` of it detects a cycle via identity rather than
// running away to MaxIncludeDepth.
type cyclicResolver struct{}

func (cyclicResolver) Resolve(including lexer.SourceIdentifier, pattern string) ([]lexer.ByteSource, error) {
	return []lexer.ByteSource{lexer.NewTextByteSource("@include: \"self.elcl\"\n")}, nil
}

func TestParseIncludeLoopIsDetected(t *testing.T) {
	err := parseText(t, "@include: \"self.elcl\"\n", Options{Resolver: cyclicResolver{}})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Syntax, elErr.Category)
}

// depthResolver resolves every pattern to a distinctly-identified source
// that itself includes the next one, so a chain of includes hits
// MaxIncludeDepth by nesting rather than by looping back to an identical
// source (which includeOne would instead reject as a cycle).
type depthResolver struct{ n int }

func (r *depthResolver) Resolve(including lexer.SourceIdentifier, pattern string) ([]lexer.ByteSource, error) {
	r.n++
	next := pattern + "+"
	return []lexer.ByteSource{&namedTextSource{
		id:      lexer.NewFileSourceIdentifier("/virtual/" + pattern),
		content: "@include: \"" + next + "\"\n",
	}}, nil
}

// namedTextSource is a ByteSource whose SourceIdentifier is caller-
// supplied, unlike lexer.NewTextByteSource's fixed "text" identity, so a
// chain of includes doesn't collapse into a false cycle before it can
// reach MaxIncludeDepth.
type namedTextSource struct {
	id      lexer.SourceIdentifier
	content string
	read    bool
}

func (s *namedTextSource) Identifier() lexer.SourceIdentifier { return s.id }

func (s *namedTextSource) ReadLine() ([]byte, error) {
	if s.read {
		return nil, io.EOF
	}
	s.read = true
	return []byte(s.content), nil
}

func (s *namedTextSource) Close() error { return nil }

func TestParseIncludeDepthLimitIsEnforced(t *testing.T) {
	err := parseText(t, "@include: \"a\"\n", Options{Resolver: &depthResolver{}})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.LimitExceeded, elErr.Category)
}

func TestParseSectionPathDepthLimitIsEnforced(t *testing.T) {
	// 11 elements exceeds name.MaxPathDepth (10).
	err := parseText(t, "[a.b.c.d.e.f.g.h.i.j.k]\n", Options{})
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.LimitExceeded, elErr.Category)
}
