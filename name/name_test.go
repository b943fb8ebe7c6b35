package name

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegularNameNormalisationEquality(t *testing.T) {
	a, err := NewRegular("Connect")
	require.NoError(t, err)
	b, err := NewRegular("connect")
	require.NoError(t, err)
	c, err := NewRegular("CONNECT")
	require.NoError(t, err)
	d, err := NewRegular("Con Nect")
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.True(t, a.Equal(c))
	require.Equal(t, "con_nect", d.Word())
	require.Equal(t, "connect", a.Word())
}

func TestRegularNameRejectsLeadingDigit(t *testing.T) {
	_, err := NewRegular("1abc")
	require.Error(t, err)
}

func TestRegularNameRejectsDoubledSeparator(t *testing.T) {
	_, err := NewRegular("a__b")
	require.Error(t, err)
}

func TestTextNameEscaping(t *testing.T) {
	n := NewText(`has "quote" and . dot`)
	require.Equal(t, `"has \"quote\" and \. dot"`, n.String())
}

func TestPathStringMatchesCanonicalExample(t *testing.T) {
	a, _ := NewRegular("a")
	b, _ := NewRegular("b")
	c, _ := NewRegular("c")
	d, _ := NewRegular("d")
	p, err := New(a, b, c, NewIndex(3), d, NewText("text"), NewText(""), NewTextIndex(0))
	require.NoError(t, err)
	require.Equal(t, `a.b.c[3].d."text"."".[0]`, p.String())
}

func TestPathParseRoundTrips(t *testing.T) {
	for _, text := range []string{
		"a.b.c",
		`a.b.c[3].d."text"."".[0]`,
		`server.name`,
		`"quoted name"`,
	} {
		p, err := Parse(text)
		require.NoError(t, err, "parsing %q", text)
		require.Equal(t, text, p.String(), "round-trip of %q", text)
	}
}

func TestPathAppendRejectsDepthOverflow(t *testing.T) {
	p := Root
	var err error
	for i := 0; i < MaxPathDepth; i++ {
		p, err = p.Append(NewIndex(uint32(i)))
		require.NoError(t, err)
	}
	_, err = p.Append(NewIndex(99))
	require.Error(t, err)
}

func TestPathParentAndLast(t *testing.T) {
	p, err := Parse("a.b.c")
	require.NoError(t, err)
	last, ok := p.Last()
	require.True(t, ok)
	require.Equal(t, Regular, last.Kind())
	require.Equal(t, "c", last.Word())

	parent, ok := p.Parent()
	require.True(t, ok)
	require.Equal(t, "a.b", parent.String())

	_, ok = Root.Parent()
	require.False(t, ok)
}

func TestPathIsRoot(t *testing.T) {
	require.True(t, Root.IsRoot())
	p, _ := Parse("a")
	require.False(t, p.IsRoot())
}
