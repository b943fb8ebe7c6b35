package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

func tree() MapFS {
	return MapFS{
		"srv/conf/main.elcl":          "@version: \"1.0\"\n",
		"srv/conf/db.elcl":            "host: \"localhost\"\n",
		"srv/conf/extra.elcl":         "flag: true\n",
		"srv/conf/modules/a.elcl":     "a: 1\n",
		"srv/conf/modules/b.elcl":     "b: 2\n",
		"srv/conf/modules/sub/c.elcl": "c: 3\n",
		"srv/other/outside.elcl":      "x: 1\n",
	}
}

func mainSource() lexer.SourceIdentifier {
	return lexer.NewFileSourceIdentifier("/srv/conf/main.elcl")
}

func TestResolveExactFile(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	sources, err := r.Resolve(mainSource(), "db.elcl")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	require.Equal(t, "/srv/conf/db.elcl", sources[0].Identifier().Path)
}

func TestResolveSingleStarWildcard(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	sources, err := r.Resolve(mainSource(), "*.elcl")
	require.NoError(t, err)
	var names []string
	for _, s := range sources {
		names = append(names, s.Identifier().Path)
	}
	require.Equal(t, []string{"/srv/conf/db.elcl", "/srv/conf/extra.elcl", "/srv/conf/main.elcl"}, names)
}

func TestResolveDoubleStarWildcard(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	sources, err := r.Resolve(mainSource(), "modules/**/*.elcl")
	require.NoError(t, err)
	var names []string
	for _, s := range sources {
		names = append(names, s.Identifier().Path)
	}
	require.Equal(t, []string{
		"/srv/conf/modules/a.elcl",
		"/srv/conf/modules/b.elcl",
		"/srv/conf/modules/sub/c.elcl",
	}, names)
}

func TestResolveNonWildcardMissReturnsSyntaxError(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	_, err := r.Resolve(mainSource(), "missing.elcl")
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Syntax, elErr.Category)
}

func TestResolveWildcardMissIsNotAnError(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	sources, err := r.Resolve(mainSource(), "nothing-*.elcl")
	require.NoError(t, err)
	require.Empty(t, sources)
}

func TestAccessPolicyDeniesOutsideDirectoryByDefault(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	_, err := r.Resolve(mainSource(), "../other/outside.elcl")
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Access, elErr.Category)
}

func TestAccessPolicyAnyDirectoryAllowsOutside(t *testing.T) {
	r := NewFSResolver(tree(), AccessPolicy{Flags: AnyDirectory})
	sources, err := r.Resolve(mainSource(), "../other/outside.elcl")
	require.NoError(t, err)
	require.Len(t, sources, 1)
}

func TestAccessPolicyRequireSuffixRejectsOther(t *testing.T) {
	m := tree()
	m["srv/conf/notes.txt"] = "ignored\n"
	r := NewFSResolver(m, AccessPolicy{Flags: SameDirectory | Subdirectories | RequireSuffix, Suffix: ".elcl"})
	_, err := r.Resolve(mainSource(), "notes.txt")
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Access, elErr.Category)
}

func TestResolveRejectsMixedDoubleStarSegment(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	_, err := r.Resolve(mainSource(), "modules/**x/c.elcl")
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Syntax, elErr.Category)
}

func TestResolveDirectoryTargetIsSyntaxError(t *testing.T) {
	r := NewFSResolver(tree(), DefaultAccessPolicy())
	_, err := r.Resolve(mainSource(), "modules")
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Syntax, elErr.Category)
}

func TestOnlyFileSourcesRejectsTextRoot(t *testing.T) {
	r := NewFSResolver(tree(), AccessPolicy{Flags: OnlyFileSources})
	_, err := r.Resolve(lexer.TextSourceIdentifier, "db.elcl")
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.Access, elErr.Category)
}
