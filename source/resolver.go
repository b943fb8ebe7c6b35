// Package source implements `@include` resolution (spec §4.6): glob
// expansion against a filesystem, access-policy enforcement, and
// canonical-path sorting. It supplies the parser.SourceResolver the
// parser package depends on as an interface only.
package source

import (
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

// Resolver implements parser.SourceResolver by walking an fs.FS
// conceptually rooted at "/" for every pattern, so relative and
// absolute include literals are resolved the same way regardless of
// whether FS is the real OS filesystem or an in-memory tree built for
// tests.
type Resolver struct {
	FS     fs.FS
	Policy AccessPolicy

	// Open builds a ByteSource for one resolved path (fs.FS-relative,
	// no leading slash). Defaults to opening the real OS file at
	// "/"+relPath through lexer.OpenFileByteSource.
	Open func(relPath string) (lexer.ByteSource, error)
}

// NewResolver builds a Resolver over the real OS filesystem rooted at
// "/", with policy applied to every resolved include.
func NewResolver(policy AccessPolicy) *Resolver {
	return &Resolver{FS: os.DirFS("/"), Policy: policy}
}

// NewFSResolver builds a Resolver over an arbitrary fs.FS — typically
// an in-memory tree for tests — opening matches through fsys itself
// instead of the real OS filesystem.
func NewFSResolver(fsys fs.FS, policy AccessPolicy) *Resolver {
	return &Resolver{
		FS:     fsys,
		Policy: policy,
		Open: func(relPath string) (lexer.ByteSource, error) {
			return newFSByteSource(fsys, relPath)
		},
	}
}

// Resolve implements parser.SourceResolver.
func (r *Resolver) Resolve(including lexer.SourceIdentifier, pattern string) ([]lexer.ByteSource, error) {
	loc := lexer.Location{Source: including}
	includingIsFile := including.Kind == lexer.SourceFile
	if !includingIsFile && r.Policy.Flags&OnlyFileSources != 0 {
		return nil, lexer.Errorf(lexer.Access, loc, "includes are only permitted from a file source")
	}

	var baseDir string
	if includingIsFile {
		baseDir = path.Dir(strings.TrimPrefix(including.Path, "/"))
		if baseDir == "." {
			baseDir = ""
		}
	}

	parsed, err := parseIncludePattern(pattern, baseDir, loc)
	if err != nil {
		return nil, err
	}
	matches, err := matchGlob(r.fsys(), "", parsed.segments, loc)
	if err != nil {
		return nil, err
	}
	matches = sortedUnique(matches)
	if len(matches) == 0 && !parsed.wildcard {
		return nil, lexer.Errorf(lexer.Syntax, loc, "could not find include %q", pattern)
	}

	sources := make([]lexer.ByteSource, 0, len(matches))
	for _, m := range matches {
		resolvedDir := path.Dir(m)
		if resolvedDir == "." {
			resolvedDir = ""
		}
		if err := r.Policy.check(includingIsFile, baseDir, resolvedDir, path.Base(m), loc); err != nil {
			return nil, err
		}
		src, err := r.open(m)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (r *Resolver) fsys() fs.FS {
	if r.FS != nil {
		return r.FS
	}
	return os.DirFS("/")
}

func (r *Resolver) open(relPath string) (lexer.ByteSource, error) {
	if r.Open != nil {
		return r.Open(relPath)
	}
	return lexer.OpenFileByteSource("/" + relPath)
}
