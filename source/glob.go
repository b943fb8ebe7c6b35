package source

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

// parsedInclude is a validated, normalised `@include` literal: a
// slash-separated, fs.FS-relative path with `.`/`..` already resolved,
// split into segments, plus whether it carries a wildcard.
type parsedInclude struct {
	segments []string
	wildcard bool
}

// parseIncludePattern validates and normalises pattern against the
// grammar of spec §4.6 ("Path grammar", "Wildcards"), anchoring a
// relative pattern at baseDir (already fs.FS-relative, no leading
// slash).
func parseIncludePattern(pattern, baseDir string, loc lexer.Location) (parsedInclude, error) {
	clean := strings.TrimPrefix(pattern, "file:")
	clean = strings.ReplaceAll(clean, `\`, "/")

	if strings.HasPrefix(clean, "//") {
		if err := validateUNCHost(clean, loc); err != nil {
			return parsedInclude{}, err
		}
	}

	var full string
	if strings.HasPrefix(clean, "/") {
		full = clean
	} else {
		full = path.Join("/", baseDir, clean)
	}
	full = path.Clean(full)
	full = strings.TrimPrefix(full, "/")

	segs := strings.Split(full, "/")
	var out []string
	wildcard := false
	sawDoubleStar := false
	for _, seg := range segs {
		if seg == "" || seg == "." {
			continue
		}
		if seg == "**" {
			if sawDoubleStar {
				return parsedInclude{}, lexer.Errorf(lexer.Syntax, loc, "include pattern %q may contain at most one '**' segment", pattern)
			}
			sawDoubleStar = true
			wildcard = true
			out = append(out, seg)
			continue
		}
		if strings.Contains(seg, "**") {
			return parsedInclude{}, lexer.Errorf(lexer.Syntax, loc, "include pattern %q mixes '**' with other characters in one segment", pattern)
		}
		if strings.Contains(seg, "*") {
			wildcard = true
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		return parsedInclude{}, lexer.Errorf(lexer.Syntax, loc, "include pattern %q does not name a file", pattern)
	}
	return parsedInclude{segments: out, wildcard: wildcard}, nil
}

// validateUNCHost enforces spec §4.6's restriction that a `//host/...`
// prefix names a valid host (letters, digits, '-', '.').
func validateUNCHost(clean string, loc lexer.Location) error {
	rest := strings.TrimPrefix(clean, "//")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return lexer.Errorf(lexer.Syntax, loc, "malformed UNC path %q", clean)
	}
	for _, r := range parts[0] {
		isHostChar := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '.'
		if !isHostChar {
			return lexer.Errorf(lexer.Syntax, loc, "invalid UNC host in %q", clean)
		}
	}
	return nil
}

// matchGlob walks fsys from dir, matching p.segments, and returns the
// fs.FS-relative paths of every matching file (spec §4.6 "Wildcards").
// `**` greedily tries every depth (zero or more directory segments); `*`
// matches within one path.Match segment.
func matchGlob(fsys fs.FS, dir string, segments []string, loc lexer.Location) ([]string, error) {
	if len(segments) == 0 {
		return nil, nil
	}
	seg, rest := segments[0], segments[1:]

	if seg == "**" {
		var out []string
		if len(rest) == 0 {
			return nil, lexer.Errorf(lexer.Syntax, loc, "include pattern must not end in a bare '**'")
		}
		more, err := matchGlob(fsys, dir, rest, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, more...)
		entries, err := fs.ReadDir(fsys, fsDir(dir))
		if err != nil {
			return out, nil //nolint:nilerr // a missing directory simply yields no matches
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			sub, err := matchGlob(fsys, path.Join(dir, e.Name()), segments, loc)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}

	entries, err := fs.ReadDir(fsys, fsDir(dir))
	if err != nil {
		return nil, nil
	}
	var out []string
	for _, e := range entries {
		ok, err := path.Match(seg, e.Name())
		if err != nil {
			return nil, lexer.Errorf(lexer.Syntax, loc, "malformed wildcard segment %q", seg)
		}
		if !ok {
			continue
		}
		full := path.Join(dir, e.Name())
		if len(rest) == 0 {
			if e.IsDir() {
				return nil, lexer.Errorf(lexer.Syntax, loc, "include pattern resolves to a directory, not a file: %q", full)
			}
			out = append(out, full)
			continue
		}
		if !e.IsDir() {
			continue
		}
		sub, err := matchGlob(fsys, full, rest, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// fsDir maps a path built with the leading-slash-free, fs.FS-relative
// convention used throughout this package to fs.ReadDir's own
// root-is-"." convention.
func fsDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func sortedUnique(paths []string) []string {
	set := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, ok := set[p]; ok {
			continue
		}
		set[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
