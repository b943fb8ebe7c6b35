package source

import (
	"path"
	"strings"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

// AccessFlag is one bit of a resolved include's access predicate (spec
// §4.6, "Access policy").
type AccessFlag uint8

const (
	// SameDirectory permits a resolved source that lives in the
	// including source's own directory. On by default.
	SameDirectory AccessFlag = 1 << iota
	// Subdirectories permits a resolved source in a subdirectory of the
	// including source's directory. On by default.
	Subdirectories
	// AnyDirectory disables both directory checks above.
	AnyDirectory
	// RequireSuffix requires the resolved file name to end in Suffix.
	RequireSuffix
	// OnlyFileSources requires the root document itself to be a file
	// source, not a text source.
	OnlyFileSources
)

// DefaultSuffix is the language's canonical file suffix.
const DefaultSuffix = ".elcl"

// AccessPolicy is the configurable predicate applied to every source an
// `@include` resolves to (spec §4.6).
type AccessPolicy struct {
	Flags  AccessFlag
	Suffix string
}

// DefaultAccessPolicy matches the spec's stated defaults: SameDirectory
// and Subdirectories on, everything else off.
func DefaultAccessPolicy() AccessPolicy {
	return AccessPolicy{Flags: SameDirectory | Subdirectories, Suffix: DefaultSuffix}
}

func (p AccessPolicy) suffix() string {
	if p.Suffix != "" {
		return p.Suffix
	}
	return DefaultSuffix
}

// check applies p to one resolved candidate. includingDir and
// resolvedDir are slash-separated, fs.FS-relative directory paths (no
// leading slash); includingIsFile reports whether the root document
// parsing this include is itself a file source.
func (p AccessPolicy) check(includingIsFile bool, includingDir, resolvedDir, resolvedName string, loc lexer.Location) error {
	if p.Flags&OnlyFileSources != 0 && !includingIsFile {
		return lexer.Errorf(lexer.Access, loc, "includes are only permitted from a file source")
	}
	if p.Flags&AnyDirectory == 0 {
		sameDir := resolvedDir == includingDir
		underDir := includingDir == "." || strings.HasPrefix(resolvedDir, includingDir+"/")
		allowed := (p.Flags&SameDirectory != 0 && sameDir) || (p.Flags&Subdirectories != 0 && underDir)
		if !allowed {
			return lexer.Errorf(lexer.Access, loc, "resolved include %q is outside the permitted directory", path.Join(resolvedDir, resolvedName))
		}
	}
	if p.Flags&RequireSuffix != 0 && !strings.HasSuffix(resolvedName, p.suffix()) {
		return lexer.Errorf(lexer.Access, loc, "resolved include %q does not have the required suffix %q", resolvedName, p.suffix())
	}
	return nil
}
