package lexer

import "strconv"

// SourceKind distinguishes the two flavors of SourceIdentifier (spec §3).
type SourceKind int

const (
	// SourceFile identifies a source backed by a file on disk.
	SourceFile SourceKind = iota
	// SourceText identifies a source backed by an in-memory string.
	SourceText
)

// SourceIdentifier names a document source, either a canonical file path or
// the fixed "text" identity used for in-memory sources (spec §3, §6.3).
// Equality is by variant+content, which is exactly what the comparable
// struct below gives for free.
type SourceIdentifier struct {
	Kind SourceKind
	Path string // canonical path for SourceFile; empty for SourceText
}

// NewFileSourceIdentifier builds a SourceIdentifier for a file source. path
// is expected to already be canonicalised by the caller (source.Resolver
// does this before constructing sources).
func NewFileSourceIdentifier(canonicalPath string) SourceIdentifier {
	return SourceIdentifier{Kind: SourceFile, Path: canonicalPath}
}

// TextSourceIdentifier is the single shared identity used by every
// in-memory text source.
var TextSourceIdentifier = SourceIdentifier{Kind: SourceText, Path: ""}

// String renders the canonical text form from spec §6.3:
// "file:<canonical-path>" or "text".
func (id SourceIdentifier) String() string {
	if id.Kind == SourceFile {
		return "file:" + id.Path
	}
	return "text"
}

// Location pairs a SourceIdentifier with a Position within it (spec §3).
type Location struct {
	Source SourceIdentifier
	Pos    Position
}

func (l Location) String() string {
	if l.Source.Kind == SourceText && l.Pos.Line == 0 {
		return l.Source.String()
	}
	return l.Source.String() + ":" + strconv.Itoa(l.Pos.Line) + ":" + strconv.Itoa(l.Pos.Column)
}
