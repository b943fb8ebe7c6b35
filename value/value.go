// Package value implements the immutable value tree of spec §3: scalar
// and compound Values addressed by name.Path, plus the typed query
// surface of spec §6.6.
package value

import (
	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
)

// Kind distinguishes every concrete Value variant of spec §3.
type Kind int

const (
	Integer Kind = iota
	Boolean
	Float
	Text
	Date
	Time
	DateTime
	Bytes
	TimeDelta
	RegEx

	ValueList
	SectionList
	IntermediateSection
	SectionWithNames
	SectionWithTexts

	DocumentRoot
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "Integer"
	case Boolean:
		return "Boolean"
	case Float:
		return "Float"
	case Text:
		return "Text"
	case Date:
		return "Date"
	case Time:
		return "Time"
	case DateTime:
		return "DateTime"
	case Bytes:
		return "Bytes"
	case TimeDelta:
		return "TimeDelta"
	case RegEx:
		return "RegEx"
	case ValueList:
		return "ValueList"
	case SectionList:
		return "SectionList"
	case IntermediateSection:
		return "IntermediateSection"
	case SectionWithNames:
		return "SectionWithNames"
	case SectionWithTexts:
		return "SectionWithTexts"
	case DocumentRoot:
		return "Document"
	}
	return "Unknown"
}

// IsScalar reports whether k is one of the ten scalar variants.
func (k Kind) IsScalar() bool { return k <= RegEx }

// IsCompound reports whether k is one of the ordered/mapped container
// variants (including the document root).
func (k Kind) IsCompound() bool { return !k.IsScalar() }

// Value is one node of the immutable tree spec §3 describes: a Name
// within its parent, a weak (lookup-only) parent back-reference, an
// optional source Location, a type tag, and either a scalar payload or a
// set of children.
type Value struct {
	kind   Kind
	nm     name.Name
	parent *Value
	loc    *lexer.Location

	scalar lexer.Payload

	// named holds SectionWithNames/IntermediateSection/DocumentRoot
	// children keyed by their normalised Regular word, in insertion order.
	namedOrder []string
	named      map[string]*Value

	// texted holds SectionWithTexts children keyed by raw text content, in
	// insertion order.
	textedOrder []string
	texted      map[string]*Value

	// elems holds ValueList/SectionList children in order; their own Name
	// is always Index(i) matching their position (spec §3 invariant).
	elems []*Value
}

// Kind returns v's type tag.
func (v *Value) Kind() Kind { return v.kind }

// Name returns v's Name within its parent. The document root has the
// zero Name.
func (v *Value) Name() name.Name { return v.nm }

// Parent returns v's enclosing Value, or nil if v is the document root.
func (v *Value) Parent() *Value { return v.parent }

// Location returns v's source location, or nil if none was recorded
// (e.g. for a programmatically constructed Value).
func (v *Value) Location() *lexer.Location { return v.loc }

// SetName assigns v's Name. Values are built anonymously by the parser's
// value-literal scanning (the key they will be attached under isn't
// known until the enclosing name-path is resolved) and named exactly
// once, immediately before attaching to their parent; a Value already
// reachable from a Document is never renamed.
func (v *Value) SetName(n name.Name) { v.nm = n }

func newLeaf(kind Kind, nm name.Name, loc *lexer.Location) *Value {
	return &Value{kind: kind, nm: nm, loc: loc}
}

// newContainer builds an empty container for one of the four
// addressable-by-name kinds. Both the named and texted maps are always
// allocated: a section addresses its children by whichever Name variant
// they were declared with, and nothing in spec §3 actually forbids a
// single section from holding both Regular- and Text-named children
// side by side (see DESIGN.md, "value" — SectionWithNames/SectionWithTexts
// unification). Kind remains a descriptive tag; AddNamed/AddTexted work
// identically regardless of which of the four it carries.
func newContainer(kind Kind, nm name.Name, loc *lexer.Location) *Value {
	v := newLeaf(kind, nm, loc)
	switch kind {
	case SectionWithNames, SectionWithTexts, IntermediateSection, DocumentRoot:
		v.named = make(map[string]*Value)
		v.texted = make(map[string]*Value)
	}
	return v
}

// NewInteger builds a scalar Integer Value.
func NewInteger(nm name.Name, val int64, loc *lexer.Location) *Value {
	v := newLeaf(Integer, nm, loc)
	v.scalar.Int = val
	return v
}

// NewBoolean builds a scalar Boolean Value.
func NewBoolean(nm name.Name, val bool, loc *lexer.Location) *Value {
	v := newLeaf(Boolean, nm, loc)
	v.scalar.Bool = val
	return v
}

// NewFloat builds a scalar Float Value.
func NewFloat(nm name.Name, val float64, loc *lexer.Location) *Value {
	v := newLeaf(Float, nm, loc)
	v.scalar.Float = val
	return v
}

// NewText builds a scalar Text Value.
func NewText(nm name.Name, val string, loc *lexer.Location) *Value {
	v := newLeaf(Text, nm, loc)
	v.scalar.Text = val
	return v
}

// NewRegEx builds a scalar RegEx Value; its decoded pattern source is
// carried the same way as Text.
func NewRegEx(nm name.Name, pattern string, loc *lexer.Location) *Value {
	v := newLeaf(RegEx, nm, loc)
	v.scalar.Text = pattern
	return v
}

// NewDate builds a scalar Date Value.
func NewDate(nm name.Name, val lexer.DateValue, loc *lexer.Location) *Value {
	v := newLeaf(Date, nm, loc)
	v.scalar.Date = val
	return v
}

// NewTime builds a scalar Time Value.
func NewTime(nm name.Name, val lexer.TimeValue, loc *lexer.Location) *Value {
	v := newLeaf(Time, nm, loc)
	v.scalar.Time = val
	return v
}

// NewDateTime builds a scalar DateTime Value.
func NewDateTime(nm name.Name, val lexer.DateTimeValue, loc *lexer.Location) *Value {
	v := newLeaf(DateTime, nm, loc)
	v.scalar.DateTime = val
	return v
}

// NewBytes builds a scalar Bytes Value.
func NewBytes(nm name.Name, val []byte, loc *lexer.Location) *Value {
	v := newLeaf(Bytes, nm, loc)
	v.scalar.Bytes = val
	return v
}

// NewTimeDelta builds a scalar TimeDelta Value.
func NewTimeDelta(nm name.Name, val lexer.TimeDeltaValue, loc *lexer.Location) *Value {
	v := newLeaf(TimeDelta, nm, loc)
	v.scalar.Delta = val
	return v
}

// NewSectionWithNames builds an empty SectionWithNames container.
func NewSectionWithNames(nm name.Name, loc *lexer.Location) *Value {
	return newContainer(SectionWithNames, nm, loc)
}

// NewSectionWithTexts builds an empty SectionWithTexts container.
func NewSectionWithTexts(nm name.Name, loc *lexer.Location) *Value {
	return newContainer(SectionWithTexts, nm, loc)
}

// NewIntermediateSection builds an empty IntermediateSection container —
// a section implied by a multi-segment name path that was never itself
// opened directly (spec §4.5).
func NewIntermediateSection(nm name.Name, loc *lexer.Location) *Value {
	return newContainer(IntermediateSection, nm, loc)
}

// NewValueList builds an empty ValueList container.
func NewValueList(nm name.Name, loc *lexer.Location) *Value {
	return newLeaf(ValueList, nm, loc)
}

// NewSectionList builds an empty SectionList container.
func NewSectionList(nm name.Name, loc *lexer.Location) *Value {
	return newLeaf(SectionList, nm, loc)
}

// NewDocumentRoot builds the empty root container of a Document.
func NewDocumentRoot() *Value {
	return newContainer(DocumentRoot, name.Name{}, nil)
}
