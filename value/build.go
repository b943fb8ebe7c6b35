package value

import (
	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
)

// AddNamed attaches child under parent by its Regular name, enforcing
// spec §3's sibling-uniqueness invariant: a Regular-name collision with
// an existing child, regardless of the existing child's kind, is a
// NameConflict (spec §4.5, "duplicate key... or a key colliding with an
// intermediate section"). parent must be SectionWithNames,
// IntermediateSection, or DocumentRoot.
func AddNamed(parent, child *Value) error {
	if parent.named == nil {
		return lexer.Errorf(lexer.Internal, lexer.Location{}, "AddNamed called on a %s value", parent.kind)
	}
	word := child.nm.Word()
	if existing, ok := parent.named[word]; ok {
		return conflictError(parent, child, existing)
	}
	parent.named[word] = child
	parent.namedOrder = append(parent.namedOrder, word)
	child.parent = parent
	return nil
}

// AddChild attaches child to parent under child's own Name, dispatching
// to AddNamed or AddTexted by the Name's Kind. Index/TextIndex children
// use AppendElement instead; AddChild rejects them with Internal.
func AddChild(parent, child *Value) error {
	switch child.nm.Kind() {
	case name.Regular:
		return AddNamed(parent, child)
	case name.Text:
		return AddTexted(parent, child)
	default:
		return lexer.Errorf(lexer.Internal, lexer.Location{}, "AddChild cannot attach an %s-named child directly", child.nm.Kind())
	}
}

// ReplaceChild swaps an IntermediateSection placeholder for its final,
// fully-typed Value once the parser learns what it actually is (spec
// §4.5: a name path segment may be implied before it is itself opened).
// existing must currently be an IntermediateSection child of parent,
// addressed by either its Regular word or its exact Text content.
func ReplaceChild(parent, existing, replacement *Value) error {
	if existing.kind != IntermediateSection {
		return lexer.Errorf(lexer.Internal, lexer.Location{}, "ReplaceChild target is not an intermediate section")
	}
	switch existing.nm.Kind() {
	case name.Regular:
		word := existing.nm.Word()
		if cur, ok := parent.named[word]; !ok || cur != existing {
			return lexer.Errorf(lexer.Internal, lexer.Location{}, "ReplaceChild target is not the tracked intermediate section")
		}
		parent.named[word] = replacement
	case name.Text:
		key := existing.nm.Text()
		if cur, ok := parent.texted[key]; !ok || cur != existing {
			return lexer.Errorf(lexer.Internal, lexer.Location{}, "ReplaceChild target is not the tracked intermediate section")
		}
		parent.texted[key] = replacement
	default:
		return lexer.Errorf(lexer.Internal, lexer.Location{}, "ReplaceChild target has an unaddressable name kind")
	}
	replacement.named = existing.named
	replacement.namedOrder = existing.namedOrder
	replacement.texted = existing.texted
	replacement.textedOrder = existing.textedOrder
	replacement.elems = existing.elems
	replacement.parent = parent
	replacement.nm = existing.nm
	for _, gc := range allChildren(replacement) {
		gc.parent = replacement
	}
	return nil
}

func allChildren(v *Value) []*Value {
	var out []*Value
	out = append(out, v.elems...)
	for _, w := range v.namedOrder {
		out = append(out, v.named[w])
	}
	for _, t := range v.textedOrder {
		out = append(out, v.texted[t])
	}
	return out
}

func conflictError(parent, child, existing *Value) error {
	loc := lexer.Location{}
	if child.loc != nil {
		loc = *child.loc
	}
	return lexer.Errorf(lexer.NameConflict, loc,
		"name %q already exists as a %s in this section", child.nm.String(), existing.kind).
		WithPath(child.nm.String())
}

// AddTexted attaches child under parent by its exact Text content,
// enforcing exact-value uniqueness (spec §3). parent must be
// SectionWithTexts.
func AddTexted(parent, child *Value) error {
	if parent.texted == nil {
		return lexer.Errorf(lexer.Internal, lexer.Location{}, "AddTexted called on a %s value", parent.kind)
	}
	key := child.nm.Text()
	if existing, ok := parent.texted[key]; ok {
		return conflictError(parent, child, existing)
	}
	parent.texted[key] = child
	parent.textedOrder = append(parent.textedOrder, key)
	child.parent = parent
	return nil
}

// AppendElement appends child to the end of a ValueList or SectionList,
// assigning it the Index name matching its new position (spec §3
// invariant: "Value list element names are Index(i) matching their
// position").
func AppendElement(parent, child *Value) error {
	if parent.kind != ValueList && parent.kind != SectionList {
		return lexer.Errorf(lexer.Internal, lexer.Location{}, "AppendElement called on a %s value", parent.kind)
	}
	child.nm = name.NewIndex(uint32(len(parent.elems)))
	child.parent = parent
	parent.elems = append(parent.elems, child)
	return nil
}

// CurrentElement returns the last element of a SectionList, the element
// that a following key/value line attaches to (spec §4.5, "a key/value
// line following a section-list open attaches to the current element of
// that list"), and ok=false if the list is empty.
func CurrentElement(parent *Value) (*Value, bool) {
	if len(parent.elems) == 0 {
		return nil, false
	}
	return parent.elems[len(parent.elems)-1], true
}
