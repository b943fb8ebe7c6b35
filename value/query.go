package value

import (
	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
)

// resolve walks path from v, returning (nil, nil) if any segment is
// simply absent (not found, not an error) and a Syntax error if a
// segment's Kind cannot apply to the container it addresses (e.g. an
// Index into a SectionWithNames).
func resolve(v *Value, path name.Path) (*Value, error) {
	cur := v
	for i := 0; i < path.Len(); i++ {
		el := path.At(i)
		next, err := step(cur, el)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

func step(cur *Value, el name.Name) (*Value, error) {
	switch el.Kind() {
	case name.Regular:
		if cur.named == nil {
			return nil, lexer.Errorf(lexer.Syntax, lexer.Location{}, "%q is not a name-keyed section", cur.nm.String())
		}
		return cur.named[el.Word()], nil
	case name.Text:
		if cur.texted == nil {
			return nil, lexer.Errorf(lexer.Syntax, lexer.Location{}, "%q is not a text-keyed section", cur.nm.String())
		}
		return cur.texted[el.Text()], nil
	case name.Index, name.TextIndex:
		if cur.kind != ValueList && cur.kind != SectionList {
			return nil, lexer.Errorf(lexer.Syntax, lexer.Location{}, "%q is not an ordered list", cur.nm.String())
		}
		idx := int(el.Index())
		if idx < 0 || idx >= len(cur.elems) {
			return nil, nil
		}
		return cur.elems[idx], nil
	}
	return nil, lexer.Errorf(lexer.Internal, lexer.Location{}, "unknown name kind in path")
}

// Child returns v's direct child addressed by elem, or nil if none exists
// or elem's Kind does not apply to v (e.g. elem is an Index but v is not
// an ordered list). Used by the parser while resolving a section's name
// path one element at a time.
func (v *Value) Child(elem name.Name) *Value {
	child, err := step(v, elem)
	if err != nil {
		return nil
	}
	return child
}

// Exists is the existence probe of spec §6.6: path → bool.
func (v *Value) Exists(path name.Path) bool {
	found, err := resolve(v, path)
	return err == nil && found != nil
}

// Lookup is the optional lookup of spec §6.6: path → Value or nil. A
// malformed path (wrong container kind along the way) also yields nil;
// use MustLookup to distinguish "absent" from "malformed".
func (v *Value) Lookup(path name.Path) *Value {
	found, err := resolve(v, path)
	if err != nil {
		return nil
	}
	return found
}

// MustLookup is the throwing lookup of spec §6.6: raises ValueNotFound
// if path resolves to nothing, or Syntax if path itself is malformed for
// this tree shape.
func (v *Value) MustLookup(path name.Path) (*Value, error) {
	found, err := resolve(v, path)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, lexer.Errorf(lexer.ValueNotFound, lexer.Location{}, "no value at path %q", path.String()).WithPath(path.String())
	}
	return found, nil
}

func typeMismatch(v *Value, want Kind) error {
	loc := lexer.Location{}
	if v.loc != nil {
		loc = *v.loc
	}
	return lexer.Errorf(lexer.TypeMismatch, loc, "value at %q is a %s, not a %s", v.nm.String(), v.kind, want).
		WithPath(v.nm.String())
}

// Size returns the number of children: map entries for a named/texted
// section, elements for a list, 0 for a scalar (spec §6.6, "Structural").
func (v *Value) Size() int {
	return len(v.namedOrder) + len(v.textedOrder) + len(v.elems)
}

// Empty reports whether v has no children.
func (v *Value) Empty() bool { return v.Size() == 0 }

// First returns v's first child in insertion order, and ok=false if v
// has none.
func (v *Value) First() (*Value, bool) {
	children := v.Children()
	if len(children) == 0 {
		return nil, false
	}
	return children[0], true
}

// Last returns v's last child in insertion order, and ok=false if v has
// none.
func (v *Value) Last() (*Value, bool) {
	children := v.Children()
	if len(children) == 0 {
		return nil, false
	}
	return children[len(children)-1], true
}

// Children returns v's direct children in insertion order: named before
// texted before ordered elements, matching the order a document would
// declare them if it mixed kinds (in practice a Value only ever
// populates one of these three collections, so the ordering among
// categories only matters for DocumentRoot's own bookkeeping).
func (v *Value) Children() []*Value {
	var out []*Value
	for _, w := range v.namedOrder {
		out = append(out, v.named[w])
	}
	for _, t := range v.textedOrder {
		out = append(out, v.texted[t])
	}
	out = append(out, v.elems...)
	return out
}

// --- Typed scalar accessors (spec §6.6: "typed lookup with default",
// "typed lookup throwing") ---

func (v *Value) AsInt() (int64, error) {
	if v.kind != Integer {
		return 0, typeMismatch(v, Integer)
	}
	return v.scalar.Int, nil
}

func (v *Value) AsFloat() (float64, error) {
	if v.kind != Float {
		return 0, typeMismatch(v, Float)
	}
	return v.scalar.Float, nil
}

func (v *Value) AsBool() (bool, error) {
	if v.kind != Boolean {
		return false, typeMismatch(v, Boolean)
	}
	return v.scalar.Bool, nil
}

func (v *Value) AsText() (string, error) {
	if v.kind != Text {
		return "", typeMismatch(v, Text)
	}
	return v.scalar.Text, nil
}

func (v *Value) AsRegEx() (string, error) {
	if v.kind != RegEx {
		return "", typeMismatch(v, RegEx)
	}
	return v.scalar.Text, nil
}

func (v *Value) AsBytes() ([]byte, error) {
	if v.kind != Bytes {
		return nil, typeMismatch(v, Bytes)
	}
	return v.scalar.Bytes, nil
}

func (v *Value) AsDate() (lexer.DateValue, error) {
	if v.kind != Date {
		return lexer.DateValue{}, typeMismatch(v, Date)
	}
	return v.scalar.Date, nil
}

func (v *Value) AsTime() (lexer.TimeValue, error) {
	if v.kind != Time {
		return lexer.TimeValue{}, typeMismatch(v, Time)
	}
	return v.scalar.Time, nil
}

func (v *Value) AsDateTime() (lexer.DateTimeValue, error) {
	if v.kind != DateTime {
		return lexer.DateTimeValue{}, typeMismatch(v, DateTime)
	}
	return v.scalar.DateTime, nil
}

func (v *Value) AsTimeDelta() (lexer.TimeDeltaValue, error) {
	if v.kind != TimeDelta {
		return lexer.TimeDeltaValue{}, typeMismatch(v, TimeDelta)
	}
	return v.scalar.Delta, nil
}

// GetInt is the "typed lookup with default" accessor: returns def if
// path is absent (or malformed for this tree shape), the value if present
// and an Integer, or a zero value alongside a TypeMismatch error — callers
// that only want the default-or-value behavior can ignore a non-nil error
// and keep def.
func (v *Value) GetInt(path name.Path, def int64) (int64, error) {
	found := v.Lookup(path)
	if found == nil {
		return def, nil
	}
	return found.AsInt()
}

func (v *Value) GetFloat(path name.Path, def float64) (float64, error) {
	found := v.Lookup(path)
	if found == nil {
		return def, nil
	}
	return found.AsFloat()
}

func (v *Value) GetBool(path name.Path, def bool) (bool, error) {
	found := v.Lookup(path)
	if found == nil {
		return def, nil
	}
	return found.AsBool()
}

func (v *Value) GetText(path name.Path, def string) (string, error) {
	found := v.Lookup(path)
	if found == nil {
		return def, nil
	}
	return found.AsText()
}

// GetIntThrow is the "typed lookup throwing" accessor: ValueNotFound if
// absent, TypeMismatch if present with a different kind.
func (v *Value) GetIntThrow(path name.Path) (int64, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return 0, err
	}
	return found.AsInt()
}

func (v *Value) GetFloatThrow(path name.Path) (float64, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return 0, err
	}
	return found.AsFloat()
}

func (v *Value) GetBoolThrow(path name.Path) (bool, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return false, err
	}
	return found.AsBool()
}

func (v *Value) GetTextThrow(path name.Path) (string, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return "", err
	}
	return found.AsText()
}

// GetIntList is a "typed list lookup": path must resolve to a ValueList
// whose every element is an Integer.
func (v *Value) GetIntList(path name.Path) ([]int64, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return nil, err
	}
	if found.kind != ValueList {
		return nil, typeMismatch(found, ValueList)
	}
	out := make([]int64, len(found.elems))
	for i, el := range found.elems {
		n, err := el.AsInt()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// GetTextList is the Text-typed sibling of GetIntList.
func (v *Value) GetTextList(path name.Path) ([]string, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return nil, err
	}
	if found.kind != ValueList {
		return nil, typeMismatch(found, ValueList)
	}
	out := make([]string, len(found.elems))
	for i, el := range found.elems {
		s, err := el.AsText()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// GetIntMatrix is the "typed matrix lookup": path must resolve to a
// ValueList of ValueLists, each containing only Integer elements (the
// nested multi-line list shape of spec §4.5).
func (v *Value) GetIntMatrix(path name.Path) ([][]int64, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return nil, err
	}
	if found.kind != ValueList {
		return nil, typeMismatch(found, ValueList)
	}
	out := make([][]int64, len(found.elems))
	for i, row := range found.elems {
		if row.kind != ValueList {
			return nil, typeMismatch(row, ValueList)
		}
		rowOut := make([]int64, len(row.elems))
		for j, el := range row.elems {
			n, err := el.AsInt()
			if err != nil {
				return nil, err
			}
			rowOut[j] = n
		}
		out[i] = rowOut
	}
	return out, nil
}

// GetFloatMatrix is the Float-typed sibling of GetIntMatrix.
func (v *Value) GetFloatMatrix(path name.Path) ([][]float64, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return nil, err
	}
	if found.kind != ValueList {
		return nil, typeMismatch(found, ValueList)
	}
	out := make([][]float64, len(found.elems))
	for i, row := range found.elems {
		if row.kind != ValueList {
			return nil, typeMismatch(row, ValueList)
		}
		rowOut := make([]float64, len(row.elems))
		for j, el := range row.elems {
			f, err := el.AsFloat()
			if err != nil {
				return nil, err
			}
			rowOut[j] = f
		}
		out[i] = rowOut
	}
	return out, nil
}

// GetTextMatrix is the Text-typed sibling of GetIntMatrix.
func (v *Value) GetTextMatrix(path name.Path) ([][]string, error) {
	found, err := v.MustLookup(path)
	if err != nil {
		return nil, err
	}
	if found.kind != ValueList {
		return nil, typeMismatch(found, ValueList)
	}
	out := make([][]string, len(found.elems))
	for i, row := range found.elems {
		if row.kind != ValueList {
			return nil, typeMismatch(row, ValueList)
		}
		rowOut := make([]string, len(row.elems))
		for j, el := range row.elems {
			s, err := el.AsText()
			if err != nil {
				return nil, err
			}
			rowOut[j] = s
		}
		out[i] = rowOut
	}
	return out, nil
}
