package value

// VisitFunc is called once per Value during a Walk, in preorder. Returning
// a non-nil error aborts the walk immediately and that error propagates
// unchanged out of Walk (spec §6.6: "Exceptions thrown by visitor or
// filter propagate unchanged").
type VisitFunc func(v *Value) error

// PruneFunc decides whether Walk should descend into v's children. It is
// evaluated before the children are visited; returning false prunes the
// subtree (spec §6.6, "preorder walk with pluggable filter (false ⇒ prune
// subtree)"). A nil PruneFunc never prunes.
type PruneFunc func(v *Value) (bool, error)

// Walk performs a preorder traversal of v's subtree: v itself first, then
// each child's own preorder traversal in insertion order (spec §8
// property 9, "parents strictly before children, siblings in insertion
// order"). filter may be nil to visit the entire subtree.
func Walk(v *Value, filter PruneFunc, visit VisitFunc) error {
	if err := visit(v); err != nil {
		return err
	}
	if filter != nil {
		descend, err := filter(v)
		if err != nil {
			return err
		}
		if !descend {
			return nil
		}
	}
	for _, child := range v.Children() {
		if err := Walk(child, filter, visit); err != nil {
			return err
		}
	}
	return nil
}
