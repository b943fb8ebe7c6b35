package value

import (
	"testing"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
	"github.com/erbsland-dev/erbsland-conf-go/name"
	"github.com/stretchr/testify/require"
)

func mustRegular(t *testing.T, raw string) name.Name {
	t.Helper()
	n, err := name.NewRegular(raw)
	require.NoError(t, err)
	return n
}

func mustPath(t *testing.T, raw string) name.Path {
	t.Helper()
	p, err := name.Parse(raw)
	require.NoError(t, err)
	return p
}

// buildTemplate3 mirrors the pack's "main.value = <literal>" fixture
// shape: a root with a "main" section holding a single named Integer.
func buildTemplate3(t *testing.T, val int64) *Value {
	t.Helper()
	root := NewDocumentRoot()
	main := NewSectionWithNames(mustRegular(t, "main"), nil)
	require.NoError(t, AddNamed(root, main))
	v := NewInteger(mustRegular(t, "value"), val, nil)
	require.NoError(t, AddNamed(main, v))
	return root
}

func TestGetIntegerSucceedsAndTypedAccessorsMismatch(t *testing.T) {
	root := buildTemplate3(t, 123)
	path := mustPath(t, "main.value")

	n, err := root.GetIntThrow(path)
	require.NoError(t, err)
	require.Equal(t, int64(123), n)

	got, err := root.GetInt(path, 789)
	require.NoError(t, err)
	require.Equal(t, int64(123), got)

	_, err = root.GetBoolThrow(path)
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.TypeMismatch, elErr.Category)
}

func TestGetIntDefaultWhenAbsent(t *testing.T) {
	root := buildTemplate3(t, 123)
	missing := mustPath(t, "main.nothing")

	got, err := root.GetInt(missing, 789)
	require.NoError(t, err)
	require.Equal(t, int64(789), got)

	_, err = root.GetIntThrow(missing)
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.ValueNotFound, elErr.Category)
}

func TestExistsAndLookup(t *testing.T) {
	root := buildTemplate3(t, 1)
	require.True(t, root.Exists(mustPath(t, "main.value")))
	require.False(t, root.Exists(mustPath(t, "main.nope")))
	require.NotNil(t, root.Lookup(mustPath(t, "main.value")))
	require.Nil(t, root.Lookup(mustPath(t, "main.nope")))
	require.Nil(t, root.Lookup(mustPath(t, "main.value.tooDeep")))
}

func TestAddNamedRejectsDuplicate(t *testing.T) {
	root := NewDocumentRoot()
	a := NewInteger(mustRegular(t, "x"), 1, nil)
	b := NewInteger(mustRegular(t, "X"), 2, nil)
	require.NoError(t, AddNamed(root, a))
	err := AddNamed(root, b)
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.NameConflict, elErr.Category)
}

func TestAddTextedUniqueByExactValue(t *testing.T) {
	section := NewSectionWithTexts(mustRegular(t, "routes"), nil)
	first := NewSectionWithNames(name.NewText("/a"), nil)
	second := NewSectionWithNames(name.NewText("/a"), nil)
	require.NoError(t, AddTexted(section, first))
	err := AddTexted(section, second)
	require.Error(t, err)
	var elErr lexer.Error
	require.ErrorAs(t, err, &elErr)
	require.Equal(t, lexer.NameConflict, elErr.Category)

	other := NewSectionWithNames(name.NewText("/b"), nil)
	require.NoError(t, AddTexted(section, other))
	require.Equal(t, 2, section.Size())
}

func TestAppendElementAssignsIndexNames(t *testing.T) {
	list := NewValueList(mustRegular(t, "items"), nil)
	for i := 0; i < 3; i++ {
		el := NewInteger(name.Name{}, int64(i*10), nil)
		require.NoError(t, AppendElement(list, el))
	}
	require.Equal(t, 3, list.Size())
	for i, child := range list.Children() {
		require.Equal(t, name.Index, child.Name().Kind())
		require.Equal(t, uint32(i), child.Name().Index())
	}
}

func TestCurrentElementOfSectionList(t *testing.T) {
	list := NewSectionList(mustRegular(t, "servers"), nil)
	_, ok := CurrentElement(list)
	require.False(t, ok)

	first := NewSectionWithNames(name.Name{}, nil)
	require.NoError(t, AppendElement(list, first))
	cur, ok := CurrentElement(list)
	require.True(t, ok)
	require.Same(t, first, cur)

	child := NewInteger(mustRegular(t, "port"), 8080, nil)
	require.NoError(t, AddNamed(cur, child))
	require.Equal(t, int64(8080), mustInt(t, cur, "port"))
}

func mustInt(t *testing.T, v *Value, path string) int64 {
	t.Helper()
	n, err := v.GetIntThrow(mustPath(t, path))
	require.NoError(t, err)
	return n
}

func TestReplaceNamedPreservesChildren(t *testing.T) {
	root := NewDocumentRoot()
	intermediate := NewIntermediateSection(mustRegular(t, "outer"), nil)
	require.NoError(t, AddNamed(root, intermediate))
	grandchild := NewInteger(mustRegular(t, "inner"), 42, nil)
	require.NoError(t, AddNamed(intermediate, grandchild))

	final := NewSectionWithNames(mustRegular(t, "outer"), nil)
	require.NoError(t, ReplaceChild(root, intermediate, final))

	require.Equal(t, int64(42), mustInt(t, root, "outer.inner"))
	require.Same(t, final, root.Lookup(mustPath(t, "outer")))
	require.Same(t, final, grandchild.Parent())
}

func TestGetIntListAndMatrix(t *testing.T) {
	root := NewDocumentRoot()
	list := NewValueList(mustRegular(t, "values"), nil)
	require.NoError(t, AddNamed(root, list))
	for _, n := range []int64{1, 2, 3} {
		require.NoError(t, AppendElement(list, NewInteger(name.Name{}, n, nil)))
	}
	got, err := root.GetIntList(mustPath(t, "values"))
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, got)

	matrix := NewValueList(mustRegular(t, "grid"), nil)
	require.NoError(t, AddNamed(root, matrix))
	for _, row := range [][]int64{{1, 2}, {3, 4}} {
		rowList := NewValueList(name.Name{}, nil)
		for _, n := range row {
			require.NoError(t, AppendElement(rowList, NewInteger(name.Name{}, n, nil)))
		}
		require.NoError(t, AppendElement(matrix, rowList))
	}
	gotMatrix, err := root.GetIntMatrix(mustPath(t, "grid"))
	require.NoError(t, err)
	require.Equal(t, [][]int64{{1, 2}, {3, 4}}, gotMatrix)
}

func TestGetFloatAndTextMatrix(t *testing.T) {
	root := NewDocumentRoot()

	floatGrid := NewValueList(mustRegular(t, "float_grid"), nil)
	require.NoError(t, AddNamed(root, floatGrid))
	for _, row := range [][]float64{{1.5, 2.5}, {3.5, 4.5}} {
		rowList := NewValueList(name.Name{}, nil)
		for _, f := range row {
			require.NoError(t, AppendElement(rowList, NewFloat(name.Name{}, f, nil)))
		}
		require.NoError(t, AppendElement(floatGrid, rowList))
	}
	gotFloat, err := root.GetFloatMatrix(mustPath(t, "float_grid"))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1.5, 2.5}, {3.5, 4.5}}, gotFloat)

	textGrid := NewValueList(mustRegular(t, "text_grid"), nil)
	require.NoError(t, AddNamed(root, textGrid))
	for _, row := range [][]string{{"a", "b"}, {"c", "d"}} {
		rowList := NewValueList(name.Name{}, nil)
		for _, s := range row {
			require.NoError(t, AppendElement(rowList, NewText(name.Name{}, s, nil)))
		}
		require.NoError(t, AppendElement(textGrid, rowList))
	}
	gotText, err := root.GetTextMatrix(mustPath(t, "text_grid"))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, gotText)
}

func TestSizeEmptyFirstLast(t *testing.T) {
	root := NewDocumentRoot()
	require.True(t, root.Empty())
	_, ok := root.First()
	require.False(t, ok)

	a := NewInteger(mustRegular(t, "a"), 1, nil)
	b := NewInteger(mustRegular(t, "b"), 2, nil)
	require.NoError(t, AddNamed(root, a))
	require.NoError(t, AddNamed(root, b))
	require.Equal(t, 2, root.Size())
	require.False(t, root.Empty())

	first, ok := root.First()
	require.True(t, ok)
	require.Same(t, a, first)
	last, ok := root.Last()
	require.True(t, ok)
	require.Same(t, b, last)
}

func TestWalkVisitsParentsBeforeChildrenInInsertionOrder(t *testing.T) {
	root := buildTemplate3(t, 1)
	other := NewInteger(mustRegular(t, "second"), 2, nil)
	require.NoError(t, AddNamed(root, other))

	var order []string
	err := Walk(root, nil, func(v *Value) error {
		order = append(order, v.Name().String())
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"", "main", "value", "second"}, order)
}

func TestWalkPruneSkipsSubtree(t *testing.T) {
	root := buildTemplate3(t, 1)

	var order []string
	err := Walk(root, func(v *Value) (bool, error) {
		return v.Kind() != SectionWithNames || v.Name().Kind() != name.Regular || v.Name().Word() != "main", nil
	}, func(v *Value) error {
		order = append(order, v.Name().String())
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"", "main"}, order)
}

func TestWalkPropagatesVisitorError(t *testing.T) {
	root := buildTemplate3(t, 1)
	sentinel := lexer.Errorf(lexer.Internal, lexer.Location{}, "boom")
	err := Walk(root, nil, func(v *Value) error {
		if v.Kind() == Integer {
			return sentinel
		}
		return nil
	})
	require.ErrorIs(t, err, sentinel)
}

func TestDocumentHasFeature(t *testing.T) {
	root := NewDocumentRoot()
	doc := NewDocument(root, lexer.TextSourceIdentifier)
	doc.Features = []string{"Core Schema", "experimental"}
	require.True(t, doc.HasFeature("core schema"))
	require.True(t, doc.HasFeature("Experimental"))
	require.False(t, doc.HasFeature("unknown"))
}
