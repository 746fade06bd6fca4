package flatten_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/flatten"
	"github.com/treetab/treetab/tree"
)

func record(pairs ...tree.Pair) *tree.Node {
	return tree.FromPairs(pairs)
}

func pair(key string, value *tree.Node) tree.Pair {
	return tree.Pair{Key: key, Value: value}
}

func num(v int64) core.Cell {
	return core.FlatCell(json.Number(strconv.FormatInt(v, 10)))
}

func str(v string) core.Cell {
	return core.FlatCell(v)
}

func mustTable(t *testing.T, header core.Header, rows []core.Row) *core.Table {
	t.Helper()
	table, err := core.NewTable(header, rows)
	require.NoError(t, err)
	return table
}

func TestWiden_SingleRecord(t *testing.T) {
	r := require.New(t)

	table := mustTable(t, core.Header{"y"}, []core.Row{
		{core.NestedCell(record(
			pair("a", tree.FromInt(11)),
			pair("b", tree.FromInt(12)),
		))},
	})

	got, err := flatten.Widen(table, "y", nil)
	r.NoError(err)

	r.Equal(core.Header{"a", "b"}, got.Header())
	r.Equal(1, got.RowCount())
	r.Equal(core.Row{num(11), num(12)}, got.Row(0))
}

func TestWiden_RowAndColumnLaws(t *testing.T) {
	r := require.New(t)

	table := mustTable(t, core.Header{"x", "y"}, []core.Row{
		{num(1), core.NestedCell(record(pair("a", tree.FromInt(11))))},
		{num(2), core.NestedCell(record(pair("b", tree.FromInt(22)), pair("a", tree.FromInt(21))))},
		{num(3), core.AbsentCell()},
	})

	keys, err := flatten.DistinctKeyCount(table, "y")
	r.NoError(err)
	r.Equal(2, keys)

	got, err := flatten.Widen(table, "y", nil)
	r.NoError(err)

	// row preservation and column count law
	r.Equal(table.RowCount(), got.RowCount())
	r.Equal(table.ColumnCount()-1+keys, got.ColumnCount())

	// keys appear in first-seen order
	r.Equal(core.Header{"x", "a", "b"}, got.Header())

	// missing keys and absent records become the absence marker
	r.Equal(core.Row{num(1), num(11), core.AbsentCell()}, got.Row(0))
	r.Equal(core.Row{num(2), num(21), num(22)}, got.Row(1))
	r.Equal(core.Row{num(3), core.AbsentCell(), core.AbsentCell()}, got.Row(2))
}

func TestWiden_TypeMismatch(t *testing.T) {
	r := require.New(t)

	type testCase struct {
		name string
		cell core.Cell
	}

	testCases := []testCase{
		{
			name: "flat scalar",
			cell: num(1),
		},
		{
			name: "sequence",
			cell: core.NestedCell(tree.FromSlice([]*tree.Node{tree.FromInt(1)})),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table := mustTable(t, core.Header{"y"}, []core.Row{{tc.cell}})

			_, err := flatten.Widen(table, "y", nil)
			var mismatch *flatten.TypeMismatchError
			r.ErrorAs(err, &mismatch)
			r.Equal("y", mismatch.Column)
		})
	}
}

func TestWiden_NamingConflict(t *testing.T) {
	r := require.New(t)

	table := mustTable(t, core.Header{"id", "y"}, []core.Row{
		{num(7), core.NestedCell(record(
			pair("id", tree.FromInt(1)),
			pair("name", tree.FromString("x")),
		))},
	})

	// default mode collides with the existing id column
	_, err := flatten.Widen(table, "y", nil)
	var conflict *flatten.NamingConflictError
	r.ErrorAs(err, &conflict)
	r.Equal("y", conflict.Column)
	r.Equal("id", conflict.Name)

	// namespaced mode succeeds
	got, err := flatten.Widen(table, "y", &flatten.WidenOpts{Naming: flatten.NamingPrefixed})
	r.NoError(err)
	r.Equal(core.Header{"id", "y_id", "y_name"}, got.Header())
	r.Equal(core.Row{num(7), num(1), str("x")}, got.Row(0))
}

func TestWiden_CustomSeparator(t *testing.T) {
	r := require.New(t)

	table := mustTable(t, core.Header{"y"}, []core.Row{
		{core.NestedCell(record(pair("a", tree.FromInt(1))))},
	})

	got, err := flatten.Widen(table, "y", &flatten.WidenOpts{
		Naming:    flatten.NamingPrefixed,
		Separator: ".",
	})
	r.NoError(err)
	r.Equal(core.Header{"y.a"}, got.Header())
}

func TestWidenAll_Batch(t *testing.T) {
	r := require.New(t)

	// two row-aligned record columns sharing the inner key name
	table := mustTable(t, core.Header{"lo", "hi"}, []core.Row{
		{
			core.NestedCell(record(pair("x", tree.FromInt(0)))),
			core.NestedCell(record(pair("x", tree.FromInt(9)))),
		},
	})

	// inner naming collides across the batch
	_, err := flatten.WidenAll(table, []string{"lo", "hi"}, nil)
	var conflict *flatten.NamingConflictError
	r.ErrorAs(err, &conflict)

	// prefixed naming keeps the batch unambiguous
	got, err := flatten.WidenAll(table, []string{"lo", "hi"}, &flatten.WidenOpts{
		Naming: flatten.NamingPrefixed,
	})
	r.NoError(err)
	r.Equal(core.Header{"lo_x", "hi_x"}, got.Header())
	r.Equal(core.Row{num(0), num(9)}, got.Row(0))
}

func TestWiden_ColumnNotFound(t *testing.T) {
	r := require.New(t)

	table := mustTable(t, core.Header{"x"}, []core.Row{{num(1)}})

	_, err := flatten.Widen(table, "nope", nil)
	r.Error(err)
	r.ErrorContains(err, "nope")
}
