package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/mock"
	"github.com/treetab/treetab/tree"
)

func TestNewTable_Validation(t *testing.T) {
	r := require.New(t)

	_, err := core.NewTable(core.Header{"a", "a"}, nil)
	r.ErrorContains(err, "duplicate column")

	_, err = core.NewTable(core.Header{"a", "b"}, []core.Row{
		{core.FlatCell(1)},
	})
	r.ErrorContains(err, "cells")

	table, err := core.NewTable(core.Header{"a", "b"}, []core.Row{
		{core.FlatCell(1), core.FlatCell(2)},
	})
	r.NoError(err)
	r.Equal(1, table.RowCount())
	r.Equal(2, table.ColumnCount())
}

func TestFromDocuments(t *testing.T) {
	r := require.New(t)

	docs := []*tree.Node{
		tree.FromString("flat"),
		tree.Null(),
		tree.FromPairs([]tree.Pair{{Key: "a", Value: tree.FromInt(1)}}),
	}

	table := core.FromDocuments("document", docs)

	r.Equal(core.Header{"document"}, table.Header())
	r.Equal(3, table.RowCount())

	// leaves flatten, nulls become absent, containers stay nested
	r.Equal(core.CellFlat, table.Row(0)[0].Kind)
	r.Equal(core.CellAbsent, table.Row(1)[0].Kind)
	r.Equal(core.CellNested, table.Row(2)[0].Kind)
}

func TestFromStream(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 5)
	stream := mock.NewStream(rows, mock.StreamWithHeader(core.Header{"document"}))

	table, err := core.FromStream(stream)
	r.NoError(err)
	r.Equal(core.Header{"document"}, table.Header())
	r.Equal(rows, table.Rows())
}

func TestTable_Column(t *testing.T) {
	r := require.New(t)

	table, err := core.NewTable(core.Header{"a", "b"}, []core.Row{
		{core.FlatCell(1), core.FlatCell("x")},
		{core.FlatCell(2), core.FlatCell("y")},
	})
	r.NoError(err)

	cells, err := table.Column("b")
	r.NoError(err)
	r.Equal([]core.Cell{core.FlatCell("x"), core.FlatCell("y")}, cells)

	_, err = table.Column("nope")
	r.ErrorContains(err, "nope")
}

func TestTable_Classify(t *testing.T) {
	rec := core.NestedCell(tree.FromPairs([]tree.Pair{{Key: "a", Value: tree.FromInt(1)}}))
	seq := core.NestedCell(tree.FromSlice([]*tree.Node{tree.FromInt(1)}))
	wrapped := core.NestedCell(tree.FromInt(1))

	type testCase struct {
		name  string
		cells []core.Cell
		want  core.Shape
	}

	testCases := []testCase{
		{
			name:  "flat scalars and absence markers",
			cells: []core.Cell{core.FlatCell(1), core.AbsentCell()},
			want:  core.ShapeFlat,
		},
		{
			name:  "records with gaps",
			cells: []core.Cell{rec, core.AbsentCell(), rec},
			want:  core.ShapeRecord,
		},
		{
			name:  "sequences with flat stragglers",
			cells: []core.Cell{seq, core.FlatCell(1)},
			want:  core.ShapeSequence,
		},
		{
			name:  "records and sequences mixed",
			cells: []core.Cell{rec, seq},
			want:  core.ShapeMixed,
		},
		{
			name:  "wrapped scalars",
			cells: []core.Cell{wrapped, rec},
			want:  core.ShapeMixed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows := make([]core.Row, len(tc.cells))
			for i, cell := range tc.cells {
				rows[i] = core.Row{cell}
			}
			table, err := core.NewTable(core.Header{"y"}, rows)
			require.NoError(t, err)

			shape, err := table.Classify("y")
			require.NoError(t, err)
			require.Equal(t, tc.want, shape)
		})
	}
}

func TestCell(t *testing.T) {
	r := require.New(t)

	// nil flat values and null nodes collapse into the absence marker
	r.Equal(core.AbsentCell(), core.FlatCell(nil))
	r.Equal(core.AbsentCell(), core.CellOf(tree.Null()))
	r.Equal(core.AbsentCell(), core.CellOf(nil))

	leaf := core.CellOf(tree.FromInt(3))
	r.Equal(core.CellFlat, leaf.Kind)
	r.Equal(json.Number("3"), leaf.Value())
	r.Equal("3", leaf.String())

	nested := core.CellOf(tree.FromSlice([]*tree.Node{tree.FromInt(1)}))
	r.Equal(core.CellNested, nested.Kind)
	r.Equal("[1]", nested.String())

	r.True(leaf.Equal(core.FlatCell(json.Number("3"))))
	r.False(leaf.Equal(nested))
}
