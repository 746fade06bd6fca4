package flatten

import (
	"encoding/json"
	"fmt"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/tree"
)

// Lengthen expands a sequence column into one output row per element,
// duplicating all other columns across the expansion. Cells that are not
// sequences (scalars, records, already-flat values) pass through as a
// single row, so the operation never fails on shape.
//
// Scalar elements land as flat cells when every emitted scalar agrees on
// one type; otherwise each element stays individually wrapped and the
// column remains nested for the caller to inspect. Type unification
// failures are deliberately non-fatal.
func Lengthen(t *core.Table, column string, opts *LengthenOpts) (*core.Table, error) {
	opts = opts.withDefaults()

	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, core.ErrColumnNotFound(column)
	}

	unified := scalarsUnify(t, idx)

	var newRows []core.Row
	for _, row := range t.Rows() {
		cell := row[idx]

		// pass-through shapes contribute a single unchanged row
		if cell.Kind == core.CellFlat ||
			(cell.Kind == core.CellNested && cell.Node.Kind != tree.KindSequence) {
			newRows = append(newRows, row)
			continue
		}

		var elements []*tree.Node
		if cell.Kind == core.CellNested {
			elements = cell.Node.Values
		}

		if len(elements) == 0 {
			if opts.KeepEmpty {
				newRows = append(newRows, replaceCell(row, idx, core.AbsentCell()))
			}
			continue
		}

		for _, element := range elements {
			newRows = append(newRows, replaceCell(row, idx, elementCell(element, unified)))
		}
	}

	res, err := core.NewTable(t.Header(), newRows)
	if err != nil {
		return nil, fmt.Errorf("core.NewTable: %w", err)
	}
	return res, nil
}

// scalarsUnify reports whether every emitted sequence element is a
// scalar leaf and all scalars that will land in the column (elements
// and passed-through flat cells) share one type. Absence markers and
// nulls are compatible with everything; a single container element
// breaks unification so no element comes out flat next to it.
func scalarsUnify(t *core.Table, idx int) bool {
	var kind tree.Kind
	seen := false

	check := func(k tree.Kind) bool {
		if k == tree.KindNull {
			return true
		}
		if seen && k != kind {
			return false
		}
		kind, seen = k, true
		return true
	}

	for _, row := range t.Rows() {
		cell := row[idx]
		switch cell.Kind {
		case core.CellFlat:
			if !check(kindOfScalar(cell.Flat)) {
				return false
			}
		case core.CellNested:
			if cell.Node.Kind != tree.KindSequence {
				continue
			}
			for _, element := range cell.Node.Values {
				if !element.IsLeaf() {
					return false
				}
				if !check(element.Kind) {
					return false
				}
			}
		}
	}

	return true
}

// elementCell converts one emitted sequence element into a cell.
func elementCell(element *tree.Node, unified bool) core.Cell {
	if element.Kind == tree.KindNull {
		return core.AbsentCell()
	}
	if !element.IsLeaf() {
		return core.NestedCell(element)
	}
	if unified {
		return core.FlatCell(element.Scalar())
	}
	// wrap individually, the column stays nested
	return core.NestedCell(element)
}

func replaceCell(row core.Row, idx int, cell core.Cell) core.Row {
	newRow := make(core.Row, len(row))
	copy(newRow, row)
	newRow[idx] = cell
	return newRow
}

// kindOfScalar maps a flat go value onto the tree scalar kinds for the
// unification check.
func kindOfScalar(value any) tree.Kind {
	switch value.(type) {
	case bool:
		return tree.KindBool
	case string:
		return tree.KindString
	case json.Number, int, int32, int64, float32, float64:
		return tree.KindNumber
	default:
		// foreign types (timestamps etc.) never unify with tree scalars
		return tree.Kind(-1)
	}
}
