// Package flatten implements the two rectangling primitives - widen turns
// record columns into new columns, lengthen turns sequence columns into new
// rows - and the loop that applies them until a table is fully flat.
//
// Both primitives are pure: they read one table and build another, so a
// caller can drive them manually in any order, or let Flatten decide.
package flatten

import (
	"fmt"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/tree"
)

// Widen replaces a record column with one column per distinct key
// observed across its rows, in first-seen order. Rows missing a key get
// the absence marker. Row count is unchanged.
func Widen(t *core.Table, column string, opts *WidenOpts) (*core.Table, error) {
	return WidenAll(t, []string{column}, opts)
}

// WidenAll widens a set of sibling columns at once. The only difference
// to consecutive single-column calls is that generated names are checked
// for collisions across the whole batch before any column is touched.
func WidenAll(t *core.Table, columns []string, opts *WidenOpts) (*core.Table, error) {
	opts = opts.withDefaults()

	targets := make(map[int]struct{}, len(columns))
	for _, column := range columns {
		idx := t.ColumnIndex(column)
		if idx < 0 {
			return nil, core.ErrColumnNotFound(column)
		}
		targets[idx] = struct{}{}
	}

	header := t.Header()

	// distinct keys per target column, first-seen order
	keys := make(map[int][]string, len(targets))
	for idx := range targets {
		collected, err := collectKeys(t, header[idx], idx)
		if err != nil {
			return nil, err
		}
		keys[idx] = collected
	}

	// surviving columns can collide with generated names
	taken := make(map[string]struct{}, len(header))
	for idx, name := range header {
		if _, isTarget := targets[idx]; !isTarget {
			taken[name] = struct{}{}
		}
	}

	// generated names, checked across the whole batch
	generated := make(map[int][]string, len(targets))
	for idx := range targets {
		names := make([]string, len(keys[idx]))
		for i, key := range keys[idx] {
			name := key
			if opts.Naming == NamingPrefixed {
				name = header[idx] + opts.Separator + key
			}
			if _, ok := taken[name]; ok {
				return nil, &NamingConflictError{Column: header[idx], Name: name}
			}
			taken[name] = struct{}{}
			names[i] = name
		}
		generated[idx] = names
	}

	// new header with generated columns spliced in place of their target
	newHeader := make(core.Header, 0, len(header))
	for idx, name := range header {
		if _, isTarget := targets[idx]; isTarget {
			newHeader = append(newHeader, generated[idx]...)
			continue
		}
		newHeader = append(newHeader, name)
	}

	newRows := make([]core.Row, t.RowCount())
	for i, row := range t.Rows() {
		newRow := make(core.Row, 0, len(newHeader))
		for idx, cell := range row {
			if _, isTarget := targets[idx]; !isTarget {
				newRow = append(newRow, cell)
				continue
			}
			newRow = append(newRow, widenCell(cell, keys[idx])...)
		}
		newRows[i] = newRow
	}

	res, err := core.NewTable(newHeader, newRows)
	if err != nil {
		return nil, fmt.Errorf("core.NewTable: %w", err)
	}
	return res, nil
}

// collectKeys gathers record keys of a column in first-seen order and
// rejects any non-empty cell that is not a record.
func collectKeys(t *core.Table, column string, idx int) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})

	for _, row := range t.Rows() {
		cell := row[idx]
		switch cell.Kind {
		case core.CellAbsent:
			continue
		case core.CellFlat:
			return nil, &TypeMismatchError{Column: column, Got: "flat value"}
		}

		if cell.Node.Kind != tree.KindRecord {
			return nil, &TypeMismatchError{Column: column, Got: cell.Node.Kind.String()}
		}

		for _, key := range cell.Node.Keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// widenCell spreads one record cell over the generated columns.
func widenCell(cell core.Cell, keys []string) []core.Cell {
	cells := make([]core.Cell, len(keys))
	if cell.Kind == core.CellAbsent {
		for i := range cells {
			cells[i] = core.AbsentCell()
		}
		return cells
	}

	for i, key := range keys {
		sub := cell.Node.Get(key)
		if sub == nil {
			cells[i] = core.AbsentCell()
			continue
		}
		cells[i] = core.CellOf(sub)
	}
	return cells
}

// DistinctKeyCount returns the number of columns a widen of the given
// column would generate.
func DistinctKeyCount(t *core.Table, column string) (int, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return 0, core.ErrColumnNotFound(column)
	}
	keys, err := collectKeys(t, column, idx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
