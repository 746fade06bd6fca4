package core

import (
	"fmt"
	"slices"

	"github.com/treetab/treetab/tree"
)

var (
	ErrColumnNotFound = func(column string) error { return fmt.Errorf("column not found: %q", column) }
	ErrRaggedRow      = func(index, want, got int) error {
		return fmt.Errorf("row %d has %d cells, the header has %d columns", index, got, want)
	}
	ErrDuplicateColumn = func(column string) error { return fmt.Errorf("duplicate column name: %q", column) }
)

// Table is an in-memory rows-by-named-columns container. Cells can hold
// nested documents transiently while flattening is in progress. Transforms
// never mutate a table, they build a new one.
type Table struct {
	header Header
	rows   []Row
}

// NewTable validates that column names are unique and all rows match the
// header width.
func NewTable(header Header, rows []Row) (*Table, error) {
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if _, ok := seen[name]; ok {
			return nil, ErrDuplicateColumn(name)
		}
		seen[name] = struct{}{}
	}

	for i, row := range rows {
		if len(row) != len(header) {
			return nil, ErrRaggedRow(i, len(header), len(row))
		}
	}

	return &Table{header: header, rows: rows}, nil
}

// FromDocuments wraps a batch of documents into a single-column table,
// one row per document. This is the entry point of the flatten loop.
func FromDocuments(column string, docs []*tree.Node) *Table {
	rows := make([]Row, len(docs))
	for i, doc := range docs {
		rows[i] = Row{CellOf(doc)}
	}
	return &Table{header: Header{column}, rows: rows}
}

// FromStream drains a document stream into a table.
func FromStream(stream DocumentStream) (*Table, error) {
	defer stream.Close()

	var rows []Row
	for stream.HasNext() {
		row, err := stream.Next()
		if err != nil {
			return nil, fmt.Errorf("stream.Next: %w", err)
		}
		rows = append(rows, row)
	}

	return NewTable(stream.Header(), rows)
}

func (t *Table) Header() Header {
	return slices.Clone(t.header)
}

func (t *Table) RowCount() int {
	return len(t.rows)
}

func (t *Table) ColumnCount() int {
	return len(t.header)
}

// ColumnIndex returns the position of a named column or -1.
func (t *Table) ColumnIndex(column string) int {
	return slices.Index(t.header, column)
}

// Column returns all cells of a named column in row order.
func (t *Table) Column(column string) ([]Cell, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, ErrColumnNotFound(column)
	}

	cells := make([]Cell, len(t.rows))
	for i, row := range t.rows {
		cells[i] = row[idx]
	}
	return cells, nil
}

func (t *Table) Row(index int) Row {
	return t.rows[index]
}

func (t *Table) Rows() []Row {
	return t.rows
}

func (t *Table) Equal(other *Table) bool {
	if !slices.Equal(t.header, other.header) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.rows {
		if !slices.EqualFunc(t.rows[i], other.rows[i], Cell.Equal) {
			return false
		}
	}
	return true
}

// Format renders the row range [from, to) with the given formatter.
// Negative indices select from the back, -1 being the last row.
func (t *Table) Format(formatter Formatter, from, to int) ([]byte, error) {
	rows, fromAdjusted, err := t.rowRange(from, to)
	if err != nil {
		return nil, err
	}

	opts := &FormatterOpts{
		SchemaType: SchemaFul,
		ChunkStart: fromAdjusted,
	}

	out, err := formatter.Format(t.Header(), rows, opts)
	if err != nil {
		return nil, fmt.Errorf("formatter.Format: %w", err)
	}
	return out, nil
}

func (t *Table) rowRange(from, to int) (rows []Row, rangeFrom int, err error) {
	if (from >= 0 && to >= 0 && from > to) || (from < 0 && to >= 0) {
		return nil, 0, ErrInvalidRange(from, to)
	}

	length := len(t.rows)
	if from < 0 {
		from += length + 1
		if from < 0 {
			from = 0
		}
	}
	if to < 0 {
		to += length + 1
		if to < 0 {
			to = 0
		}
	}

	if from > length {
		from = length
	}
	if to > length {
		to = length
	}

	return t.rows[from:to], from, nil
}
