package core

import (
	"encoding/json"

	"github.com/treetab/treetab/tree"
)

type CellKind int

const (
	// CellAbsent is the null-like placeholder for rows with no value
	// for a column.
	CellAbsent CellKind = iota
	// CellFlat holds a plain scalar.
	CellFlat
	// CellNested holds a document that still needs flattening.
	CellNested
)

// Cell is a single table slot: absent, a flat scalar or a nested document.
// Keeping the variant explicit makes column classification a pattern match
// instead of runtime type inspection.
type Cell struct {
	Kind CellKind
	Flat any
	Node *tree.Node
}

func AbsentCell() Cell {
	return Cell{Kind: CellAbsent}
}

func FlatCell(value any) Cell {
	if value == nil {
		return AbsentCell()
	}
	return Cell{Kind: CellFlat, Flat: value}
}

func NestedCell(node *tree.Node) Cell {
	if node == nil {
		return AbsentCell()
	}
	return Cell{Kind: CellNested, Node: node}
}

// CellOf converts a document into a cell: leaves come out flat
// (null leaves become absent), containers stay nested.
func CellOf(node *tree.Node) Cell {
	if node == nil || node.Kind == tree.KindNull {
		return AbsentCell()
	}
	if node.IsLeaf() {
		return FlatCell(node.Scalar())
	}
	return NestedCell(node)
}

// Value returns the underlying go value: nil for absent cells,
// the scalar for flat cells and the document for nested ones.
func (c Cell) Value() any {
	switch c.Kind {
	case CellFlat:
		return c.Flat
	case CellNested:
		return c.Node
	default:
		return nil
	}
}

func (c Cell) Equal(other Cell) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == CellNested {
		return c.Node.Equal(other.Node)
	}
	return c.Flat == other.Flat
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

func (c Cell) String() string {
	switch c.Kind {
	case CellAbsent:
		return ""
	case CellNested:
		return c.Node.String()
	default:
		if s, ok := c.Flat.(string); ok {
			return s
		}
		out, err := json.Marshal(c.Flat)
		if err != nil {
			return ""
		}
		return string(out)
	}
}
