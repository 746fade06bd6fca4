package core

import "github.com/treetab/treetab/tree"

// Shape classifies the nested content of a column, deciding which
// transform applies next.
type Shape int

const (
	// ShapeFlat columns hold only scalars and absence markers.
	ShapeFlat Shape = iota
	// ShapeRecord columns hold records in every nested cell ("wide-able").
	ShapeRecord
	// ShapeSequence columns hold sequences in every nested cell ("long-able").
	ShapeSequence
	// ShapeMixed columns hold nested cells of no single container shape;
	// neither transform resolves them on its own.
	ShapeMixed
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeRecord:
		return "record"
	case ShapeSequence:
		return "sequence"
	case ShapeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Classify inspects all cells of a column. Absent and flat cells don't
// count towards the shape; the nested ones have to agree on a container
// kind for the column to be wide-able or long-able.
func (t *Table) Classify(column string) (Shape, error) {
	cells, err := t.Column(column)
	if err != nil {
		return ShapeFlat, err
	}

	var records, sequences, leaves int
	for _, cell := range cells {
		if cell.Kind != CellNested {
			continue
		}
		switch cell.Node.Kind {
		case tree.KindRecord:
			records++
		case tree.KindSequence:
			sequences++
		default:
			leaves++
		}
	}

	nested := records + sequences + leaves
	switch {
	case nested == 0:
		return ShapeFlat, nil
	case records == nested:
		return ShapeRecord, nil
	case sequences == nested:
		return ShapeSequence, nil
	default:
		return ShapeMixed, nil
	}
}
