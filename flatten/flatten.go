package flatten

import (
	"github.com/treetab/treetab/core"
)

// Flatten rectangles a table to completion: it classifies columns left
// to right, widens record columns, lengthens sequence columns and
// repeats until every cell is a flat scalar or an absence marker.
//
// A column whose rows disagree on a shape surfaces *AmbiguousShapeError
// instead of being guessed at; the caller can resolve it with manual
// Widen/Lengthen calls and run Flatten again. An already-flat table is
// returned unchanged.
func Flatten(t *core.Table, opts *Opts) (*core.Table, error) {
	opts = opts.withDefaults()

	widenOpts := &WidenOpts{Naming: opts.Naming, Separator: opts.Separator}
	lengthenOpts := &LengthenOpts{KeepEmpty: opts.KeepEmpty}

	// every pass strictly reduces the total nesting depth of the table,
	// so the loop terminates for any finite input
	for {
		column, shape, err := nextNested(t)
		if err != nil {
			return nil, err
		}
		if column == "" {
			return t, nil
		}

		switch shape {
		case core.ShapeRecord:
			t, err = Widen(t, column, widenOpts)
		case core.ShapeSequence:
			t, err = Lengthen(t, column, lengthenOpts)
		default:
			return nil, &AmbiguousShapeError{Column: column}
		}
		if err != nil {
			return nil, err
		}
	}
}

// nextNested finds the leftmost column still holding nested values.
func nextNested(t *core.Table) (string, core.Shape, error) {
	for _, column := range t.Header() {
		shape, err := t.Classify(column)
		if err != nil {
			return "", core.ShapeFlat, err
		}
		if shape != core.ShapeFlat {
			return column, shape, nil
		}
	}
	return "", core.ShapeFlat, nil
}
