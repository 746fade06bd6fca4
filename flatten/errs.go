package flatten

import "fmt"

// TypeMismatchError is returned when widen hits a non-empty cell that
// is not a record.
type TypeMismatchError struct {
	Column string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot widen column %q: it holds a %s, not a record", e.Column, e.Got)
}

// NamingConflictError is returned when a generated column name collides
// with an existing or sibling-generated name.
type NamingConflictError struct {
	Column string
	Name   string
}

func (e *NamingConflictError) Error() string {
	return fmt.Sprintf("cannot widen column %q: generated column %q already exists", e.Column, e.Name)
}

// AmbiguousShapeError is returned by Flatten for a column whose rows mix
// record and sequence shapes (or hold unresolvable wrapped scalars), so
// neither widen nor lengthen alone resolves it. The primitives stay
// available for manual, column-by-column resolution.
type AmbiguousShapeError struct {
	Column string
}

func (e *AmbiguousShapeError) Error() string {
	return fmt.Sprintf("cannot flatten column %q: rows disagree on its shape, resolve it manually", e.Column)
}
