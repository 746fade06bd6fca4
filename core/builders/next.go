package builders

import (
	"errors"

	"github.com/treetab/treetab/core"
)

// NextSingle creates next and hasNext functions from a provided single cell
func NextSingle(cell core.Cell) (func() (core.Row, error), func() bool) {
	has := true

	// iterator functions
	next := func() (core.Row, error) {
		if !has {
			return nil, errors.New("no next row")
		}
		has = false
		return core.Row{cell}, nil
	}

	hasNext := func() bool {
		return has
	}

	return next, hasNext
}

// NextSlice creates next and hasNext functions from provided values.
// preprocess parses a single value from the slice into a cell before
// adding it to a row.
func NextSlice[T any](values []T, preprocess func(T) core.Cell) (func() (core.Row, error), func() bool) {
	index := 0

	hasNext := func() bool {
		return index < len(values)
	}

	// iterator functions
	next := func() (core.Row, error) {
		if !hasNext() {
			return nil, errors.New("no next row")
		}

		row := core.Row{preprocess(values[index])}
		index++
		return row, nil
	}

	return next, hasNext
}

// NextNil creates next and hasNext functions that don't return anything (no rows)
func NextNil() (func() (core.Row, error), func() bool) {
	hasNext := func() bool {
		return false
	}

	// iterator functions
	next := func() (core.Row, error) {
		return nil, errors.New("no next row")
	}

	return next, hasNext
}

// NextYield creates next and hasNext functions fed by a generator
// running in its own goroutine. hasNext blocks until a row is buffered
// or the generator finishes, so a closed channel means end of stream
// and never a phantom row.
func NextYield(fn func(yield func(...core.Cell)) error) (func() (core.Row, error), func() bool) {
	ch := make(chan core.Row, 10)
	errCh := make(chan error, 1)

	// spawn channel function; a generator error is buffered before the
	// row channel closes, so the consumer always sees it
	go func() {
		err := fn(func(cells ...core.Cell) {
			ch <- core.Row(cells)
		})
		if err != nil {
			errCh <- err
		}
		close(ch)
	}()

	var (
		buffered  core.Row
		hasBuffer bool
		pending   error
		finished  bool
	)

	hasNext := func() bool {
		if hasBuffer || pending != nil {
			return true
		}
		if finished {
			return false
		}

		row, ok := <-ch
		if !ok {
			finished = true
			select {
			case pending = <-errCh:
			default:
			}
			return pending != nil
		}

		buffered, hasBuffer = row, true
		return true
	}

	next := func() (core.Row, error) {
		if !hasNext() {
			return nil, errors.New("no next row")
		}

		if hasBuffer {
			row := buffered
			buffered, hasBuffer = nil, false
			return row, nil
		}

		err := pending
		pending = nil
		return nil, err
	}

	return next, hasNext
}
