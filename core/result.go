package core

import (
	"fmt"
	"sync"
)

var ErrInvalidRange = func(from, to int) error { return fmt.Errorf("invalid selection range: %d ... %d", from, to) }

// Result is the cached form of the DocumentStream iterator
type Result struct {
	header Header
	meta   *Meta
	rows   []Row

	isFilled bool
	mutex    sync.RWMutex
}

// SetIter drains the stream into the result.
// This can be done only once!
func (cr *Result) SetIter(iter DocumentStream, onFillStart func()) error {
	cr.mutex.Lock()
	defer cr.mutex.Unlock()

	// close iterator on return
	defer iter.Close()

	cr.header = iter.Header()
	cr.meta = iter.Meta()
	cr.rows = make([]Row, 0)

	// trigger callback
	if onFillStart != nil {
		onFillStart()
	}

	for iter.HasNext() {
		row, err := iter.Next()
		if err != nil {
			return err
		}

		cr.rows = append(cr.rows, row)
	}

	cr.isFilled = true
	return nil
}

func (cr *Result) Len() int {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	return len(cr.rows)
}

func (cr *Result) IsEmpty() bool {
	return !cr.isFilled
}

func (cr *Result) Header() Header {
	return cr.header
}

func (cr *Result) Meta() *Meta {
	return cr.meta
}

// Table converts the drained rows into a table.
func (cr *Result) Table() (*Table, error) {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	t, err := NewTable(cr.header, cr.rows)
	if err != nil {
		return nil, fmt.Errorf("core.NewTable: %w", err)
	}
	return t, nil
}

// Format renders the row range [from, to) with the given formatter.
func (cr *Result) Format(formatter Formatter, from, to int) ([]byte, error) {
	cr.mutex.RLock()
	defer cr.mutex.RUnlock()

	t := &Table{header: cr.header, rows: cr.rows}
	rows, fromAdjusted, err := t.rowRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("cr.rowRange: %w", err)
	}

	opts := &FormatterOpts{
		SchemaType: cr.meta.SchemaType,
		ChunkStart: fromAdjusted,
	}

	out, err := formatter.Format(cr.header, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("formatter.Format: %w", err)
	}

	return out, nil
}
