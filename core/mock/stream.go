package mock

import (
	"errors"
	"fmt"
	"time"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/tree"
)

func newNext(rows []core.Row) (func() (core.Row, error), func() bool) {
	index := 0

	hasNext := func() bool {
		return index < len(rows)
	}

	// iterator functions
	next := func() (core.Row, error) {
		if !hasNext() {
			return nil, errors.New("no next row")
		}

		row := rows[index]
		index++
		return row, nil
	}

	return next, hasNext
}

type Stream struct {
	next    func() (core.Row, error)
	hasNext func() bool
	config  *streamConfig
}

func makeDefaultHeader(rows []core.Row) core.Header {
	var header core.Header
	if len(rows) > 0 {
		for i := range rows[0] {
			header = append(header, fmt.Sprintf("header_%d", i))
		}
	}
	return header
}

// NewStream returns a mocked document stream with provided rows.
// It creates a header that matches the number of columns in the first row
// in form of: <header_0>, <header_1>, etc.
func NewStream(rows []core.Row, opts ...StreamOption) *Stream {
	config := &streamConfig{
		nextSleep: 0,
		meta:      &core.Meta{},
		header:    makeDefaultHeader(rows),
	}
	for _, opt := range opts {
		opt(config)
	}

	next, hasNext := newNext(rows)

	return &Stream{
		next:    next,
		hasNext: hasNext,
		config:  config,
	}
}

func (s *Stream) Meta() *core.Meta {
	return s.config.meta
}

func (s *Stream) Header() core.Header {
	return s.config.header
}

func (s *Stream) Next() (core.Row, error) {
	time.Sleep(s.config.nextSleep)
	return s.next()
}

func (s *Stream) HasNext() bool {
	return s.hasNext()
}

func (s *Stream) Close() {}

// NewRows returns a slice of single-cell rows in form of:
//
//	{ {"id": <index>, "name": "row_<index>"} }
//
// where the first index is "from" and the last one is one less than "to".
func NewRows(from, to int) []core.Row {
	var rows []core.Row

	for i := from; i < to; i++ {
		doc := tree.FromPairs([]tree.Pair{
			{Key: "id", Value: tree.FromInt(int64(i))},
			{Key: "name", Value: tree.FromString(fmt.Sprintf("row_%d", i))},
		})
		rows = append(rows, core.Row{core.NestedCell(doc)})
	}
	return rows
}
