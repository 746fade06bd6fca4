package builders_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
)

func cells(values ...any) []core.Cell {
	out := make([]core.Cell, len(values))
	for i, v := range values {
		out[i] = core.FlatCell(v)
	}
	return out
}

func testNextYield(t *testing.T, sleep bool) {
	r := require.New(t)

	rows := [][]core.Cell{
		cells("first", "row"),
		cells("second"),
		cells("third"),
		cells("fourth"),
		cells("fifth"),
		cells("and", "last", "row"),
	}

	next, hasNext := builders.NextYield(func(yield func(...core.Cell)) error {
		for i, row := range rows {
			if sleep && (i == 2 || i == 4) {
				time.Sleep(500 * time.Millisecond)
			}
			yield(row...)
		}

		return nil
	})

	i := 0
	for hasNext() {
		row, err := next()

		r.NoError(err)

		r.NotEqual(0, len(row))

		r.Equal(core.Row(rows[i]), row)

		i++
	}

	r.Equal(len(rows), i)
}

func TestNextYield_Success(t *testing.T) {
	// test with random sleeping
	testNextYield(t, true)

	for i := 0; i < 1000; i++ {
		testNextYield(t, false)
	}
}

func TestNextYield_Error(t *testing.T) {
	expectedError := errors.New("expected error")

	next, hasNext := builders.NextYield(func(yield func(...core.Cell)) error {
		return expectedError
	})

	for hasNext() {
		_, err := next()
		require.Error(t, err, expectedError.Error())
	}
}

func TestNextYield_NoRows(t *testing.T) {
	_, hasNext := builders.NextYield(func(yield func(...core.Cell)) error {
		time.Sleep(1 * time.Second)
		return nil
	})

	require.Equal(t, false, hasNext())
}

func TestNextYield_SingleRow(t *testing.T) {
	r := require.New(t)
	next, hasNext := builders.NextYield(func(yield func(...core.Cell)) error {
		yield(core.FlatCell(1))
		time.Sleep(1 * time.Second)
		return nil
	})

	r.True(hasNext())

	row, err := next()
	r.NoError(err)
	r.Equal(1, len(row))
	r.Equal(core.FlatCell(1), row[0])

	r.Equal(false, hasNext())
}

func TestNextYield_EmptyStreamDrains(t *testing.T) {
	r := require.New(t)

	next, hasNext := builders.NextYield(func(yield func(...core.Cell)) error {
		return nil
	})

	stream := builders.NewStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(core.Header{"document"}).
		Build()

	table, err := core.FromStream(stream)
	r.NoError(err)
	r.Equal(0, table.RowCount())
}

func TestNextSingle(t *testing.T) {
	r := require.New(t)

	next, hasNext := builders.NextSingle(core.FlatCell("only"))

	r.True(hasNext())
	row, err := next()
	r.NoError(err)
	r.Equal(core.Row{core.FlatCell("only")}, row)

	r.False(hasNext())
	_, err = next()
	r.Error(err)
}

func TestNextSlice(t *testing.T) {
	r := require.New(t)

	next, hasNext := builders.NextSlice([]int{1, 2, 3}, func(v int) core.Cell {
		return core.FlatCell(v * 10)
	})

	var got []core.Row
	for hasNext() {
		row, err := next()
		r.NoError(err)
		got = append(got, row)
	}

	r.Equal([]core.Row{
		{core.FlatCell(10)},
		{core.FlatCell(20)},
		{core.FlatCell(30)},
	}, got)
}

func TestNextNil(t *testing.T) {
	r := require.New(t)

	next, hasNext := builders.NextNil()
	r.False(hasNext())
	_, err := next()
	r.Error(err)
}
