package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/mock"
)

func TestCall_Success(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 10)

	connection, err := core.NewConnection(&core.ConnectionParams{}, mock.NewSource(rows,
		mock.SourceWithStreamOpts(mock.StreamWithNextSleep(300*time.Millisecond)),
	))
	r.NoError(err)

	expectedEvents := []core.CallState{
		core.CallStateExecuting,
		core.CallStateRetrieving,
		core.CallStateDone,
	}

	eventIndex := 0
	call := connection.Execute("_", func(state core.CallState, c *core.Call) {
		// make sure events were in order
		r.Equal(expectedEvents[eventIndex], state)
		eventIndex++
	})

	// wait for call to finish
	select {
	case <-call.Done():
		// wait a bit for event index to stabilize
		time.Sleep(100 * time.Millisecond)
	case <-time.After(5 * time.Second):
		t.Error("call did not finish in expected time")
	}

	// make sure all events passed
	r.Equal(len(expectedEvents), eventIndex)

	result := call.GetResult()
	r.Equal(len(rows), result.Len())

	table, err := result.Table()
	r.NoError(err)
	r.Equal(rows, table.Rows())
}

func TestCall_Cancel(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 10)

	source := mock.NewSource(rows,
		mock.SourceWithQuerySideEffect("wait", func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(10 * time.Second):
			}
			return nil
		}),
		mock.SourceWithStreamOpts(mock.StreamWithNextSleep(300*time.Millisecond)),
	)

	connection, err := core.NewConnection(&core.ConnectionParams{}, source)
	r.NoError(err)

	expectedEvents := []core.CallState{
		core.CallStateExecuting,
		core.CallStateCanceled,
	}

	eventIndex := 0
	call := connection.Execute("wait", func(state core.CallState, c *core.Call) {
		// wait for first event and cancel request
		c.Cancel()
		// make sure events were in order
		r.Equal(expectedEvents[eventIndex], state)
		eventIndex++
	})

	// wait for call to finish
	select {
	case <-call.Done():
		// wait a bit for event index to stabilize
		time.Sleep(100 * time.Millisecond)
	case <-time.After(5 * time.Second):
		t.Error("call did not finish in expected time")
	}

	// make sure all events passed
	r.Equal(len(expectedEvents), eventIndex)
}

func TestCall_FailedQuery(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 10)

	source := mock.NewSource(rows,
		mock.SourceWithQuerySideEffect("fail", func(ctx context.Context) error {
			return errors.New("query failed")
		}),
		mock.SourceWithStreamOpts(mock.StreamWithNextSleep(300*time.Millisecond)),
	)

	connection, err := core.NewConnection(&core.ConnectionParams{}, source)
	r.NoError(err)

	expectedEvents := []core.CallState{
		core.CallStateExecuting,
		core.CallStateExecutingFailed,
	}

	eventIndex := 0
	call := connection.Execute("fail", func(state core.CallState, c *core.Call) {
		// make sure events were in order
		r.Equal(expectedEvents[eventIndex], state)
		eventIndex++

		if state == core.CallStateExecutingFailed {
			r.NotNil(c.Err())
		}
	})

	// wait for call to finish
	select {
	case <-call.Done():
		// wait a bit for event index to stabilize
		time.Sleep(100 * time.Millisecond)
	case <-time.After(5 * time.Second):
		t.Error("call did not finish in expected time")
	}

	// make sure all events passed
	r.Equal(len(expectedEvents), eventIndex)
}

func TestConnection_Structure(t *testing.T) {
	r := require.New(t)

	connection, err := core.NewConnection(&core.ConnectionParams{}, mock.NewSource(nil,
		mock.SourceWithCollection("users"),
		mock.SourceWithCollection("events"),
	))
	r.NoError(err)

	structure, err := connection.GetStructure()
	r.NoError(err)
	r.Len(structure, 2)
	r.Equal("users", structure[0].Name)
	r.Equal(core.StructureTypeCollection, structure[0].Type)
}
