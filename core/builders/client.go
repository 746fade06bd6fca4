package builders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/treetab/treetab/core"
)

// default sql client used by the sql-backed sources
type Client struct {
	db             *sql.DB
	typeProcessors map[string]func(any) core.Cell
}

func NewClient(db *sql.DB, opts ...ClientOption) *Client {
	config := clientConfig{
		typeProcessors: make(map[string]func(any) core.Cell),
	}
	for _, opt := range opts {
		opt(&config)
	}

	return &Client{
		db:             db,
		typeProcessors: config.typeProcessors,
	}
}

func (c *Client) Conn(ctx context.Context) (*Conn, error) {
	conn, err := c.db.Conn(ctx)

	return &Conn{
		conn:           conn,
		typeProcessors: c.typeProcessors,
	}, err
}

func (c *Client) Close() {
	c.db.Close()
}

func (c *Client) Swap(db *sql.DB) {
	c.db.Close()
	c.db = db
}

// QueryUntilNotEmpty executes the queries in order on a new connection
// until one returns a result with a header. The connection closes once
// the returned stream is drained.
func (c *Client) QueryUntilNotEmpty(ctx context.Context, queries ...string) (*Stream, error) {
	if len(queries) < 1 {
		return nil, errors.New("no queries provided")
	}

	conn, err := c.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("c.Conn: %w", err)
	}

	for i, query := range queries {
		stream, err := conn.Query(ctx, query)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("conn.Query: %w", err)
		}

		if len(stream.Header()) > 0 || i == len(queries)-1 {
			stream.SetCallback(func() { conn.Close() })
			return stream, nil
		}
		stream.Close()
	}

	conn.Close()
	return nil, errors.New("no results")
}

// connection to use for execution
type Conn struct {
	conn           *sql.Conn
	typeProcessors map[string]func(any) core.Cell
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// Exec executes a query and returns a stream with single row (number of affected results).
func (c *Conn) Exec(ctx context.Context, query string) (*Stream, error) {
	res, err := c.conn.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	stream := NewStreamBuilder().
		WithNextFunc(NextSingle(core.FlatCell(affected))).
		WithHeader(core.Header{"Rows Affected"}).
		Build()

	return stream, nil
}

func (c *Conn) getTypeProcessor(typ string) func(any) core.Cell {
	proc, ok := c.typeProcessors[strings.ToLower(typ)]
	if ok {
		return proc
	}

	return func(val any) core.Cell {
		if valb, ok := val.([]byte); ok {
			return core.FlatCell(string(valb))
		}
		return core.FlatCell(val)
	}
}

// Query executes a query on a connection and returns a document stream.
// Each database row becomes one stream row; registered type processors
// decide per column type how values convert to cells (this is how json
// columns end up as nested documents).
func (c *Conn) Query(ctx context.Context, query string) (*Stream, error) {
	dbRows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	// create new rows
	header, err := dbRows.Columns()
	if err != nil {
		return nil, err
	}

	hasNextFunc := func() bool {
		// if not next result, check for any new sets
		if !dbRows.Next() {
			if !dbRows.NextResultSet() {
				return false
			}
			return dbRows.Next()
		}
		return true
	}

	nextFunc := func() (core.Row, error) {
		dbCols, err := dbRows.ColumnTypes()
		if err != nil {
			return nil, err
		}

		columns := make([]any, len(dbCols))
		columnPointers := make([]any, len(dbCols))
		for i := range columns {
			columnPointers[i] = &columns[i]
		}

		if err := dbRows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		row := make(core.Row, len(dbCols))
		for i := range dbCols {
			val := *columnPointers[i].(*any)

			proc := c.getTypeProcessor(dbCols[i].DatabaseTypeName())

			row[i] = proc(val)
		}

		return row, nil
	}

	stream := NewStreamBuilder().
		WithNextFunc(nextFunc, hasNextFunc).
		WithHeader(header).
		WithCloseFunc(func() {
			_ = dbRows.Close()
		}).
		Build()

	return stream, nil
}
