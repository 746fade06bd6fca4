package sources

import (
	"context"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
)

var _ core.Driver = (*mysqlDriver)(nil)

type mysqlDriver struct {
	c *builders.Client
}

func (c *mysqlDriver) Query(ctx context.Context, query string) (core.DocumentStream, error) {
	// empty header means no result, fall back to affected rows
	return c.c.QueryUntilNotEmpty(ctx, query, "select ROW_COUNT() as 'Rows Affected'")
}

func (c *mysqlDriver) Structure() ([]*core.Structure, error) {
	query := `SELECT table_schema, table_name FROM information_schema.tables`

	rows, err := c.Query(context.TODO(), query)
	if err != nil {
		return nil, err
	}

	children := make(map[string][]*core.Structure)

	for rows.HasNext() {
		row, err := rows.Next()
		if err != nil {
			return nil, err
		}

		// We know for a fact there are 2 string fields (see query above)
		schema := row[0].String()
		table := row[1].String()

		children[schema] = append(children[schema], &core.Structure{
			Name:   table,
			Schema: schema,
			Type:   core.StructureTypeTable,
		})
	}

	var structure []*core.Structure

	for k, v := range children {
		structure = append(structure, &core.Structure{
			Name:     k,
			Schema:   k,
			Type:     core.StructureTypeNone,
			Children: v,
		})
	}

	return structure, nil
}

func (c *mysqlDriver) Close() {
	c.c.Close()
}
