package sources

import (
	"context"
	"database/sql"
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
)

var (
	_ core.Driver           = (*postgresDriver)(nil)
	_ core.DatabaseSwitcher = (*postgresDriver)(nil)
)

type postgresDriver struct {
	c   *builders.Client
	url *nurl.URL
}

func (c *postgresDriver) Query(ctx context.Context, query string) (core.DocumentStream, error) {
	action := strings.ToLower(strings.Split(query, " ")[0])
	hasReturnValues := strings.Contains(strings.ToLower(query), " returning ")

	if (action == "update" || action == "delete" || action == "insert") && !hasReturnValues {
		conn, err := c.c.Conn(ctx)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		return conn.Exec(ctx, query)
	}

	return c.c.QueryUntilNotEmpty(ctx, query)
}

func (c *postgresDriver) Structure() ([]*core.Structure, error) {
	query := `
		SELECT table_schema, table_name, table_type FROM information_schema.tables UNION ALL
		SELECT schemaname, matviewname, 'VIEW' FROM pg_matviews;
	`

	rows, err := c.Query(context.TODO(), query)
	if err != nil {
		return nil, err
	}

	return core.GetGenericStructure(rows, getPGStructureType)
}

func (c *postgresDriver) Close() {
	c.c.Close()
}

func (c *postgresDriver) ListDatabases() (current string, available []string, err error) {
	query := `
		SELECT current_database(), datname FROM pg_database
		WHERE datistemplate = false
		AND datname != current_database();
	`

	rows, err := c.Query(context.TODO(), query)
	if err != nil {
		return "", nil, err
	}

	for rows.HasNext() {
		row, err := rows.Next()
		if err != nil {
			return "", nil, err
		}

		// We know for a fact there are 2 string fields (see query above)
		current = row[0].String()
		available = append(available, row[1].String())
	}

	return current, available, nil
}

func (c *postgresDriver) SelectDatabase(name string) error {
	c.url.Path = fmt.Sprintf("/%s", name)
	db, err := sql.Open("postgres", c.url.String())
	if err != nil {
		return fmt.Errorf("unable to switch databases: %w", err)
	}

	// sql.Open just validates its arguments
	// without creating a connection to the database
	// so we need to ping the database to check if it's valid
	if err = db.Ping(); err != nil {
		return fmt.Errorf("unable to connect to database: %q, err: %w", name, err)
	}

	c.c.Swap(db)

	return nil
}

// getPGStructureType returns the structure type based on the provided string.
func getPGStructureType(typ string) core.StructureType {
	switch typ {
	case "TABLE", "BASE TABLE", "FOREIGN", "FOREIGN TABLE", "SYSTEM TABLE":
		return core.StructureTypeTable
	case "VIEW", "SYSTEM VIEW", "MATERIALIZED VIEW":
		return core.StructureTypeView
	default:
		return core.StructureTypeNone
	}
}
