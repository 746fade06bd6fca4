//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package sources

import (
	"context"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
)

var _ core.Driver = (*sqliteDriver)(nil)

type sqliteDriver struct {
	c *builders.Client
}

func (d *sqliteDriver) Query(ctx context.Context, query string) (core.DocumentStream, error) {
	// run query, fallback to affected rows
	return d.c.QueryUntilNotEmpty(ctx, query, "select changes() as 'Rows Affected'")
}

func (d *sqliteDriver) Structure() ([]*core.Structure, error) {
	// sqlite is single schema structure, so we hardcode the name of it.
	query := "SELECT 'sqlite_schema' as schema, name, type FROM sqlite_schema"

	rows, err := d.Query(context.Background(), query)
	if err != nil {
		return nil, err
	}

	decodeStructureType := func(typ string) core.StructureType {
		switch typ {
		case "table":
			return core.StructureTypeTable
		case "view":
			return core.StructureTypeView
		default:
			return core.StructureTypeNone
		}
	}
	return core.GetGenericStructure(rows, decodeStructureType)
}

func (d *sqliteDriver) Close() { d.c.Close() }
