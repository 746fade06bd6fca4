//go:build (darwin && (amd64 || arm64)) || (freebsd && (386 || amd64 || arm || arm64)) || (linux && (386 || amd64 || arm || arm64 || ppc64le || riscv64 || s390x)) || (netbsd && amd64) || (openbsd && (amd64 || arm64)) || (windows && (amd64 || arm64))

package sources

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
)

// Register source
func init() {
	_ = register(&SQLite{}, "sqlite", "sqlite3")
}

var _ core.Source = (*SQLite)(nil)

type SQLite struct{}

func (s *SQLite) Connect(url string) (core.Driver, error) {
	db, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to sqlite database: %w", err)
	}

	return &sqliteDriver{
		c: builders.NewClient(db),
	}, nil
}
