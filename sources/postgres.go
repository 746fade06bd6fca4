package sources

import (
	"database/sql"
	"fmt"
	nurl "net/url"

	_ "github.com/lib/pq"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
)

// Register source
func init() {
	_ = register(&Postgres{}, "postgres", "postgresql", "pg")
}

var _ core.Source = (*Postgres)(nil)

type Postgres struct{}

func (p *Postgres) Connect(url string) (core.Driver, error) {
	u, err := nurl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	db, err := sql.Open("postgres", u.String())
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres database: %w", err)
	}

	return &postgresDriver{
		c: builders.NewClient(db,
			builders.WithJSONProcessor("json"),
			builders.WithJSONProcessor("jsonb"),
		),
		url: u,
	}, nil
}
