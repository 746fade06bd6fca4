package sources

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
)

// Register source
func init() {
	_ = register(&MySQL{}, "mysql")
}

var _ core.Source = (*MySQL)(nil)

type MySQL struct{}

func (m *MySQL) Connect(url string) (core.Driver, error) {
	// add multiple statements support parameter
	match, err := regexp.MatchString(`[\?][\w]+=[\w-]+`, url)
	if err != nil {
		return nil, err
	}
	sep := "?"
	if match {
		sep = "&"
	}

	db, err := sql.Open("mysql", url+sep+"multiStatements=true")
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mysql database: %w", err)
	}

	return &mysqlDriver{
		c: builders.NewClient(db,
			builders.WithJSONProcessor("JSON"),
		),
	}, nil
}
