package sources

import (
	"context"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/treetab/treetab/core"
)

// Register source
func init() {
	_ = register(&Mongo{}, "mongo", "mongodb")
}

var _ core.Source = (*Mongo)(nil)

type Mongo struct{}

func (m *Mongo) Connect(rawURL string) (core.Driver, error) {
	// get database name from url
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("mongo: invalid url: %w", err)
	}

	opts := options.Client().ApplyURI(rawURL)
	client, err := mongo.Connect(context.TODO(), opts)
	if err != nil {
		return nil, err
	}

	return &mongoDriver{
		c:      client,
		dbName: trimLeadingSlash(u.Path),
	}, nil
}

func trimLeadingSlash(path string) string {
	if len(path) > 0 && path[0] == '/' {
		return path[1:]
	}
	return path
}
