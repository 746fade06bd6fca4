package sources

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
	"github.com/treetab/treetab/tree"
)

var (
	_ core.Driver           = (*mongoDriver)(nil)
	_ core.DatabaseSwitcher = (*mongoDriver)(nil)
)

type mongoDriver struct {
	c      *mongo.Client
	dbName string
}

func (c *mongoDriver) getCurrentDatabase(ctx context.Context) (string, error) {
	if c.dbName != "" {
		return c.dbName, nil
	}

	dbs, err := c.c.ListDatabaseNames(ctx, bson.D{})
	if err != nil {
		return "", fmt.Errorf("failed to select default database: %w", err)
	}
	if len(dbs) < 1 {
		return "", fmt.Errorf("no databases found")
	}
	c.dbName = dbs[0]

	return c.dbName, nil
}

func (c *mongoDriver) Query(ctx context.Context, query string) (core.DocumentStream, error) {
	dbName, err := c.getCurrentDatabase(ctx)
	if err != nil {
		return nil, err
	}
	db := c.c.Database(dbName)

	var command any
	err = bson.UnmarshalExtJSON([]byte(query), false, &command)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal command: %q to bson: %w", query, err)
	}

	var resp bson.D
	err = db.RunCommand(ctx, command).Decode(&resp)
	if err != nil {
		return nil, err
	}

	// check if "cursor" field exists and create an appropriate func
	var next func() (core.Row, error)
	var hasNext func() bool

	cur, ok := bsonLookup(resp, "cursor")
	if ok {
		next, hasNext = builders.NextYield(func(yield func(...core.Cell)) error {
			cursor, ok := cur.(bson.D)
			if !ok {
				return fmt.Errorf("type assertion for cursor object failed")
			}

			for _, field := range cursor {
				batch, ok := field.Value.(bson.A)
				if !ok {
					continue
				}
				for _, item := range batch {
					doc, err := bsonNode(item)
					if err != nil {
						return err
					}
					yield(core.CellOf(doc))
				}
			}
			return nil
		})
	} else {
		doc, err := bsonNode(resp)
		if err != nil {
			return nil, err
		}
		next, hasNext = builders.NextSingle(core.CellOf(doc))
	}

	// build result
	stream := builders.NewStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(core.Header{"document"}).
		WithMeta(&core.Meta{
			SchemaType: core.SchemaLess,
		}).
		Build()

	return stream, nil
}

func (c *mongoDriver) Structure() ([]*core.Structure, error) {
	ctx := context.Background()

	dbName, err := c.getCurrentDatabase(ctx)
	if err != nil {
		return nil, err
	}

	collections, err := c.c.Database(dbName).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var structure []*core.Structure

	for _, coll := range collections {
		structure = append(structure, &core.Structure{
			Name:   coll,
			Schema: "",
			Type:   core.StructureTypeCollection,
		})
	}

	return structure, nil
}

func (c *mongoDriver) Close() {
	_ = c.c.Disconnect(context.TODO())
}

func (c *mongoDriver) ListDatabases() (current string, available []string, err error) {
	ctx := context.Background()

	dbName, err := c.getCurrentDatabase(ctx)
	if err != nil {
		return "", nil, err
	}

	all, err := c.c.ListDatabaseNames(ctx, bson.D{{
		Key: "name",
		Value: bson.D{{
			Key: "$not",
			Value: bson.D{{
				Key:   "$regex",
				Value: dbName,
			}},
		}},
	}})
	if err != nil {
		return "", nil, fmt.Errorf("failed to retrieve database names: %w", err)
	}

	return dbName, all, nil
}

func (c *mongoDriver) SelectDatabase(name string) error {
	c.dbName = name
	return nil
}

// bsonLookup finds a top level field by key.
func bsonLookup(doc bson.D, key string) (any, bool) {
	for _, field := range doc {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// bsonNode converts a decoded bson value into a document. bson.D keeps
// the field order from the server, bson.M values get sorted keys.
func bsonNode(value any) (*tree.Node, error) {
	switch v := value.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return tree.Null(), nil
	case bson.D:
		res := &tree.Node{Kind: tree.KindRecord}
		for _, field := range v {
			node, err := bsonNode(field.Value)
			if err != nil {
				return nil, err
			}
			res.Set(field.Key, node)
		}
		return res, nil
	case bson.M:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		res := &tree.Node{Kind: tree.KindRecord}
		for _, k := range keys {
			node, err := bsonNode(v[k])
			if err != nil {
				return nil, err
			}
			res.Set(k, node)
		}
		return res, nil
	case bson.A:
		values := make([]*tree.Node, len(v))
		for i, el := range v {
			node, err := bsonNode(el)
			if err != nil {
				return nil, err
			}
			values[i] = node
		}
		return tree.FromSlice(values), nil
	case primitive.ObjectID:
		return tree.FromString(v.Hex()), nil
	case primitive.DateTime:
		return tree.FromString(v.Time().UTC().Format(time.RFC3339Nano)), nil
	case primitive.Decimal128:
		return tree.FromNumber(json.Number(v.String())), nil
	case primitive.Binary:
		return tree.FromString(base64.StdEncoding.EncodeToString(v.Data)), nil
	case int32:
		return tree.FromInt(int64(v)), nil
	default:
		node, err := tree.FromAny(value)
		if err != nil {
			return tree.FromString(fmt.Sprint(value)), nil
		}
		return node, nil
	}
}
