package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
	"github.com/treetab/treetab/tree"
)

var _ core.Driver = (*fileDriver)(nil)

type fileDriver struct {
	path string
}

// Query reads the file and streams one document per row. A single
// top-level sequence is split into its elements, so a json array of
// records becomes one document per record. The query string is an
// optional dot path ("results.items") selecting a subtree of every
// document before streaming.
func (d *fileDriver) Query(_ context.Context, query string) (core.DocumentStream, error) {
	docs, err := d.readDocuments()
	if err != nil {
		return nil, err
	}

	if path := strings.TrimSpace(query); path != "" {
		for i, doc := range docs {
			docs[i] = selectPath(doc, path)
		}
	}

	next, hasNext := builders.NextSlice(docs, core.CellOf)

	stream := builders.NewStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(core.Header{"document"}).
		WithMeta(&core.Meta{
			SchemaType: core.SchemaLess,
		}).
		Build()

	return stream, nil
}

func (d *fileDriver) Structure() ([]*core.Structure, error) {
	return []*core.Structure{
		{
			Name: filepath.Base(d.path),
			Type: core.StructureTypeCollection,
		},
	}, nil
}

func (d *fileDriver) Close() {}

func (d *fileDriver) readDocuments() ([]*tree.Node, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	var docs []*tree.Node

	switch strings.ToLower(filepath.Ext(d.path)) {
	case ".yaml", ".yml":
		docs, err = readYAML(f)
	default:
		// json, ndjson and concatenated json all decode the same way
		docs, err = readJSON(f)
	}
	if err != nil {
		return nil, err
	}

	// a single top-level sequence is a batch of documents
	if len(docs) == 1 && docs[0].Kind == tree.KindSequence {
		docs = docs[0].Values
	}

	return docs, nil
}

func readJSON(r io.Reader) ([]*tree.Node, error) {
	var docs []*tree.Node

	dec := tree.NewJSONDecoder(r)
	for {
		doc, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		docs = append(docs, doc)
	}
}

func readYAML(r io.Reader) ([]*tree.Node, error) {
	var docs []*tree.Node

	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	for {
		var value any
		err := dec.Decode(&value)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}

		doc, err := yamlNode(value)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

// yamlNode converts a decoded yaml value (ordered maps enabled) into a
// document.
func yamlNode(value any) (*tree.Node, error) {
	switch v := value.(type) {
	case yaml.MapSlice:
		res := &tree.Node{Kind: tree.KindRecord}
		for _, item := range v {
			node, err := yamlNode(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(fmt.Sprint(item.Key), node)
		}
		return res, nil
	case []any:
		values := make([]*tree.Node, len(v))
		for i, el := range v {
			node, err := yamlNode(el)
			if err != nil {
				return nil, err
			}
			values[i] = node
		}
		return tree.FromSlice(values), nil
	case uint64:
		return tree.FromNumber(json.Number(strconv.FormatUint(v, 10))), nil
	case time.Time:
		return tree.FromString(v.Format(time.RFC3339)), nil
	default:
		return tree.FromAny(value)
	}
}

// selectPath walks a dot path through records (by key) and sequences
// (by index). A missing step selects the null document.
func selectPath(doc *tree.Node, path string) *tree.Node {
	node := doc
	for _, step := range strings.Split(path, ".") {
		if node == nil {
			return tree.Null()
		}

		switch node.Kind {
		case tree.KindRecord:
			node = node.Get(step)
		case tree.KindSequence:
			idx, err := strconv.Atoi(step)
			if err != nil || idx < 0 || idx >= node.Len() {
				return tree.Null()
			}
			node = node.Values[idx]
		default:
			return tree.Null()
		}
	}

	if node == nil {
		return tree.Null()
	}
	return node
}
