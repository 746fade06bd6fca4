package sources_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/flatten"
	"github.com/treetab/treetab/sources"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func queryFile(t *testing.T, path, query string) *core.Table {
	t.Helper()

	source, err := new(sources.Mux).GetSource("file")
	require.NoError(t, err)

	driver, err := source.Connect(path)
	require.NoError(t, err)
	defer driver.Close()

	stream, err := driver.Query(context.Background(), query)
	require.NoError(t, err)
	require.Equal(t, core.SchemaLess, stream.Meta().SchemaType)

	table, err := core.FromStream(stream)
	require.NoError(t, err)
	return table
}

func TestFile_TopLevelArraySplits(t *testing.T) {
	r := require.New(t)

	path := writeFile(t, "users.json", `[
		{"id": 1, "name": "ana"},
		{"id": 2, "name": "bob"}
	]`)

	table := queryFile(t, path, "")

	r.Equal(core.Header{"document"}, table.Header())
	r.Equal(2, table.RowCount())

	flat, err := flatten.Flatten(table, nil)
	r.NoError(err)
	r.Equal(core.Header{"document_id", "document_name"}, flat.Header())
	r.Equal("ana", flat.Row(0)[1].String())
}

func TestFile_NDJSON(t *testing.T) {
	r := require.New(t)

	path := writeFile(t, "events.ndjson", "{\"id\": 1}\n{\"id\": 2}\n{\"id\": 3}\n")

	table := queryFile(t, path, "")
	r.Equal(3, table.RowCount())
}

func TestFile_YAML(t *testing.T) {
	r := require.New(t)

	path := writeFile(t, "conf.yaml", `
zeta: 1
alpha:
  nested: [1, 2]
`)

	table := queryFile(t, path, "")
	r.Equal(1, table.RowCount())

	// key order of the yaml document is preserved
	cell := table.Row(0)[0]
	r.Equal(core.CellNested, cell.Kind)
	r.Equal([]string{"zeta", "alpha"}, cell.Node.Keys)
}

func TestFile_YAMLMultiDocument(t *testing.T) {
	r := require.New(t)

	path := writeFile(t, "multi.yml", "id: 1\n---\nid: 2\n")

	table := queryFile(t, path, "")
	r.Equal(2, table.RowCount())
}

func TestFile_PathSelection(t *testing.T) {
	r := require.New(t)

	path := writeFile(t, "resp.json", `{
		"results": {"items": [{"id": 1}, {"id": 2}]},
		"meta": {"total": 2}
	}`)

	table := queryFile(t, path, "results.items")

	cell := table.Row(0)[0]
	r.Equal(core.CellNested, cell.Kind)
	r.Equal(`[{"id":1},{"id":2}]`, cell.Node.String())

	// missing steps select the null document
	table = queryFile(t, path, "results.nope")
	r.Equal(core.CellAbsent, table.Row(0)[0].Kind)

	// sequence steps are numeric
	table = queryFile(t, path, "results.items.1")
	r.Equal(`{"id":2}`, table.Row(0)[0].Node.String())
}

func TestFile_Structure(t *testing.T) {
	r := require.New(t)

	path := writeFile(t, "users.json", `[]`)

	source, err := new(sources.Mux).GetSource("json")
	r.NoError(err)
	driver, err := source.Connect(path)
	r.NoError(err)
	defer driver.Close()

	structure, err := driver.Structure()
	r.NoError(err)
	r.Len(structure, 1)
	r.Equal("users.json", structure[0].Name)
	r.Equal(core.StructureTypeCollection, structure[0].Type)
}

func TestTypes_IncludeBuiltins(t *testing.T) {
	r := require.New(t)

	types := sources.Types()
	for _, want := range []string{"file", "json", "yaml", "postgres", "mysql", "mongo", "redis"} {
		r.Contains(types, want)
	}
}
