package integration

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	tsuite "github.com/stretchr/testify/suite"
	tc "github.com/testcontainers/testcontainers-go"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/flatten"
	th "github.com/treetab/treetab/tests/testhelpers"
)

// PostgresTestSuite is the test suite for the postgres source.
type PostgresTestSuite struct {
	tsuite.Suite // inherit from testify suite
	// ctr is the postgres testcontainer
	ctr *th.PostgresContainer
	ctx context.Context
	// c is the postgres connection
	c *core.Connection
}

// TestPostgresTestSuite is the entrypoint for go test.
//
// testify/suite can't handle parallel tests, see
// https://github.com/stretchr/testify/issues/934
func TestPostgresTestSuite(t *testing.T) {
	tsuite.Run(t, new(PostgresTestSuite))
}

func (suite *PostgresTestSuite) SetupSuite() {
	suite.ctx = context.Background()
	ctr, err := th.NewPostgresContainer(suite.ctx, &core.ConnectionParams{
		ID:   "test-postgres",
		Name: "test-postgres",
	})
	if err != nil {
		log.Fatal(err)
	}

	suite.ctr = ctr
	suite.c = ctr.Conn // easier access to connection
}

func (suite *PostgresTestSuite) TeardownSuite() {
	tc.CleanupContainer(suite.T(), suite.ctr)
}

func (suite *PostgresTestSuite) TestShouldErrorInvalidQuery() {
	t := suite.T()

	want := "syntax error"

	call := suite.c.Execute("invalid sql", func(cs core.CallState, c *core.Call) {
		if cs == core.CallStateExecutingFailed {
			assert.ErrorContains(t, c.Err(), want)
		}
	})
	assert.NotNil(t, call)
}

func (suite *PostgresTestSuite) TestShouldCancelQuery() {
	t := suite.T()
	want := []core.CallState{core.CallStateExecuting, core.CallStateCanceled}

	got, err := th.GetResultWithCancel(t, suite.c, "SELECT pg_sleep(1)")
	assert.NoError(t, err)

	assert.Equal(t, want, got)
}

func (suite *PostgresTestSuite) TestShouldReturnRows() {
	t := suite.T()

	wantStates := []core.CallState{
		core.CallStateExecuting, core.CallStateRetrieving, core.CallStateDone,
	}
	wantCols := []string{"id", "kind"}

	table, gotStates, err := th.GetResult(t, suite.c, "SELECT id, kind FROM events ORDER BY id")
	assert.NoError(t, err)

	assert.ElementsMatch(t, wantStates, gotStates)
	assert.Equal(t, core.Header(wantCols), table.Header())
	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, "signup", table.Row(0)[1].String())
}

func (suite *PostgresTestSuite) TestShouldRectangleJSONColumn() {
	t := suite.T()

	table, _, err := th.GetResult(t, suite.c, "SELECT id, payload FROM events ORDER BY id")
	assert.NoError(t, err)

	// payload decodes into a nested document
	shape, err := table.Classify("payload")
	assert.NoError(t, err)
	assert.Equal(t, core.ShapeRecord, shape)

	flat, err := flatten.Flatten(table, &flatten.Opts{
		Naming:    flatten.NamingPrefixed,
		KeepEmpty: true,
	})
	assert.NoError(t, err)

	assert.Equal(t, core.Header{
		"id", "payload_user_name", "payload_user_plan", "payload_tags",
	}, flat.Header())

	// second row fans out over two tags
	assert.Equal(t, 4, flat.RowCount())
	assert.Equal(t, "bob", flat.Row(1)[1].String())
	assert.Equal(t, "web", flat.Row(1)[3].String())
	assert.Equal(t, "referral", flat.Row(2)[3].String())

	// empty tags survive as the absence marker
	assert.Equal(t, core.CellAbsent, flat.Row(3)[3].Kind)
}

func (suite *PostgresTestSuite) TestShouldReturnStructure() {
	t := suite.T()

	// no need to check entire structure, just some key elements
	wantSchemas := []string{"public", "pg_catalog", "information_schema"}
	wantSomeTable, wantSomeView := "events", "pg_roles"

	structure, err := suite.c.GetStructure()
	assert.NoError(t, err)

	gotSchemas := th.GetSchemas(t, structure)
	for _, schema := range wantSchemas {
		assert.Contains(t, gotSchemas, schema)
	}

	gotTables := th.GetModels(t, structure, core.StructureTypeTable)
	assert.Contains(t, gotTables, wantSomeTable)

	gotViews := th.GetModels(t, structure, core.StructureTypeView)
	assert.Contains(t, gotViews, wantSomeView)
}

func (suite *PostgresTestSuite) TestShouldSwitchDatabase() {
	t := suite.T()

	want := "postgres" // default database always present

	err := suite.c.SelectDatabase(want)
	assert.NoError(t, err)

	got, gotAllExceptCurrent, err := suite.c.ListDatabases()
	assert.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Contains(t, gotAllExceptCurrent, "dev")
}

func (suite *PostgresTestSuite) TestShouldFailSwitchDatabase() {
	t := suite.T()

	want := "doesnt exist"
	// create a new connection to avoid changing the default database
	conn, err := suite.ctr.NewConnection(&core.ConnectionParams{
		ID:   "test-postgres-2",
		Name: "test-postgres-2",
	})
	assert.NoError(t, err)

	err = conn.SelectDatabase(want)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), want)
}
