package tenantdb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type SchemaHandleTestSuite struct {
	suite.Suite
	mock   pgxmock.PgxPoolIface
	handle DB
	ctx    context.Context
}

func (suite *SchemaHandleTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.handle = NewSchemaHandle(mock, "tenant_abc123")
	suite.ctx = context.Background()
}

func (suite *SchemaHandleTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestSchemaHandleTestSuite(t *testing.T) {
	suite.Run(t, new(SchemaHandleTestSuite))
}

func (suite *SchemaHandleTestSuite) expectScope() {
	suite.mock.ExpectExec(`SET LOCAL search_path TO "tenant_abc123", public`).
		WillReturnResult(pgxmock.NewResult("SET", 0))
}

func (suite *SchemaHandleTestSuite) TestExec_ScopesAndCommits() {
	suite.mock.ExpectBegin()
	suite.expectScope()
	suite.mock.ExpectExec(`INSERT INTO clients`).
		WithArgs("Acme").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	tag, err := suite.handle.Exec(suite.ctx, "INSERT INTO clients (name) VALUES ($1)", "Acme")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), tag.RowsAffected())
}

func (suite *SchemaHandleTestSuite) TestExec_RollsBackOnFailure() {
	suite.mock.ExpectBegin()
	suite.expectScope()
	suite.mock.ExpectExec(`INSERT INTO clients`).
		WithArgs("Acme").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"})
	suite.mock.ExpectRollback()

	_, err := suite.handle.Exec(suite.ctx, "INSERT INTO clients (name) VALUES ($1)", "Acme")
	assert.Error(suite.T(), err)
	// The classified error tells the caller this tenant is not ready yet.
	assert.True(suite.T(), IsNotReady(err))
}

func (suite *SchemaHandleTestSuite) TestExec_RollsBackWhenScopingFails() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`SET LOCAL search_path`).
		WillReturnError(&pgconn.PgError{Code: "3F000", Message: "schema does not exist"})
	suite.mock.ExpectRollback()

	_, err := suite.handle.Exec(suite.ctx, "SELECT 1")
	assert.True(suite.T(), IsNotReady(err))
}

func (suite *SchemaHandleTestSuite) TestQueryRow_CommitsAfterScan() {
	id := uuid.New()
	suite.mock.ExpectBegin()
	suite.expectScope()
	suite.mock.ExpectQuery(`SELECT name FROM clients`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Acme"))
	suite.mock.ExpectCommit()

	var name string
	err := suite.handle.QueryRow(suite.ctx, "SELECT name FROM clients WHERE id = $1", id).Scan(&name)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme", name)
}

func (suite *SchemaHandleTestSuite) TestQuery_CommitsOnClose() {
	suite.mock.ExpectBegin()
	suite.expectScope()
	suite.mock.ExpectQuery(`SELECT name FROM clients`).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Acme").AddRow("Globex"))
	suite.mock.ExpectCommit()

	rows, err := suite.handle.Query(suite.ctx, "SELECT name FROM clients")
	assert.NoError(suite.T(), err)

	var names []string
	for rows.Next() {
		var name string
		assert.NoError(suite.T(), rows.Scan(&name))
		names = append(names, name)
	}
	rows.Close()
	assert.Equal(suite.T(), []string{"Acme", "Globex"}, names)
}

func (suite *SchemaHandleTestSuite) TestQuery_RollsBackOnQueryError() {
	suite.mock.ExpectBegin()
	suite.expectScope()
	suite.mock.ExpectQuery(`SELECT name FROM clients`).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"})
	suite.mock.ExpectRollback()

	_, err := suite.handle.Query(suite.ctx, "SELECT name FROM clients")
	assert.True(suite.T(), IsNotReady(err))
}
