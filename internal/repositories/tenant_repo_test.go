package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"consultly/internal/models"
)

type TenantRepoTestSuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo TenantRepository
	ctx  context.Context
}

func (suite *TenantRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewTenantRepo(mock)
	suite.ctx = context.Background()
}

func (suite *TenantRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTenantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepoTestSuite))
}

func tenantRows(tenants ...*models.Tenant) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "subdomain", "tenant_strategy",
		"database_name", "schema_name", "consultancy_id", "status", "created_at", "updated_at"})
	for _, t := range tenants {
		rows.AddRow(t.ID, t.Name, t.Subdomain, t.Strategy, t.DatabaseName, t.SchemaName,
			t.ConsultancyID, t.Status, t.CreatedAt, t.UpdatedAt)
	}
	return rows
}

func sampleTenant() *models.Tenant {
	dbName := "tenant_db_abc123"
	return &models.Tenant{
		ID:            uuid.New(),
		Name:          "Acme Consulting",
		Subdomain:     "acme",
		Strategy:      "database",
		DatabaseName:  &dbName,
		ConsultancyID: uuid.New(),
		Status:        "active",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func (suite *TenantRepoTestSuite) TestCreate() {
	tenant := sampleTenant()

	suite.mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs(tenant.ID, tenant.Name, tenant.Subdomain, tenant.Strategy,
			tenant.DatabaseName, tenant.SchemaName, tenant.ConsultancyID, tenant.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.ctx, tenant)
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestGetByID() {
	tenant := sampleTenant()

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE id = \$1`).
		WithArgs(tenant.ID).
		WillReturnRows(tenantRows(tenant))

	got, err := suite.repo.GetByID(suite.ctx, tenant.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant.ID, got.ID)
	assert.Equal(suite.T(), tenant.Subdomain, got.Subdomain)
	assert.Equal(suite.T(), "database", got.Strategy)
}

func (suite *TenantRepoTestSuite) TestGetBySubdomain() {
	tenant := sampleTenant()

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE subdomain = \$1`).
		WithArgs("acme").
		WillReturnRows(tenantRows(tenant))

	got, err := suite.repo.GetBySubdomain(suite.ctx, "acme")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant.ID, got.ID)
}

func (suite *TenantRepoTestSuite) TestGetBySubdomain_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants WHERE subdomain = \$1`).
		WithArgs("ghost").
		WillReturnRows(tenantRows())

	got, err := suite.repo.GetBySubdomain(suite.ctx, "ghost")
	assert.Nil(suite.T(), got)
	assert.ErrorIs(suite.T(), err, ErrTenantNotFound)
}

func (suite *TenantRepoTestSuite) TestUpdate() {
	tenant := sampleTenant()
	tenant.Status = "suspended"

	suite.mock.ExpectExec(`UPDATE tenants`).
		WithArgs(tenant.Name, tenant.Subdomain, tenant.Strategy,
			tenant.DatabaseName, tenant.SchemaName, tenant.Status, tenant.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.ctx, tenant)
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestDelete() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM tenants WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.ctx, id)
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestList() {
	first := sampleTenant()
	second := sampleTenant()
	second.Subdomain = "globex"
	second.Strategy = "schema"
	second.DatabaseName = nil

	suite.mock.ExpectQuery(`SELECT (.+) FROM tenants ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(tenantRows(first, second))

	tenants, err := suite.repo.List(suite.ctx, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tenants, 2)
	assert.Equal(suite.T(), "globex", tenants[1].Subdomain)
	assert.Nil(suite.T(), tenants[1].DatabaseName)
}
