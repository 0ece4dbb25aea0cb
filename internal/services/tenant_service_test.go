package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"consultly/internal/models"
	"consultly/internal/repositories"
)

type TenantServiceTestSuite struct {
	suite.Suite
	tenantRepo *MockTenantRepository
	cacheSvc   *MockCacheService
	service    TenantService
	ctx        context.Context
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.tenantRepo = new(MockTenantRepository)
	suite.cacheSvc = new(MockCacheService)
	suite.service = NewTenantService(suite.tenantRepo, suite.cacheSvc)
	suite.ctx = context.Background()
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}

func (suite *TenantServiceTestSuite) TestGetBySubdomain() {
	tenant := &models.Tenant{ID: uuid.New(), Subdomain: "acme"}
	suite.tenantRepo.On("GetBySubdomain", suite.ctx, "acme").Return(tenant, nil)

	got, err := suite.service.GetBySubdomain(suite.ctx, "acme")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant.ID, got.ID)
}

func (suite *TenantServiceTestSuite) TestGetBySubdomain_Blank() {
	_, err := suite.service.GetBySubdomain(suite.ctx, "   ")
	assert.Error(suite.T(), err)
	suite.tenantRepo.AssertNotCalled(suite.T(), "GetBySubdomain")
}

func (suite *TenantServiceTestSuite) TestGetBySubdomain_NotFound() {
	suite.tenantRepo.On("GetBySubdomain", suite.ctx, "ghost").
		Return(nil, repositories.ErrTenantNotFound)

	_, err := suite.service.GetBySubdomain(suite.ctx, "ghost")
	assert.ErrorIs(suite.T(), err, repositories.ErrTenantNotFound)
}

func (suite *TenantServiceTestSuite) TestList_DefaultsPagination() {
	suite.tenantRepo.On("List", suite.ctx, 10, 0).Return([]*models.Tenant{}, nil)

	_, err := suite.service.List(suite.ctx, 0, -5)
	assert.NoError(suite.T(), err)
	suite.tenantRepo.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestUpdate_OnlyNameAndStatusChange() {
	dbName := "tenant_db_abc123"
	existing := &models.Tenant{
		ID:           uuid.New(),
		Name:         "Old Name",
		Subdomain:    "acme",
		Strategy:     "database",
		DatabaseName: &dbName,
		Status:       "active",
	}

	suite.tenantRepo.On("GetByID", suite.ctx, existing.ID).Return(existing, nil)
	suite.tenantRepo.On("Update", suite.ctx, mock.AnythingOfType("*models.Tenant")).Return(nil)
	suite.cacheSvc.On("InvalidateTenant", suite.ctx, "acme").Return(nil)

	err := suite.service.Update(suite.ctx, &UpdateTenantRequest{
		ID:     existing.ID,
		Name:   "New Name",
		Status: "suspended",
	})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Name", existing.Name)
	assert.Equal(suite.T(), "suspended", existing.Status)
	// Routing fields are untouched.
	assert.Equal(suite.T(), "database", existing.Strategy)
	assert.Equal(suite.T(), "acme", existing.Subdomain)
	assert.Equal(suite.T(), &dbName, existing.DatabaseName)
	suite.cacheSvc.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestUpdate_MissingTenant() {
	id := uuid.New()
	suite.tenantRepo.On("GetByID", suite.ctx, id).Return(nil, repositories.ErrTenantNotFound)

	err := suite.service.Update(suite.ctx, &UpdateTenantRequest{ID: id, Name: "x", Status: "active"})
	assert.ErrorIs(suite.T(), err, repositories.ErrTenantNotFound)
	suite.tenantRepo.AssertNotCalled(suite.T(), "Update", mock.Anything, mock.Anything)
}
