package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"consultly/internal/caching"
	"consultly/internal/models"
	"consultly/internal/repositories"
	"consultly/internal/tenantdb"

	"github.com/google/uuid"
)

// ProvisioningService orchestrates tenant creation end to end: directory
// row first, physical resource second. A tenant that fails mid-provisioning
// stays discoverable and can be re-provisioned idempotently.
type ProvisioningService interface {
	CreateTenant(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error)
	Reprovision(ctx context.Context, tenantID uuid.UUID) error
	DeleteTenant(ctx context.Context, tenantID uuid.UUID) error
}

type CreateTenantRequest struct {
	Name          string `json:"name" validate:"required"`
	Subdomain     string `json:"subdomain" validate:"required"`
	Strategy      string `json:"tenant_strategy"`
	ConsultancyID uuid.UUID
}

// TenantProvisioner is the provisioning entry point this service drives;
// satisfied by *tenantdb.Provisioner.
type TenantProvisioner interface {
	Provision(ctx context.Context, strategy tenantdb.Strategy, resourceName string) error
}

type provisioningService struct {
	tenantRepo  repositories.TenantRepository
	provisioner TenantProvisioner
	registry    *tenantdb.ConnRegistry
	cacheSvc    caching.CacheService
}

func NewProvisioningService(tenantRepo repositories.TenantRepository, provisioner TenantProvisioner, registry *tenantdb.ConnRegistry, cacheSvc caching.CacheService) ProvisioningService {
	return &provisioningService{
		tenantRepo:  tenantRepo,
		provisioner: provisioner,
		registry:    registry,
		cacheSvc:    cacheSvc,
	}
}

// CreateTenant persists the routing row, then creates and migrates the
// physical resource. The row is written first so requests can already
// resolve the tenant (and get a not-ready answer) while provisioning runs.
func (s *provisioningService) CreateTenant(ctx context.Context, req *CreateTenantRequest) (*models.Tenant, error) {
	if req.Name == "" || req.Subdomain == "" {
		return nil, errors.New("name and subdomain are required")
	}
	if req.ConsultancyID == uuid.Nil {
		return nil, errors.New("consultancy id is required")
	}

	strategy := tenantdb.StrategySchema
	if req.Strategy != "" {
		parsed, err := tenantdb.ParseStrategy(req.Strategy)
		if err != nil {
			return nil, err
		}
		strategy = parsed
	}

	tenant := &models.Tenant{
		ID:            uuid.New(),
		Name:          req.Name,
		Subdomain:     req.Subdomain,
		Strategy:      string(strategy),
		ConsultancyID: req.ConsultancyID,
		Status:        "provisioning",
	}
	resourceName := tenantdb.DeriveResourceName(tenant.ID, strategy)
	if strategy == tenantdb.StrategyDatabase {
		tenant.DatabaseName = &resourceName
	} else {
		tenant.SchemaName = &resourceName
	}

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("create tenant directory row: %w", err)
	}

	if err := s.provisioner.Provision(ctx, strategy, resourceName); err != nil {
		// The directory row stays: the tenant is discoverable and the
		// operator can re-run provisioning.
		log.Printf("provisioning tenant %s failed: %v", tenant.ID, err)
		return nil, err
	}

	tenant.Status = "active"
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("activate tenant %s: %w", tenant.ID, err)
	}

	return tenant, nil
}

// Reprovision re-runs create+migrate for an existing tenant. Safe to call
// on healthy tenants, the create step and the migration ledger make every
// step a no-op when already done.
func (s *provisioningService) Reprovision(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}

	cfg, err := tenant.Config()
	if err != nil {
		return err
	}

	resourceName := cfg.DatabaseName
	if cfg.Strategy == tenantdb.StrategySchema {
		resourceName = cfg.ResolvedSchemaName()
	}
	if err := s.provisioner.Provision(ctx, cfg.Strategy, resourceName); err != nil {
		return err
	}

	if tenant.Status != "active" {
		tenant.Status = "active"
		if err := s.tenantRepo.Update(ctx, tenant); err != nil {
			return fmt.Errorf("activate tenant %s: %w", tenant.ID, err)
		}
		s.invalidate(ctx, tenant.Subdomain)
	}
	return nil
}

// DeleteTenant removes the directory row and drops the tenant's cached
// pool. The physical resource is left in place for operators.
func (s *provisioningService) DeleteTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}

	if err := s.tenantRepo.Delete(ctx, tenantID); err != nil {
		return err
	}

	if tenant.DatabaseName != nil {
		s.registry.Close(*tenant.DatabaseName)
	}
	s.invalidate(ctx, tenant.Subdomain)
	return nil
}

// invalidate drops the resolver's cached directory row; failures only cost
// staleness until the TTL, so they are logged and swallowed.
func (s *provisioningService) invalidate(ctx context.Context, subdomain string) {
	if err := s.cacheSvc.InvalidateTenant(ctx, subdomain); err != nil {
		log.Printf("Failed to invalidate cache for subdomain %s: %v", subdomain, err)
	}
}
