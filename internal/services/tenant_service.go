package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"consultly/internal/caching"
	"consultly/internal/models"
	"consultly/internal/repositories"

	"github.com/google/uuid"
)

type TenantService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	Update(ctx context.Context, req *UpdateTenantRequest) error
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
}

func NewTenantService(tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService) TenantService {
	return &tenantService{tenantRepo: tenantRepo, cacheSvc: cacheSvc}
}

type UpdateTenantRequest struct {
	ID     uuid.UUID
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"required"`
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return s.tenantRepo.GetByID(ctx, id)
}

func (s *tenantService) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	if strings.TrimSpace(subdomain) == "" {
		return nil, errors.New("subdomain is required")
	}
	return s.tenantRepo.GetBySubdomain(ctx, subdomain)
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return s.tenantRepo.List(ctx, limit, offset)
}

// Update only touches name and status; isolation settings are immutable
// once the tenant is provisioned.
func (s *tenantService) Update(ctx context.Context, req *UpdateTenantRequest) error {
	existing, err := s.tenantRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	existing.Name = req.Name
	existing.Status = req.Status

	if err := s.tenantRepo.Update(ctx, existing); err != nil {
		return err
	}

	// The resolver caches directory rows by subdomain; drop the stale copy.
	if err := s.cacheSvc.InvalidateTenant(ctx, existing.Subdomain); err != nil {
		log.Printf("Failed to invalidate cache for subdomain %s: %v", existing.Subdomain, err)
	}
	return nil
}
