package repositories

import (
	"context"
	"errors"

	"consultly/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrTenantNotFound is returned for lookups that matched no directory row.
var ErrTenantNotFound = errors.New("tenant not found")

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

type tenantRepo struct {
	db Database
}

func NewTenantRepo(db Database) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = "id, name, subdomain, tenant_strategy, database_name, schema_name, consultancy_id, status, created_at, updated_at"

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, subdomain, tenant_strategy, database_name, schema_name, consultancy_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		tenant.ID, tenant.Name, tenant.Subdomain, tenant.Strategy,
		tenant.DatabaseName, tenant.SchemaName, tenant.ConsultancyID, tenant.Status)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := "SELECT " + tenantColumns + " FROM tenants WHERE id = $1"
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := "SELECT " + tenantColumns + " FROM tenants WHERE subdomain = $1"
	return r.scanOne(r.db.QueryRow(ctx, query, subdomain))
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, subdomain = $2, tenant_strategy = $3, database_name = $4, schema_name = $5, status = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query,
		tenant.Name, tenant.Subdomain, tenant.Strategy,
		tenant.DatabaseName, tenant.SchemaName, tenant.Status, tenant.ID)
	return err
}

func (r *tenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tenants WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := "SELECT " + tenantColumns + " FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := scanTenant(rows, tenant); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) scanOne(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	if err := scanTenant(row, tenant); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

func scanTenant(row pgx.Row, tenant *models.Tenant) error {
	return row.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.Strategy,
		&tenant.DatabaseName, &tenant.SchemaName, &tenant.ConsultancyID,
		&tenant.Status, &tenant.CreatedAt, &tenant.UpdatedAt)
}
