package models

import (
	"time"

	"github.com/google/uuid"

	"consultly/internal/tenantdb"
)

// Tenant is the directory row that routes a subdomain to its physical
// database resource. The row is written before the resource is provisioned.
type Tenant struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Subdomain     string    `json:"subdomain" db:"subdomain"`
	Strategy      string    `json:"tenant_strategy" db:"tenant_strategy"`
	DatabaseName  *string   `json:"database_name,omitempty" db:"database_name"`
	SchemaName    *string   `json:"schema_name,omitempty" db:"schema_name"`
	ConsultancyID uuid.UUID `json:"consultancy_id" db:"consultancy_id"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Config converts the directory row into the immutable routing config the
// data plane consumes.
func (t *Tenant) Config() (tenantdb.TenantConfig, error) {
	strategy, err := tenantdb.ParseStrategy(t.Strategy)
	if err != nil {
		return tenantdb.TenantConfig{}, err
	}

	cfg := tenantdb.TenantConfig{ID: t.ID, Strategy: strategy}
	if t.DatabaseName != nil {
		cfg.DatabaseName = *t.DatabaseName
	}
	if t.SchemaName != nil {
		cfg.SchemaName = *t.SchemaName
	}
	if err := cfg.Validate(); err != nil {
		return tenantdb.TenantConfig{}, err
	}
	return cfg, nil
}
