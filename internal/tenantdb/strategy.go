package tenantdb

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Strategy selects how a tenant's data is isolated in Postgres.
type Strategy string

const (
	// StrategySchema keeps the tenant in a dedicated schema inside the
	// shared central database.
	StrategySchema Strategy = "schema"
	// StrategyDatabase gives the tenant a fully dedicated database.
	StrategyDatabase Strategy = "database"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySchema:
		return StrategySchema, nil
	case StrategyDatabase:
		return StrategyDatabase, nil
	default:
		return "", fmt.Errorf("unknown tenant strategy %q", s)
	}
}

// TenantConfig is the routing record for a single tenant. It is built from
// the tenant directory row and never mutated afterwards.
type TenantConfig struct {
	ID           uuid.UUID
	Strategy     Strategy
	DatabaseName string
	SchemaName   string
}

// Validate fails fast on configs that must never reach the routing layer.
func (c TenantConfig) Validate() error {
	switch c.Strategy {
	case StrategyDatabase:
		if c.DatabaseName == "" {
			return &ConfigurationError{TenantID: c.ID, Reason: "database strategy requires a database name"}
		}
	case StrategySchema:
		// SchemaName may be empty, ResolvedSchemaName falls back to the
		// derived default.
	default:
		return &ConfigurationError{TenantID: c.ID, Reason: fmt.Sprintf("unknown strategy %q", c.Strategy)}
	}
	return nil
}

// ResolvedSchemaName returns the schema to scope queries to. An unset
// schema name falls back to the deterministic derived name.
func (c TenantConfig) ResolvedSchemaName() string {
	if c.SchemaName != "" {
		return c.SchemaName
	}
	return DeriveSchemaName(c.ID)
}

// DeriveDatabaseName returns the dedicated database name for a tenant.
// UUIDs stripped of hyphens are already safe unquoted identifiers.
func DeriveDatabaseName(tenantID uuid.UUID) string {
	return "tenant_db_" + stripSeparators(tenantID)
}

// DeriveSchemaName returns the dedicated schema name for a tenant.
func DeriveSchemaName(tenantID uuid.UUID) string {
	return "tenant_" + stripSeparators(tenantID)
}

// DeriveResourceName returns the physical resource name for the strategy.
func DeriveResourceName(tenantID uuid.UUID, strategy Strategy) string {
	if strategy == StrategyDatabase {
		return DeriveDatabaseName(tenantID)
	}
	return DeriveSchemaName(tenantID)
}

func stripSeparators(id uuid.UUID) string {
	return strings.ReplaceAll(id.String(), "-", "")
}
