package tenantdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CentralDB is the slice of *pgxpool.Pool the resolver and provisioner need
// from the shared central database.
type CentralDB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Resolver hands out the database handle matching a tenant's isolation
// config: a dedicated pool for database-strategy tenants, a schema-scoped
// view of the shared central pool for schema-strategy tenants.
type Resolver struct {
	central  CentralDB
	registry *ConnRegistry
}

func NewResolver(central CentralDB, registry *ConnRegistry) *Resolver {
	return &Resolver{central: central, registry: registry}
}

// HandleFor returns the handle all of the tenant's queries must go through.
func (r *Resolver) HandleFor(ctx context.Context, cfg TenantConfig) (DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Strategy {
	case StrategyDatabase:
		pool, err := r.registry.Get(ctx, cfg.DatabaseName)
		if err != nil {
			return nil, err
		}
		return pool, nil
	case StrategySchema:
		return NewSchemaHandle(r.central, cfg.ResolvedSchemaName()), nil
	default:
		// Unreachable, Validate rejects unknown strategies.
		return nil, &ConfigurationError{TenantID: cfg.ID, Reason: "unknown strategy"}
	}
}
