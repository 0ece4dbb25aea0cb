package tenantdb

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
)

// Provisioner creates a tenant's physical resource and brings it to the
// current migration version. All steps are idempotent so a failed attempt
// can simply be re-run; there is no rollback of a partially created
// resource.
type Provisioner struct {
	central  CentralDB
	registry *ConnRegistry
	set      []Migration
}

func NewProvisioner(central CentralDB, registry *ConnRegistry, set []Migration) *Provisioner {
	return &Provisioner{central: central, registry: registry, set: set}
}

// Provision is the sole externally invoked provisioning operation. Callers
// persist the tenant directory row first, so a failure here leaves a
// discoverable-but-not-ready tenant rather than an orphaned resource.
func (p *Provisioner) Provision(ctx context.Context, strategy Strategy, resourceName string) error {
	switch strategy {
	case StrategyDatabase:
		return p.provisionDatabase(ctx, resourceName)
	case StrategySchema:
		return p.provisionSchema(ctx, resourceName)
	default:
		return &ProvisioningError{
			Strategy: strategy,
			Resource: resourceName,
			Step:     "validate strategy",
			Err:      &ConfigurationError{Reason: "unknown strategy"},
		}
	}
}

func (p *Provisioner) provisionDatabase(ctx context.Context, databaseName string) error {
	// CREATE DATABASE has no IF NOT EXISTS; a duplicate is the expected
	// outcome of a retried provisioning call and is not an error.
	create := "CREATE DATABASE " + pgx.Identifier{databaseName}.Sanitize()
	if _, err := p.central.Exec(ctx, create); err != nil {
		if IsAlreadyExists(err) {
			log.Printf("database %s already exists, continuing", databaseName)
		} else {
			return &ProvisioningError{Strategy: StrategyDatabase, Resource: databaseName, Step: "create database", Err: Classify(err)}
		}
	}

	pool, err := p.registry.Get(ctx, databaseName)
	if err != nil {
		return &ProvisioningError{Strategy: StrategyDatabase, Resource: databaseName, Step: "open connection", Err: err}
	}

	if err := RunMigrations(ctx, pool, p.set); err != nil {
		return &ProvisioningError{Strategy: StrategyDatabase, Resource: databaseName, Step: "migrate", Err: err}
	}

	log.Printf("provisioned database %s", databaseName)
	return nil
}

func (p *Provisioner) provisionSchema(ctx context.Context, schemaName string) error {
	create := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schemaName}.Sanitize()
	if _, err := p.central.Exec(ctx, create); err != nil {
		// Two concurrent creates can still race past IF NOT EXISTS.
		if !IsAlreadyExists(err) {
			return &ProvisioningError{Strategy: StrategySchema, Resource: schemaName, Step: "create schema", Err: Classify(err)}
		}
		log.Printf("schema %s already exists, continuing", schemaName)
	}

	// The scoped handle pins search_path per statement and always restores
	// it, so the shared pool never leaks this tenant's scope to unrelated
	// work, even when a migration fails.
	handle := NewSchemaHandle(p.central, schemaName)
	if err := RunMigrations(ctx, handle, p.set); err != nil {
		return &ProvisioningError{Strategy: StrategySchema, Resource: schemaName, Step: "migrate", Err: err}
	}

	log.Printf("provisioned schema %s", schemaName)
	return nil
}
