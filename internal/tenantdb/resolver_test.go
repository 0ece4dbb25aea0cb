package tenantdb

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

func TestResolver_DatabaseStrategyUsesRegistryPool(t *testing.T) {
	var opened []*fakePool
	registry := newTestRegistry(&opened)
	resolver := NewResolver(nil, registry)

	cfg := TenantConfig{
		ID:           uuid.New(),
		Strategy:     StrategyDatabase,
		DatabaseName: "tenant_db_abc123",
	}

	first, err := resolver.HandleFor(context.Background(), cfg)
	assert.NoError(t, err)
	second, err := resolver.HandleFor(context.Background(), cfg)
	assert.NoError(t, err)

	// Both resolutions share the one cached pool.
	assert.Same(t, first, second)
	assert.Len(t, opened, 1)
	assert.Equal(t, 1, registry.Len())
}

func TestResolver_DatabaseStrategyRequiresName(t *testing.T) {
	var opened []*fakePool
	registry := newTestRegistry(&opened)
	resolver := NewResolver(nil, registry)

	cfg := TenantConfig{ID: uuid.New(), Strategy: StrategyDatabase}
	_, err := resolver.HandleFor(context.Background(), cfg)

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, cfg.ID, cfgErr.TenantID)
	// The misconfiguration is caught before any connection is attempted.
	assert.Equal(t, 0, registry.Len())
}

func TestResolver_SchemaStrategyScopesSharedPool(t *testing.T) {
	central, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer central.Close()

	var opened []*fakePool
	resolver := NewResolver(central, newTestRegistry(&opened))
	cfg := TenantConfig{
		ID:         uuid.New(),
		Strategy:   StrategySchema,
		SchemaName: "tenant_acme",
	}

	handle, err := resolver.HandleFor(context.Background(), cfg)
	assert.NoError(t, err)

	central.ExpectBegin()
	central.ExpectExec(`SET LOCAL search_path TO "tenant_acme", public`).
		WillReturnResult(pgxmock.NewResult("SET", 0))
	central.ExpectExec(`INSERT INTO clients`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	central.ExpectCommit()

	_, err = handle.Exec(context.Background(), "INSERT INTO clients (name) VALUES ($1)", "acme")
	assert.NoError(t, err)
	assert.NoError(t, central.ExpectationsWereMet())
}

func TestResolver_SchemaStrategyDerivesDefaultName(t *testing.T) {
	central, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer central.Close()

	var opened []*fakePool
	resolver := NewResolver(central, newTestRegistry(&opened))
	id := uuid.MustParse("aabbccdd-0000-0000-0000-000000000000")
	cfg := TenantConfig{ID: id, Strategy: StrategySchema}

	handle, err := resolver.HandleFor(context.Background(), cfg)
	assert.NoError(t, err)

	central.ExpectBegin()
	central.ExpectExec(`SET LOCAL search_path TO "` + DeriveSchemaName(id) + `", public`).
		WillReturnResult(pgxmock.NewResult("SET", 0))
	central.ExpectExec(`SELECT 1`).WillReturnResult(pgxmock.NewResult("SELECT", 1))
	central.ExpectCommit()

	_, err = handle.Exec(context.Background(), "SELECT 1")
	assert.NoError(t, err)
	assert.NoError(t, central.ExpectationsWereMet())
}
