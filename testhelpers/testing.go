package testhelpers

import (
	"context"
	"os"
	"testing"

	"consultly/internal/tenantdb"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the central database connection for integration tests.
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing. Tests using it must
// run their own teardown so pools are not leaked across tests.
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			t.Skip("TEST_DATABASE_URL not set, skipping integration test")
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant creates a schema-strategy directory row for testing and
// returns its id.
func SetupTestTenant(t *testing.T, db *TestDB, subdomain string) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	schemaName := tenantdb.DeriveSchemaName(tenantID)
	consultancyID := uuid.New()

	_, err := db.Pool.Exec(context.Background(), `
		INSERT INTO consultancies (id, name, status) VALUES ($1, $2, 'active')
	`, consultancyID, "Test Consultancy")
	if err != nil {
		t.Fatalf("Failed to create test consultancy: %v", err)
	}

	_, err = db.Pool.Exec(context.Background(), `
		INSERT INTO tenants (id, name, subdomain, tenant_strategy, schema_name, consultancy_id, status)
		VALUES ($1, $2, $3, 'schema', $4, $5, 'active')
		ON CONFLICT (subdomain) DO NOTHING
	`, tenantID, "Test Tenant", subdomain, schemaName, consultancyID)
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}

	return tenantID
}

// TeardownTestTenant drops the tenant's schema and directory row.
func TeardownTestTenant(t *testing.T, db *TestDB, tenantID uuid.UUID) {
	t.Helper()

	schemaName := tenantdb.DeriveSchemaName(tenantID)
	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+schemaName+" CASCADE"); err != nil {
		t.Logf("Failed to drop test schema %s: %v", schemaName, err)
	}
	if _, err := db.Pool.Exec(ctx, "DELETE FROM tenants WHERE id = $1", tenantID); err != nil {
		t.Logf("Failed to delete test tenant: %v", err)
	}
}
