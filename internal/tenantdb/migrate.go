package tenantdb

import (
	"context"
	"fmt"
	"log"
)

// LedgerTable records applied migrations. The name is deliberately left
// unqualified: it resolves through the active search path, so every schema
// and every dedicated database keeps its own history.
const LedgerTable = "schema_migrations"

// Migration is one named, versioned unit of the tenant migration set. The
// set is authored elsewhere and consumed opaquely here.
type Migration struct {
	Name  string
	Apply func(ctx context.Context, db DB) error
}

// RunMigrations applies the ordered set against a tenant resource, skipping
// units the resource's ledger already records. It stops at the first
// failure, partial sets are never applied silently.
func RunMigrations(ctx context.Context, db DB, set []Migration) error {
	createLedger := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (name text PRIMARY KEY, applied_at timestamptz NOT NULL DEFAULT now())",
		LedgerTable,
	)
	if _, err := db.Exec(ctx, createLedger); err != nil {
		return &MigrationError{Migration: "create migration ledger", Err: Classify(err)}
	}

	for _, m := range set {
		applied, err := migrationApplied(ctx, db, m.Name)
		if err != nil {
			return &MigrationError{Migration: m.Name, Err: Classify(err)}
		}
		if applied {
			continue
		}

		if err := m.Apply(ctx, db); err != nil {
			return &MigrationError{Migration: m.Name, Err: Classify(err)}
		}

		record := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", LedgerTable)
		if _, err := db.Exec(ctx, record, m.Name); err != nil {
			return &MigrationError{Migration: m.Name, Err: Classify(err)}
		}
		log.Printf("applied migration %s", m.Name)
	}

	return nil
}

func migrationApplied(ctx context.Context, db DB, name string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1)", LedgerTable)
	var applied bool
	if err := db.QueryRow(ctx, query, name).Scan(&applied); err != nil {
		return false, err
	}
	return applied, nil
}
