// Package migrations holds the ordered migration set applied to every
// tenant resource. Units are append-only: never reorder or rename a shipped
// migration, the per-resource ledger tracks them by name.
package migrations

import (
	"context"

	"consultly/internal/tenantdb"
)

func Tenant() []tenantdb.Migration {
	return []tenantdb.Migration{
		sqlMigration("0001_create_clients", `
			CREATE TABLE clients (
				id uuid PRIMARY KEY,
				name text NOT NULL,
				email text,
				phone text,
				notes text,
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`),
		sqlMigration("0002_create_projects", `
			CREATE TABLE projects (
				id uuid PRIMARY KEY,
				client_id uuid NOT NULL REFERENCES clients (id) ON DELETE CASCADE,
				name text NOT NULL,
				status text NOT NULL DEFAULT 'active',
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`),
		sqlMigration("0003_create_tasks", `
			CREATE TABLE tasks (
				id uuid PRIMARY KEY,
				project_id uuid NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
				title text NOT NULL,
				status text NOT NULL DEFAULT 'open',
				due_at timestamptz,
				reminder_sent boolean NOT NULL DEFAULT false,
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`),
		sqlMigration("0004_index_tasks_due", `
			CREATE INDEX idx_tasks_due ON tasks (due_at) WHERE status = 'open' AND reminder_sent = false
		`),
	}
}

func sqlMigration(name, stmt string) tenantdb.Migration {
	return tenantdb.Migration{
		Name: name,
		Apply: func(ctx context.Context, db tenantdb.DB) error {
			_, err := db.Exec(ctx, stmt)
			return err
		},
	}
}
