package migrations

import "consultly/internal/tenantdb"

// Central returns the migration set for the central database: the tenant
// directory and the identity tables. It runs through the same ledger-based
// runner as tenant resources, against the default schema.
func Central() []tenantdb.Migration {
	return []tenantdb.Migration{
		sqlMigration("0001_create_consultancies", `
			CREATE TABLE consultancies (
				id uuid PRIMARY KEY,
				name text NOT NULL,
				status text NOT NULL DEFAULT 'active',
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`),
		sqlMigration("0002_create_tenants", `
			CREATE TABLE tenants (
				id uuid PRIMARY KEY,
				name text NOT NULL,
				subdomain text NOT NULL UNIQUE,
				tenant_strategy text NOT NULL,
				database_name text,
				schema_name text,
				consultancy_id uuid NOT NULL REFERENCES consultancies (id),
				status text NOT NULL DEFAULT 'provisioning',
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`),
		sqlMigration("0003_create_users", `
			CREATE TABLE users (
				id uuid PRIMARY KEY,
				consultancy_id uuid NOT NULL REFERENCES consultancies (id),
				tenant_id uuid NOT NULL REFERENCES tenants (id),
				email text NOT NULL UNIQUE,
				password_hash text NOT NULL,
				first_name text NOT NULL DEFAULT '',
				last_name text NOT NULL DEFAULT '',
				status text NOT NULL DEFAULT 'active',
				created_at timestamptz NOT NULL DEFAULT now(),
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`),
	}
}
