package tenantdb

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConfigurationError marks an invalid TenantConfig. It is fatal to the
// calling operation and never retried.
type ConfigurationError struct {
	TenantID uuid.UUID
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid tenant config for %s: %s", e.TenantID, e.Reason)
}

// ResourceAlreadyExistsError reports that the database or schema being
// created is already there. Provisioning treats it as a successful no-op.
type ResourceAlreadyExistsError struct {
	Code string
	Err  error
}

func (e *ResourceAlreadyExistsError) Error() string {
	return fmt.Sprintf("resource already exists (SQLSTATE %s): %v", e.Code, e.Err)
}

func (e *ResourceAlreadyExistsError) Unwrap() error { return e.Err }

// ResourceNotReadyError reports a query against a tenant whose physical
// resource does not exist yet (or is being torn down). Callers skip the
// tenant for the current cycle and retry later.
type ResourceNotReadyError struct {
	Code string
	Err  error
}

func (e *ResourceNotReadyError) Error() string {
	return fmt.Sprintf("tenant resource not ready (SQLSTATE %s): %v", e.Code, e.Err)
}

func (e *ResourceNotReadyError) Unwrap() error { return e.Err }

// ConnectionError reports pool or connect failures for a database.
type ConnectionError struct {
	DatabaseName string
	Err          error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to database %q failed: %v", e.DatabaseName, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// MigrationError reports a single migration unit failing to apply.
type MigrationError struct {
	Migration string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %q failed: %v", e.Migration, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// ProvisioningError wraps a failed provisioning attempt with the step that
// broke. Provisioning stays safely re-runnable afterwards.
type ProvisioningError struct {
	Strategy Strategy
	Resource string
	Step     string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning %s %q: %s: %v", e.Strategy, e.Resource, e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }

// Postgres SQLSTATE codes this layer cares about. Raw pg errors never cross
// a component boundary, Classify maps them into the taxonomy first.
const (
	codeDuplicateDatabase  = "42P04"
	codeDuplicateSchema    = "42P06"
	codeDuplicateTable     = "42P07"
	codeDuplicateObject    = "42710"
	codeUndefinedTable     = "42P01"
	codeInvalidCatalogName = "3D000"
	codeInvalidSchemaName  = "3F000"
	codeCannotConnectNow   = "57P03"
)

// Classify maps a raw store error into the taxonomy. Errors it cannot
// classify are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeDuplicateDatabase, codeDuplicateSchema, codeDuplicateTable, codeDuplicateObject:
			return &ResourceAlreadyExistsError{Code: pgErr.Code, Err: err}
		case codeUndefinedTable, codeInvalidCatalogName, codeInvalidSchemaName:
			return &ResourceNotReadyError{Code: pgErr.Code, Err: err}
		case codeCannotConnectNow:
			return &ConnectionError{Err: err}
		}
		// Class 08 is connection_exception.
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "08" {
			return &ConnectionError{Err: err}
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionError{Err: err}
	}

	return err
}

// IsAlreadyExists reports whether err classifies as an expected
// already-exists outcome of an idempotent retry.
func IsAlreadyExists(err error) bool {
	var target *ResourceAlreadyExistsError
	return errors.As(Classify(err), &target)
}

// IsNotReady reports whether err classifies as a tenant whose resource is
// mid-provisioning or mid-teardown.
func IsNotReady(err error) bool {
	var target *ResourceNotReadyError
	return errors.As(Classify(err), &target)
}
