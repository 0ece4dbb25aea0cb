package tenantdb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "test error"}
}

func TestClassify_AlreadyExists(t *testing.T) {
	for _, code := range []string{"42P04", "42P06", "42P07", "42710"} {
		classified := Classify(pgErr(code))
		var target *ResourceAlreadyExistsError
		assert.True(t, errors.As(classified, &target), "code %s", code)
		assert.Equal(t, code, target.Code)
		assert.True(t, IsAlreadyExists(pgErr(code)), "code %s", code)
	}
}

func TestClassify_NotReady(t *testing.T) {
	for _, code := range []string{"42P01", "3D000", "3F000"} {
		classified := Classify(pgErr(code))
		var target *ResourceNotReadyError
		assert.True(t, errors.As(classified, &target), "code %s", code)
		assert.True(t, IsNotReady(pgErr(code)), "code %s", code)
	}
}

func TestClassify_Connection(t *testing.T) {
	for _, code := range []string{"08000", "08006", "08001", "57P03"} {
		classified := Classify(pgErr(code))
		var target *ConnectionError
		assert.True(t, errors.As(classified, &target), "code %s", code)
	}

	var target *ConnectionError
	assert.True(t, errors.As(Classify(context.DeadlineExceeded), &target))
}

func TestClassify_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("scan tenant: %w", pgErr("42P01"))
	assert.True(t, IsNotReady(wrapped))
	assert.False(t, IsAlreadyExists(wrapped))
}

func TestClassify_PassThrough(t *testing.T) {
	// Unique violation is a data error, not part of the taxonomy.
	unique := pgErr("23505")
	assert.Equal(t, unique, Classify(unique))

	plain := errors.New("boom")
	assert.Equal(t, plain, Classify(plain))

	assert.NoError(t, Classify(nil))
}

func TestTaxonomy_Unwrap(t *testing.T) {
	cause := pgErr("42P01")
	err := &ProvisioningError{
		Strategy: StrategySchema,
		Resource: "tenant_x",
		Step:     "migrate",
		Err:      &MigrationError{Migration: "0001_clients", Err: cause},
	}

	var migErr *MigrationError
	assert.True(t, errors.As(err, &migErr))
	assert.Equal(t, "0001_clients", migErr.Migration)

	var pg *pgconn.PgError
	assert.True(t, errors.As(err, &pg))
}
