package common

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateSubdomain(t *testing.T) {
	valid := []string{"acme", "acme-consulting", "a", "tenant42", "0day"}
	for _, s := range valid {
		assert.NoError(t, ValidateSubdomain(s), s)
	}

	invalid := []string{"", "  ", "Acme", "acme_consulting", "-acme", "acme-", "acme.consulting"}
	for _, s := range invalid {
		assert.Error(t, ValidateSubdomain(s), s)
	}
}

func TestValidateUUID(t *testing.T) {
	id := uuid.New()

	got, err := ValidateUUID(id.String(), "tenant_id")
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ValidateUUID("", "tenant_id")
	assert.Error(t, err)

	_, err = ValidateUUID("not-a-uuid", "tenant_id")
	assert.Error(t, err)
}

func TestValidatePaginationParams(t *testing.T) {
	limit, offset := ValidatePaginationParams(0, -1)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ValidatePaginationParams(5000, 20)
	assert.Equal(t, 1000, limit)
	assert.Equal(t, 20, offset)
}

func TestTenantIDContextRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := context.WithValue(context.Background(), TenantIDKey, id)

	got, ok := GetTenantIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = GetTenantIDFromContext(context.Background())
	assert.False(t, ok)
}
