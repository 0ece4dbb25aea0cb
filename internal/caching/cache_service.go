package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"consultly/internal/models"
)

// ErrCacheMiss is returned when a key is absent; callers fall back to the
// tenant directory.
var ErrCacheMiss = errors.New("cache miss")

// CacheService fronts the tenant directory on the request path. Lookups by
// subdomain run on every inbound request, so they are cached briefly.
type CacheService interface {
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
	SetTenantBySubdomain(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error
	InvalidateTenant(ctx context.Context, subdomain string) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both bare host:port and redis:// URLs.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func tenantKey(subdomain string) string {
	return fmt.Sprintf("tenant:subdomain:%s", subdomain)
}

func (s *redisCacheService) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	data, err := s.client.Get(ctx, tenantKey(subdomain)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	tenant := &models.Tenant{}
	if err := json.Unmarshal(data, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *redisCacheService) SetTenantBySubdomain(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tenantKey(tenant.Subdomain), data, ttl).Err()
}

func (s *redisCacheService) InvalidateTenant(ctx context.Context, subdomain string) error {
	return s.client.Del(ctx, tenantKey(subdomain)).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
