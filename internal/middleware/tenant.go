package middleware

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
	"time"

	"consultly/internal/caching"
	"consultly/internal/common"
	"consultly/internal/models"
	"consultly/internal/repositories"
	"consultly/internal/tenantdb"

	"github.com/labstack/echo/v4"
)

const (
	// SubdomainHeader overrides host-based resolution, used by admin
	// tooling and tests.
	SubdomainHeader = "X-Tenant-Subdomain"

	tenantContextKey = "resolved_tenant"
	handleContextKey = "tenant_handle"

	tenantCacheTTL = 5 * time.Minute
)

// TenantResolver maps an inbound request to a tenant directory row and its
// database handle. Requests without a subdomain (or with an unknown one)
// pass through tenant-less; handlers that require a tenant reject those.
type TenantResolver struct {
	tenantRepo repositories.TenantRepository
	cacheSvc   caching.CacheService
	resolver   *tenantdb.Resolver
	rootDomain string
}

func NewTenantResolver(tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService, resolver *tenantdb.Resolver, rootDomain string) *TenantResolver {
	return &TenantResolver{
		tenantRepo: tenantRepo,
		cacheSvc:   cacheSvc,
		resolver:   resolver,
		rootDomain: rootDomain,
	}
}

// Resolve is the echo middleware for the request-time resolution path.
func (t *TenantResolver) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subdomain := t.subdomainFor(c)
			if subdomain == "" {
				// Root-domain request, no tenant context.
				return next(c)
			}

			tenant, err := t.lookup(c.Request().Context(), subdomain)
			if err != nil {
				if errors.Is(err, repositories.ErrTenantNotFound) {
					return next(c)
				}
				log.Printf("tenant lookup for subdomain %s failed: %v", subdomain, err)
				return common.SendServerError(c, "Tenant lookup failed")
			}

			cfg, err := tenant.Config()
			if err != nil {
				log.Printf("tenant %s has invalid routing config: %v", tenant.ID, err)
				return common.SendServerError(c, "Tenant misconfigured")
			}

			handle, err := t.resolver.HandleFor(c.Request().Context(), cfg)
			if err != nil {
				log.Printf("resolving handle for tenant %s failed: %v", tenant.ID, err)
				return common.SendServerError(c, "Tenant database unavailable")
			}

			c.Set(tenantContextKey, tenant)
			c.Set(handleContextKey, handle)
			ctx := context.WithValue(c.Request().Context(), common.TenantIDKey, tenant.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func (t *TenantResolver) subdomainFor(c echo.Context) string {
	if override := c.Request().Header.Get(SubdomainHeader); override != "" {
		return strings.ToLower(override)
	}
	return SubdomainFromHost(c.Request().Host, t.rootDomain)
}

func (t *TenantResolver) lookup(ctx context.Context, subdomain string) (*models.Tenant, error) {
	if tenant, err := t.cacheSvc.GetTenantBySubdomain(ctx, subdomain); err == nil {
		return tenant, nil
	} else if !errors.Is(err, caching.ErrCacheMiss) {
		log.Printf("tenant cache read for %s failed: %v", subdomain, err)
	}

	tenant, err := t.tenantRepo.GetBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}

	if err := t.cacheSvc.SetTenantBySubdomain(ctx, tenant, tenantCacheTTL); err != nil {
		log.Printf("tenant cache write for %s failed: %v", subdomain, err)
	}
	return tenant, nil
}

// SubdomainFromHost extracts the tenant subdomain from a host header by
// suffix match against the root domain. Hosts that are the root domain
// itself, or that do not end in it, yield no subdomain.
func SubdomainFromHost(host, rootDomain string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	if host == rootDomain {
		return ""
	}
	suffix := "." + rootDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}

	prefix := strings.TrimSuffix(host, suffix)
	// Only the label closest to the root domain routes; deeper labels are
	// not tenant identifiers.
	if i := strings.LastIndex(prefix, "."); i >= 0 {
		prefix = prefix[i+1:]
	}
	return prefix
}

// TenantFromContext returns the directory row resolved for this request.
func TenantFromContext(c echo.Context) (*models.Tenant, bool) {
	tenant, ok := c.Get(tenantContextKey).(*models.Tenant)
	return tenant, ok
}

// HandleFromContext returns the tenant database handle for this request.
func HandleFromContext(c echo.Context) (tenantdb.DB, bool) {
	handle, ok := c.Get(handleContextKey).(tenantdb.DB)
	return handle, ok
}
