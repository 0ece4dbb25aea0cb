package handlers

import (
	"context"
	"net/http"
	"time"

	"consultly/internal/caching"
	"consultly/internal/tenantdb"

	"github.com/labstack/echo/v4"
)

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db       tenantdb.CentralDB
	cacheSvc caching.CacheService
	registry *tenantdb.ConnRegistry
}

func NewHealthHandlers(db tenantdb.CentralDB, cacheSvc caching.CacheService, registry *tenantdb.ConnRegistry) *HealthHandlers {
	return &HealthHandlers{db: db, cacheSvc: cacheSvc, registry: registry}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Services    map[string]string `json:"services"`
	TenantPools int               `json:"tenant_pools"`
}

func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessCheck pings the central database and redis.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:      "healthy",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Services:    make(map[string]string),
		TenantPools: h.registry.Len(),
	}

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		health.Status = "unhealthy"
		health.Services["database"] = err.Error()
	} else {
		health.Services["database"] = "ok"
	}

	if err := h.cacheSvc.Ping(ctx); err != nil {
		health.Status = "degraded"
		health.Services["redis"] = err.Error()
	} else {
		health.Services["redis"] = "ok"
	}

	code := http.StatusOK
	if health.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}
