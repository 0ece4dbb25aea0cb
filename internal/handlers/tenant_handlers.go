package handlers

import (
	"log"
	"net/http"
	"strconv"

	"consultly/internal/common"
	"consultly/internal/services"

	"github.com/labstack/echo/v4"
)

type TenantHandlers struct {
	tenantSvc       services.TenantService
	provisioningSvc services.ProvisioningService
}

func NewTenantHandlers(tenantSvc services.TenantService, provisioningSvc services.ProvisioningService) *TenantHandlers {
	return &TenantHandlers{tenantSvc: tenantSvc, provisioningSvc: provisioningSvc}
}

func (h *TenantHandlers) ListTenants(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	tenants, err := h.tenantSvc.List(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("Failed to list tenants: %v", err)
		return common.SendServerError(c, "Failed to list tenants")
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandlers) GetTenant(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "tenant id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	tenant, err := h.tenantSvc.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Tenant")
	}
	return c.JSON(http.StatusOK, tenant)
}

type updateTenantBody struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "tenant id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var body updateTenantBody
	if err := c.Bind(&body); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req := &services.UpdateTenantRequest{ID: id, Name: body.Name, Status: body.Status}
	if err := h.tenantSvc.Update(c.Request().Context(), req); err != nil {
		log.Printf("Failed to update tenant %s: %v", id, err)
		return common.SendServerError(c, "Failed to update tenant")
	}
	return c.NoContent(http.StatusNoContent)
}

// ProvisionTenant re-runs provisioning for a tenant. Idempotent: resource
// creation and migrations are both no-ops when already done.
func (h *TenantHandlers) ProvisionTenant(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "tenant id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.provisioningSvc.Reprovision(c.Request().Context(), id); err != nil {
		log.Printf("Failed to reprovision tenant %s: %v", id, err)
		return common.SendServerError(c, "Failed to provision tenant")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "tenant id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.provisioningSvc.DeleteTenant(c.Request().Context(), id); err != nil {
		log.Printf("Failed to delete tenant %s: %v", id, err)
		return common.SendServerError(c, "Failed to delete tenant")
	}
	return c.NoContent(http.StatusNoContent)
}
