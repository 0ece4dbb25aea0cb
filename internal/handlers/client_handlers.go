package handlers

import (
	"log"
	"net/http"
	"strconv"

	"consultly/internal/common"
	"consultly/internal/middleware"
	"consultly/internal/models"
	"consultly/internal/repositories"
	"consultly/internal/tenantdb"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ClientHandlers serves tenant-scoped client records through the handle the
// request-time resolver attached. They are the proof that routing works:
// every query here runs inside the tenant's own schema or database.
type ClientHandlers struct{}

func NewClientHandlers() *ClientHandlers {
	return &ClientHandlers{}
}

func (h *ClientHandlers) repoFor(c echo.Context) (repositories.ClientRepository, error) {
	handle, ok := middleware.HandleFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Request has no tenant context")
	}
	return repositories.NewClientRepo(handle), nil
}

type createClientBody struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func (h *ClientHandlers) CreateClient(c echo.Context) error {
	repo, err := h.repoFor(c)
	if err != nil {
		return err
	}

	var body createClientBody
	if err := c.Bind(&body); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if body.Name == "" {
		return common.SendValidationError(c, "name", "name is required")
	}

	client := &models.Client{
		ID:    uuid.New(),
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
		Notes: body.Notes,
	}
	if err := repo.Create(c.Request().Context(), client); err != nil {
		if tenantdb.IsNotReady(err) {
			return common.SendTenantNotReady(c)
		}
		log.Printf("Failed to create client: %v", err)
		return common.SendServerError(c, "Failed to create client")
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandlers) GetClient(c echo.Context) error {
	repo, err := h.repoFor(c)
	if err != nil {
		return err
	}

	id, err := common.ValidateUUID(c.Param("id"), "client id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	client, err := repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if tenantdb.IsNotReady(err) {
			return common.SendTenantNotReady(c)
		}
		return common.SendNotFoundError(c, "Client")
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) ListClients(c echo.Context) error {
	repo, err := h.repoFor(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	clients, err := repo.List(c.Request().Context(), limit, offset)
	if err != nil {
		if tenantdb.IsNotReady(err) {
			return common.SendTenantNotReady(c)
		}
		log.Printf("Failed to list clients: %v", err)
		return common.SendServerError(c, "Failed to list clients")
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandlers) DeleteClient(c echo.Context) error {
	repo, err := h.repoFor(c)
	if err != nil {
		return err
	}

	id, err := common.ValidateUUID(c.Param("id"), "client id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := repo.Delete(c.Request().Context(), id); err != nil {
		if tenantdb.IsNotReady(err) {
			return common.SendTenantNotReady(c)
		}
		log.Printf("Failed to delete client %s: %v", id, err)
		return common.SendServerError(c, "Failed to delete client")
	}
	return c.NoContent(http.StatusNoContent)
}
