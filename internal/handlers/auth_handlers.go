package handlers

import (
	"log"
	"net/http"
	"time"

	"consultly/internal/common"
	"consultly/internal/models"
	"consultly/internal/repositories"
	"consultly/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandlers struct {
	userRepo        repositories.UserRepository
	consultancyRepo repositories.ConsultancyRepository
	provisioningSvc services.ProvisioningService
	authSvc         services.AuthService
}

func NewAuthHandlers(userRepo repositories.UserRepository, consultancyRepo repositories.ConsultancyRepository,
	provisioningSvc services.ProvisioningService, authSvc services.AuthService) *AuthHandlers {
	return &AuthHandlers{
		userRepo:        userRepo,
		consultancyRepo: consultancyRepo,
		provisioningSvc: provisioningSvc,
		authSvc:         authSvc,
	}
}

type SignupRequest struct {
	ConsultancyName string `json:"consultancy_name"`
	Subdomain       string `json:"subdomain"`
	Strategy        string `json:"tenant_strategy"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

type SignupResponse struct {
	Token  string         `json:"token"`
	Tenant *models.Tenant `json:"tenant"`
	User   *models.User   `json:"user"`
}

// Signup creates the consultancy, its first workspace tenant and the admin
// user, then provisions the tenant's database resource.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" || req.ConsultancyName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, password and consultancy name are required")
	}
	if err := common.ValidateSubdomain(req.Subdomain); err != nil {
		return common.SendValidationError(c, "subdomain", err.Error())
	}

	if existing, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}

	consultancy := &models.Consultancy{
		ID:     uuid.New(),
		Name:   req.ConsultancyName,
		Status: "active",
	}
	if err := h.consultancyRepo.Create(ctx, consultancy); err != nil {
		log.Printf("Failed to create consultancy %s: %v", consultancy.Name, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create consultancy")
	}

	tenant, err := h.provisioningSvc.CreateTenant(ctx, &services.CreateTenantRequest{
		Name:          req.ConsultancyName,
		Subdomain:     req.Subdomain,
		Strategy:      req.Strategy,
		ConsultancyID: consultancy.ID,
	})
	if err != nil {
		log.Printf("Failed to provision tenant for consultancy %s: %v", consultancy.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to provision tenant")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		ID:            uuid.New(),
		ConsultancyID: consultancy.ID,
		TenantID:      tenant.ID,
		Email:         req.Email,
		PasswordHash:  string(hashedPassword),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Status:        "active",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("Failed to create user %s for tenant %s: %v", user.Email, tenant.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	token, err := h.authSvc.GenerateToken(user.ID, tenant.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusCreated, SignupResponse{Token: token, Tenant: tenant, User: user})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	token, user, err := h.authSvc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

func (h *AuthHandlers) Me(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}
	return c.JSON(http.StatusOK, user)
}
