package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"consultly/internal/caching"
	"consultly/internal/config"
	"consultly/internal/handlers"
	"consultly/internal/jobs/background"
	"consultly/internal/middleware"
	"consultly/internal/migrations"
	"consultly/internal/repositories"
	"consultly/internal/services"
	"consultly/internal/tenantdb"
	"consultly/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Central database pool, shared by the tenant directory and every
	// schema-strategy tenant.
	pool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := tenantdb.RunMigrations(context.Background(), pool, migrations.Central()); err != nil {
		log.Fatalf("Failed to migrate central database: %v", err)
	}

	// The connection registry is the single owner of tenant pools; it is
	// passed by reference everywhere tenant handles are needed and drained
	// on shutdown.
	registry := tenantdb.NewConnRegistry(cfg.DatabaseURL)
	defer registry.CloseAll()

	resolver := tenantdb.NewResolver(pool, registry)
	provisioner := tenantdb.NewProvisioner(pool, registry, migrations.Tenant())

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	consultancyRepo := repositories.NewConsultancyRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Services
	tenantSvc := services.NewTenantService(tenantRepo, cacheSvc)
	provisioningSvc := services.NewProvisioningService(tenantRepo, provisioner, registry, cacheSvc)
	authSvc := services.NewAuthService(userRepo, jwtSecret, 24*time.Hour)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(userRepo, consultancyRepo, provisioningSvc, authSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, provisioningSvc)
	clientHandlers := handlers.NewClientHandlers()
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, registry)

	// Background scanner walking all tenants for due task reminders.
	scheduler, err := background.NewJobScheduler(tenantRepo, resolver, cfg.ScanInterval)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Request-time tenant resolution runs on every request.
	tenantResolver := middleware.NewTenantResolver(tenantRepo, cacheSvc, resolver, cfg.RootDomain)
	e.Use(tenantResolver.Resolve())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		SuccessHandler: func(c echo.Context) {
			middleware.JWTSuccessHandler(c)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}))

	protected.GET("/me", authHandlers.Me)

	// Tenant directory routes
	protected.GET("/tenants", tenantHandlers.ListTenants)
	protected.GET("/tenants/:id", tenantHandlers.GetTenant)
	protected.PUT("/tenants/:id", tenantHandlers.UpdateTenant)
	protected.POST("/tenants/:id/provision", tenantHandlers.ProvisionTenant)
	protected.DELETE("/tenants/:id", tenantHandlers.DeleteTenant)

	// Tenant-scoped routes, served through the resolved handle
	protected.GET("/clients", clientHandlers.ListClients)
	protected.POST("/clients", clientHandlers.CreateClient)
	protected.GET("/clients/:id", clientHandlers.GetClient)
	protected.DELETE("/clients/:id", clientHandlers.DeleteClient)

	// Start server
	go func() {
		log.Printf("Consultly server v%s starting on port %d", version, cfg.Port)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown: stop taking requests, stop the scanner, then
	// drain every tenant pool before the central pool closes.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	registry.CloseAll()
	log.Println("Shutdown complete")
}
