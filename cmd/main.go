package main

import (
	"context"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"notegrid/internal/caching"
	"notegrid/internal/config"
	"notegrid/internal/handlers"
	"notegrid/internal/jobs"
	"notegrid/internal/middleware"
	"notegrid/internal/repositories"
	"notegrid/internal/services"
	"notegrid/pkg/database"
	"notegrid/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database.URL, 0)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	storage, err := services.NewMinioStorage(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Bucket,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		zlog.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := storage.EnsureBucketExists(ctx); err != nil {
		zlog.Fatal("Failed to ensure attachment bucket", zap.Error(err))
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	noteRepo := repositories.NewNoteRepo(pool)

	// Services
	tokenSvc := services.NewTokenService(cfg.JWT.Secret)
	policySvc := services.NewPolicyService()
	quotaSvc := services.NewQuotaService()
	verifier := services.NewBcryptVerifier()
	noteSvc := services.NewNoteService(pool, noteRepo, policySvc, quotaSvc)
	userSvc := services.NewUserService(userRepo, policySvc, verifier)
	tenantSvc := services.NewTenantService(tenantRepo, cacheSvc, policySvc, zlog)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(userRepo, tenantRepo, tokenSvc, verifier, zlog)
	noteHandlers := handlers.NewNoteHandlers(noteSvc, zlog)
	userHandlers := handlers.NewUserHandlers(userSvc, zlog)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, zlog)
	attachmentHandlers := handlers.NewAttachmentHandlers(noteSvc, storage, zlog)

	// Background jobs
	usageRefresher, err := jobs.NewUsageRefresher(tenantRepo, noteRepo, cacheSvc, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize background jobs", zap.Error(err))
	}
	usageRefresher.Start()
	defer usageRefresher.Stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.Metrics())

	// Health and metrics endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", handlers.ReadinessCheck)
	e.GET("/health/detailed", func(c echo.Context) error {
		return handlers.HealthCheckDetailed(c, pool)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")

	// Public routes
	v1.POST("/auth/login", authHandlers.Login)
	v1.GET("/tenants", tenantHandlers.ListTenants)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.Authenticate(tokenSvc, zlog))

	protected.GET("/auth/me", authHandlers.Me)

	protected.GET("/notes", noteHandlers.ListNotes)
	protected.POST("/notes", noteHandlers.CreateNote)
	protected.GET("/notes/:id", noteHandlers.GetNote)
	protected.PUT("/notes/:id", noteHandlers.UpdateNote)
	protected.DELETE("/notes/:id", noteHandlers.DeleteNote)

	protected.POST("/notes/:id/attachments", attachmentHandlers.Upload)
	protected.GET("/notes/:id/attachments/:name", attachmentHandlers.Download)
	protected.DELETE("/notes/:id/attachments/:name", attachmentHandlers.Delete)

	protected.GET("/users", userHandlers.ListUsers)
	protected.POST("/users", userHandlers.InviteUser)

	protected.POST("/tenants/:slug/upgrade", tenantHandlers.UpgradePlan)
	protected.POST("/tenants/:slug/downgrade", tenantHandlers.DowngradePlan)

	zlog.Info("Server starting",
		zap.String("version", version),
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
	)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", cfg.Server.Port)))
}
