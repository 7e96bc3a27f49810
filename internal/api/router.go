package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/savemate/deals-api/docs"
	"github.com/savemate/deals-api/internal/api/handler"
	"github.com/savemate/deals-api/internal/api/middleware"
	"github.com/savemate/deals-api/internal/core/domain"
	"github.com/savemate/deals-api/internal/core/service"
	"github.com/savemate/deals-api/internal/infrastructure/config"
	mongodb "github.com/savemate/deals-api/internal/infrastructure/db/mongo"
	redisdb "github.com/savemate/deals-api/internal/infrastructure/db/redis"
	"github.com/savemate/deals-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, log zerolog.Logger, db *mongo.Database, rdb *redis.Client) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("deals"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewBusinessProfileRepository(db)
	dealRepo := mongodb.NewDealRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	resetStore := redisdb.NewResetTokenStore(rdb)

	images, err := storage.NewLocalBlobStore(cfg.Upload.Dir, cfg.Upload.MaxBytes)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		ResetTTL:      cfg.Auth.ResetTTL,
	}, userRepo, resetStore)
	authService := service.NewAuthService(userRepo, profileRepo, tokens, log)
	dealService := service.NewDealService(dealRepo, categoryRepo, log)
	moderationService := service.NewModerationService(dealRepo, auditRepo, log)
	categoryService := service.NewCategoryService(categoryRepo, dealRepo, auditRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, cfg.Development())
	dealHandler := handler.NewDealHandler(dealService)
	businessHandler := handler.NewBusinessDealHandler(dealService, images)
	adminHandler := handler.NewAdminHandler(moderationService, dealService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	authn := middleware.Auth(tokens)
	requireBusiness := middleware.RequireRole(profileRepo, domain.RoleBusiness)
	requireAdmin := middleware.RequireRole(profileRepo, domain.RoleAdmin)

	// --- Operational routes ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", images.Dir())

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Public catalog ---
	v1 := e.Group("/v1")
	v1.GET("/deals", dealHandler.List)
	v1.GET("/deals/:id", dealHandler.Get)
	v1.GET("/categories", categoryHandler.List)

	// --- Business routes ---
	business := v1.Group("/business", authn, requireBusiness)
	business.GET("/deals", businessHandler.List)
	business.POST("/deals", businessHandler.Create)
	business.PATCH("/deals/:id", businessHandler.Update)
	business.DELETE("/deals/:id", businessHandler.Delete)

	// --- Admin routes ---
	admin := v1.Group("/admin", authn, requireAdmin)
	admin.GET("/deals", adminHandler.List)
	admin.GET("/deals/pending", adminHandler.ListPending)
	admin.POST("/deals/:id/approve", adminHandler.Approve)
	admin.POST("/deals/:id/reject", adminHandler.Reject)
	admin.PUT("/deals/:id/status", adminHandler.SetStatus)
	admin.DELETE("/deals/:id", adminHandler.Delete)
	admin.POST("/categories", categoryHandler.Create)
	admin.PATCH("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	return e, nil
}
