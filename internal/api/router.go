package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nbminh24/lecas-identity/internal/api/handler"
	"github.com/nbminh24/lecas-identity/internal/api/metrics"
	"github.com/nbminh24/lecas-identity/internal/api/middleware"
	"github.com/nbminh24/lecas-identity/internal/core/domain"
	"github.com/nbminh24/lecas-identity/internal/core/service"
	mongostore "github.com/nbminh24/lecas-identity/internal/infrastructure/db/mongo"
	redisstore "github.com/nbminh24/lecas-identity/internal/infrastructure/db/redis"
	"github.com/nbminh24/lecas-identity/internal/infrastructure/http/handlers"
	"github.com/nbminh24/lecas-identity/internal/infrastructure/oauth"
	"github.com/nbminh24/lecas-identity/internal/pkg/config"
	"github.com/nbminh24/lecas-identity/internal/pkg/password"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	hasher := metrics.NewInstrumentedHasher(password.NewHasher(cfg.Hash.Cost, cfg.Hash.MaxConcurrent))
	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := service.NewAuthService(userRepo, hasher, tokenService, log)
	oauthService := service.NewOAuthService(userRepo, log)
	provider := oauth.NewGoogleProvider(oauth.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		CallbackURL:  cfg.OAuth.CallbackURL,
	})
	stateStore := redisstore.NewStateStore(rdb)

	authHandler := handler.NewAuthHandler(authService)
	oauthHandler := handler.NewOAuthHandler(provider, stateStore, oauthService, tokenService,
		cfg.OAuth.SuccessRedirect, cfg.OAuth.FailureRedirect, log)
	adminHandler := handler.NewAdminHandler(authService)

	authRequired := middleware.Auth(tokenService)
	adminOnly := middleware.RBAC(authService, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/user", authHandler.Me, authRequired)
	e.PUT("/auth/user", authHandler.UpdateProfile, authRequired)
	e.PUT("/auth/password", authHandler.ChangePassword, authRequired)

	// --- External identity flow ---
	e.GET("/auth/oauth/start", oauthHandler.Start)
	e.GET("/auth/oauth/callback", oauthHandler.Callback)

	// --- Administrative surface ---
	admin := e.Group("/admin", authRequired, adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PATCH("/users/:id/role", adminHandler.AssignRole)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
