package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	httpapi "github.com/codesign-connect/codesign-backend/internal/api/http"
	"github.com/codesign-connect/codesign-backend/internal/api/http/middleware"
	"github.com/codesign-connect/codesign-backend/internal/artifacts"
	"github.com/codesign-connect/codesign-backend/internal/auth"
	"github.com/codesign-connect/codesign-backend/internal/platform/logger"
	"github.com/codesign-connect/codesign-backend/internal/projects"
	"github.com/codesign-connect/codesign-backend/internal/sessions"
	"github.com/codesign-connect/codesign-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Log         *logger.Logger
	DB          *pgxpool.Pool
	Redis       *redis.Client // optional; nil disables the user cache
	JWTSecret   string
	CORSOrigins []string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	api := r.Group("/api")

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(api)

	userRepo := users.NewRepo(dep.DB)
	projectRepo := projects.NewRepo(dep.DB)
	sessionRepo := sessions.NewRepo(dep.DB)

	var finder users.Finder = userRepo
	if dep.Redis != nil {
		finder = users.NewCache(userRepo, dep.Redis)
	}

	tokens := auth.NewTokenService(dep.JWTSecret, auth.DefaultTokenTTL)
	authMW := auth.NewMiddleware(dep.Log, tokens, finder)
	requireAuth := authMW.RequireAuth()
	loginLimit := middleware.RateLimit(rate.Limit(5), 10)

	authHandler := auth.NewHandler(dep.Log, tokens, userRepo)
	auth.Register(api.Group("/auth"), authHandler, loginLimit, requireAuth)

	protected := api.Group("")
	protected.Use(requireAuth)

	projects.Register(protected.Group("/projects"), dep.Log, projectRepo, sessionRepo)
	sessions.Register(protected.Group("/sessions"), dep.Log, sessionRepo)
	artifacts.Register(protected, dep.Log, dep.DB, sessionRepo)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-Id")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
