package handlers

import (
	"github.com/SscSPs/sismog_console/cmd/docs"
	portssvc "github.com/SscSPs/sismog_console/internal/core/ports/services"
	"github.com/SscSPs/sismog_console/internal/middleware"
	"github.com/SscSPs/sismog_console/internal/platform/config"
	"github.com/SscSPs/sismog_console/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the optional infrastructure the routes hook into.
type RouteDeps struct {
	// Limiter guards the public auth routes. Nil disables rate limiting.
	Limiter *limiter.Limiter
	// Metrics, when set, is exposed on /metrics.
	Metrics *metrics.Collector
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	registerAuthRoutes(r, cfg, services.Auth, deps.Limiter)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up the public sign-in routes and the protected logout.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.AuthSvcFacade, l *limiter.Limiter) {
	h := NewAuthHandler(authService)

	limited := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if l == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{middleware.RateLimit(l), handler}
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limited(h.Login)...)
		auth.POST("/reset-password", limited(h.RequestPasswordReset)...)
		auth.POST("/logout", middleware.AuthMiddleware(cfg.JWTSecret), h.Logout)
	}
}

// setupAPIV1Routes configures the authenticated /api/v1 group.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerConsoleRoutes(v1, NewConsoleHandler(services, cfg))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
