package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/shorty/internal/handler"
)

// Handlers groups the route handlers wired by SetupRoutes.
type Handlers struct {
	Redirect *handler.RedirectHandler
	Links    *handler.LinksHandler
	Auth     *handler.AuthHandler
	Health   *handler.HealthHandler
}

// SetupRoutes configures all routes. The redirect wildcard routes are
// registered last; Gin resolves static prefixes (/health, /metrics, /api)
// ahead of the parameterized segment.
func SetupRoutes(
	router *gin.Engine,
	h Handlers,
	requireAuth gin.HandlerFunc,
	rateLimit gin.HandlerFunc,
	gatherer prometheus.Gatherer,
) {
	router.GET("/health", h.Health.HealthCheck)
	router.GET("/health/ready", h.Health.Readiness)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/auth/token", h.Auth.Token)

		authed := apiGroup.Group("")
		authed.Use(requireAuth)
		{
			authed.POST("/links", h.Links.Create)
			authed.GET("/links", h.Links.List)
			authed.PUT("/links/:id", h.Links.Update)
			authed.GET("/permissions", h.Links.Permissions)
		}
	}

	// Public resolution, rate limited per client IP.
	public := router.Group("")
	public.Use(rateLimit)
	{
		public.GET("/:segment", h.Redirect.Redirect)
		public.GET("/:segment/:keyword", h.Redirect.RedirectNamespaced)
	}
}
