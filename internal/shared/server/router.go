package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/cvgen"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

const (
	rateGroupGenerate = "GENERATE"
	rateGroupState    = "STATE"
	rateGroupDefault  = "DEFAULT"
)

// RouterDeps are the handlers and services the router mounts.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	PortfolioHandler *portfolio.Handler
	CVHandler        *cvgen.Handler
	Limiter          *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	if deps.PortfolioHandler != nil {
		deps.PortfolioHandler.RegisterRoutes(api)
	}
	if deps.CVHandler != nil {
		sessions := api.Group("", middleware.Session(), rateLimit(deps.Limiter))
		deps.CVHandler.RegisterRoutes(sessions)
		deps.CVHandler.RegisterFileRoutes(api)
		if deps.Config.IsDevLike() {
			deps.CVHandler.RegisterDevRoutes(api.Group("/dev"))
		}
	}

	return r
}

// rateLimit throttles generation harder than state polling, per session.
func rateLimit(limiter *middleware.RateLimiter) gin.HandlerFunc {
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		Limiter:      limiter,
		GroupFor: func(c *gin.Context) string {
			switch {
			case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/cv":
				return rateGroupGenerate
			case c.Request.Method == http.MethodGet:
				return rateGroupState
			}
			return rateGroupDefault
		},
		Rules: map[string]middleware.RateLimitRule{
			rateGroupGenerate: {Rate: 0.2, Burst: 5},
			rateGroupState:    {Rate: 5, Burst: 20},
			rateGroupDefault:  {Rate: 1, Burst: 10},
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
