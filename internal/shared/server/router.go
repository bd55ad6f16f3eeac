package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-intro-backend/internal/intros"
	"resume-intro-backend/internal/shared/config"
	"resume-intro-backend/internal/shared/metrics"
	"resume-intro-backend/internal/shared/server/middleware"
	"resume-intro-backend/internal/shared/server/respond"
)

const rateLimitGroupGenerate = "GENERATE"

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config       config.Config
	IntroHandler *intros.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.IntroHandler.RegisterRoutes(api)

	return r
}

// rateLimitConfig throttles the generation endpoints; every request there
// costs an outbound completion call.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateLimitGroupGenerate: {Rate: 1, Burst: 20},
		},
		GroupFor: func(c *gin.Context) string {
			switch c.FullPath() {
			case "/api/v1/generate-intro", "/api/v1/replace-intro":
				return rateLimitGroupGenerate
			default:
				return ""
			}
		},
	}
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
