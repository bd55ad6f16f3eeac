package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-intro-backend/internal/shared/telemetry"
)

const pipelineStageKey = "pipelineStage"

// SetPipelineStage records how far request processing got. The completion
// log reports it for success and failure alike.
func SetPipelineStage(c *gin.Context, stage string) {
	c.Set(pipelineStageKey, stage)
}

func pipelineStageFromContext(c *gin.Context) string {
	val, _ := c.Get(pipelineStageKey)
	if stage, ok := val.(string); ok {
		return stage
	}
	return ""
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":     RequestIDFromContext(c),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"pipeline_stage": pipelineStageFromContext(c),
			"duration_ms":    float64(latency.Microseconds()) / 1000.0,
			"user_id":        UserIDFromContext(c),
			"user_email":     UserEmailFromContext(c),
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
		})
	}
}
