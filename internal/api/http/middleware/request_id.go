package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the key used to store request ID in context
type requestIDKey struct{}

// RequestIDMiddleware ensures every request has a stable request ID.
// - Reads X-Request-Id header if present
// - Otherwise generates a new one
// - Stores it in both Gin context and standard context as "request_id"
// - Echoes it back in response header X-Request-Id
// - Logs request details (method, path, status, latency)
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-Id")
		if strings.TrimSpace(rid) == "" {
			rid = uuid.New().String()
		}

		c.Set("request_id", rid)

		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, rid)
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set("X-Request-Id", rid)

		start := time.Now()
		c.Next()

		slog.Info("request",
			slog.String("id", rid),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// GetRequestID extracts the request ID from a standard context
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}
