package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/prometheus"
)

// sessionCookie carries the opaque session handle that keys orchestration
// state in the session store.
const sessionCookie = "epr_session"

const sessionContextKey = "session_handle"

// skipLogPaths are high-frequency probe paths kept out of the request log.
var skipLogPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// RequestLogging logs each request with method, route, status and latency.
// Server errors log at error level, client errors at warn.
func RequestLogging(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipLogPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("duration", time.Since(start)),
			logging.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request failed", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request served", fields...)
		}
	}
}

// RecordMetrics observes every request on the portal metrics. The registered
// route pattern is used as the label so path parameters do not explode
// cardinality.
func RecordMetrics(metrics *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// SessionHandle ensures every request carries a session handle cookie,
// minting one for first-time callers, and exposes it to handlers via the
// request context.
func SessionHandle() gin.HandlerFunc {
	return func(c *gin.Context) {
		handle, err := c.Cookie(sessionCookie)
		if err != nil || handle == "" {
			handle = uuid.NewString()
			c.SetCookie(sessionCookie, handle, 0, "/", "", false, true)
		}
		c.Set(sessionContextKey, handle)
		c.Next()
	}
}

func sessionHandle(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
