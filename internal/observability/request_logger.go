package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestIDLocal is the fiber.Ctx locals key holding the request id.
const RequestIDLocal = "request_id"

// RequestLogger logs each request and feeds request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(RoutePath(c), c.Method(), status, duration)

		reqID, _ := c.Locals(RequestIDLocal).(string)
		logger.Info("http",
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", status),
			zap.Float64("duration_ms", float64(duration.Microseconds())/1000.0),
			zap.String("request_id", reqID),
		)
		return err
	}
}

// RoutePath returns the matched route pattern, or "unmatched" when routing
// ended in a middleware, keeping metric labels bounded.
func RoutePath(c *fiber.Ctx) string {
	route := c.Route()
	if route == nil || route.Path == "" || (route.Path == "/" && c.Path() != "/") {
		return "unmatched"
	}
	return route.Path
}
