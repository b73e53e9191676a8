package middleware

import (
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Logger emits one structured line per request. Health and metrics endpoints
// are skipped so delivery traffic stays readable in the logs.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if strings.HasPrefix(route, "/api/v1/health") || route == "/metrics" {
				return nil
			}

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
				if id == "" {
					id = uuid.New().String()
				}
			}

			logger.WithContext(req.Context()).WithFields(map[string]interface{}{
				"request_id": id,
				"method":     req.Method,
				"route":      route,
				"uri":        req.RequestURI,
				"status":     res.Status,
				"remote_ip":  c.RealIP(),
				"user_agent": req.UserAgent(),
				"latency_ms": time.Since(start).Milliseconds(),
				"bytes_out":  res.Size,
			}).Info("Request")

			return nil
		}
	}
}
