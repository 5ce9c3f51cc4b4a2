package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger writes one access log line per request: Error for 5xx, Warn
// for 4xx and Debug otherwise.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	logger = logger.WithOptions(zap.AddCallerSkip(1))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			latency := time.Since(start)
			statusCode := c.Response().Status

			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("code", statusCode),
				zap.Duration("latency", latency),
			}
			if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
				fields = append(fields, zap.String("requestId", id))
			}

			switch {
			case statusCode >= http.StatusInternalServerError:
				logger.Error(http.StatusText(statusCode), fields...)
			case statusCode >= http.StatusBadRequest:
				logger.Warn(http.StatusText(statusCode), fields...)
			default:
				logger.Debug(http.StatusText(statusCode), fields...)
			}
			return nil
		}
	}
}
