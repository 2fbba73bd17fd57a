package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"applicantreview/internal/logging"
)

// Logger logs each HTTP request as one JSON line with request_id, method,
// path, status and latency in milliseconds.
func Logger(logger *slog.Logger) fiber.Handler {
	logger = logging.Component(logger, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := responseStatus(c, err)
		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}

		logger.LogAttrs(c.UserContext(), level, "request",
			slog.String("event", "http_request"),
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		)

		return err
	}
}

// responseStatus is the status the client will see once the error handler ran.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
