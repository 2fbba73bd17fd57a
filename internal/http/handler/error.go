package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"applicantreview/internal/apperr"
	"applicantreview/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.GetRequestID(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeAppError maps an apperr kind to a status and code. Only the safe
// message of an *apperr.Error reaches the client.
func writeAppError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	msg := apperr.Message(err)

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", msg)
	case apperr.KindNotFound:
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", msg)
	case apperr.KindConflict:
		return writeError(c, fiber.StatusConflict, "CONFLICT", msg)
	case apperr.KindStorage:
		logFailure(c, logger, err)
		return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", msg)
	case apperr.KindNotification:
		logFailure(c, logger, err)
		return writeError(c, fiber.StatusBadGateway, "NOTIFICATION_ERROR", msg)
	default:
		logFailure(c, logger, err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func logFailure(c *fiber.Ctx, logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Error("request failed",
		slog.String("event", "request_failed"),
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
