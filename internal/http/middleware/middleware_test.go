package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicantreview/internal/logging"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})

	t.Run("should replace oversized request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))

		resp, _ := app.Test(req)

		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		assert.Less(t, len(rid), 200)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	loc := time.UTC

	app.Use(RequestID())
	app.Use(Logger(logging.New(&buf, loc)))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
	assert.Equal(t, "info", logData["level"])
	assert.Equal(t, "http", logData["component"])
}

func TestLogger_ErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(Logger(logging.New(&buf, time.UTC)))

	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/boom", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusServiceUnavailable), logData["status"])
	assert.Equal(t, "error", logData["level"])
}

func TestAdminToken(t *testing.T) {
	newApp := func(token string) *fiber.App {
		app := fiber.New()
		app.Use(RequestID())
		app.Post("/admin", AdminToken(token), func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		return app
	}

	t.Run("disabled when token is empty", func(t *testing.T) {
		resp, _ := newApp("").Test(httptest.NewRequest("POST", "/admin", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("rejects missing or wrong token", func(t *testing.T) {
		app := newApp("s3cret")
		for _, header := range []string{"", "Bearer nope", "s3cret", "Basic s3cret"} {
			req := httptest.NewRequest("POST", "/admin", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, _ := app.Test(req)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, header)

			body, _ := io.ReadAll(resp.Body)
			var payload struct {
				RequestID string `json:"request_id"`
				Error     struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "UNAUTHORIZED", payload.Error.Code)
			assert.NotEmpty(t, payload.RequestID)
		}
	})

	t.Run("accepts bearer token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/admin", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		resp, _ := newApp("s3cret").Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
