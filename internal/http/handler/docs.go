package handler

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"applicantreview/docs"
)

// swaggerMu guards docs.SwaggerInfo.
var swaggerMu sync.Mutex

// SwaggerDocs serves Swagger UI and doc.json under /swagger/*, with the document's
// host and scheme taken from the request. fallbackHost is used when the request
// has no Host header.
func SwaggerDocs(fallbackHost string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		host := docHost(c.Get(fiber.HeaderHost), fallbackHost)

		swaggerMu.Lock()
		defer swaggerMu.Unlock()
		docs.SwaggerInfo.Host = host
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}

func docHost(requestHost, fallback string) string {
	if h := strings.TrimSpace(requestHost); h != "" {
		return h
	}
	return fallback
}
