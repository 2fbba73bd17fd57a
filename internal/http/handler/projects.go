package handler

import (
	"github.com/gofiber/fiber/v2"

	"applicantreview/internal/catalog"
)

// ListProjects returns the project catalog in its fixed order.
//
//	@Summary	List projects applicants may apply for
//	@Tags		projects
//	@Produce	json
//	@Success	200	{array}	string
//	@Router		/api/projects [get]
func ListProjects() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(catalog.Projects())
	}
}
