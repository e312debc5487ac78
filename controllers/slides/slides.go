package slidesController

import (
	"djisr/middleware"
	"djisr/services"

	"github.com/gofiber/fiber/v2"
)

// Generate passes the startup's pitch deck to the AI service and returns its
// slide structure unchanged.
func Generate(c *fiber.Ctx) error {
	slides, err := services.Slides().ForStartup(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(slides)
}
