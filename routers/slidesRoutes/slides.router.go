package slidesRoutes

import (
	slidesControllers "djisr/controllers/slides"
	"djisr/middleware"
	"djisr/models"

	"github.com/gofiber/fiber/v2"
)

func SetupSlidesRoutes(app *fiber.App) {
	slidesGroup := app.Group("/slides", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStartup))

	slidesGroup.Get("/generate", slidesControllers.Generate)
}
