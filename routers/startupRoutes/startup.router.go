package startupRoutes

import (
	startupControllers "djisr/controllers/startup"
	"djisr/middleware"
	"djisr/models"
	dealValidators "djisr/validators/deal"
	startupValidators "djisr/validators/startup"

	"github.com/gofiber/fiber/v2"
)

func SetupStartupRoutes(app *fiber.App) {
	startupGroup := app.Group("/startup", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStartup))

	startupGroup.Put("/profile", startupValidators.UpdateProfile(), startupControllers.UpdateProfile)
	startupGroup.Post("/financials", startupValidators.AddFinancials(), startupControllers.AddFinancials)
	startupGroup.Get("/dashboard", startupControllers.Dashboard)
	startupGroup.Post("/offer-respond", dealValidators.RespondToOffer(), startupControllers.RespondToOffer)
	startupGroup.Post("/respond", dealValidators.RespondToOffer(), startupControllers.RespondToOffer)
}
