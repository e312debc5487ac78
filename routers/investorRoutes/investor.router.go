package investorRoutes

import (
	investorControllers "djisr/controllers/investor"
	"djisr/middleware"
	"djisr/models"
	dealValidators "djisr/validators/deal"
	investorValidators "djisr/validators/investor"

	"github.com/gofiber/fiber/v2"
)

func SetupInvestorRoutes(app *fiber.App) {
	investorGroup := app.Group("/investor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInvestor))

	investorGroup.Put("/profile", investorValidators.UpdateProfile(), investorControllers.UpdateProfile)
	investorGroup.Post("/opportunity", investorValidators.CreateOpportunity(), investorControllers.CreateOpportunity)
	investorGroup.Get("/portfolio", investorControllers.Portfolio)
	investorGroup.Post("/make-offer", dealValidators.MakeOffer(), investorControllers.MakeOffer)
}
