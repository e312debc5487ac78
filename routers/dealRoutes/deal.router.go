package dealRoutes

import (
	dealControllers "djisr/controllers/deal"
	investorControllers "djisr/controllers/investor"
	"djisr/middleware"
	"djisr/models"
	dealValidators "djisr/validators/deal"

	"github.com/gofiber/fiber/v2"
)

func SetupDealRoutes(app *fiber.App) {
	dealGroup := app.Group("/deals")

	dealGroup.Get("/feed", dealControllers.Feed)
	dealGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRole(models.RoleStartup), dealValidators.CreateDeal(), dealControllers.CreateDeal)
	dealGroup.Post("/offer", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInvestor), dealValidators.MakeOffer(), investorControllers.MakeOffer)
}
