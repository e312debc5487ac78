package authRoutes

import (
	authControllers "djisr/controllers/auth"
	"djisr/middleware"
	authValidators "djisr/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup/startup", authValidators.StartupSignup(), authControllers.SignupStartup)
	authGroup.Post("/signup/investor", authValidators.InvestorSignup(), authControllers.SignupInvestor)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authValidators.LoginHistoryList(), authControllers.LoginHistoryList)
}
