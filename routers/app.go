// Package routers assembles the fiber application: shared middleware, the
// per-area route groups, health, metrics and uploaded files.
package routers

import (
	"djisr/config"
	healthController "djisr/controllers/health"
	"djisr/metrics"
	"djisr/middleware"
	"djisr/routers/authRoutes"
	"djisr/routers/dealRoutes"
	"djisr/routers/investorRoutes"
	"djisr/routers/slidesRoutes"
	"djisr/routers/startupRoutes"
	"djisr/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the application from config.AppConfig.
func NewApp() *fiber.App {
	cfg := config.AppConfig

	app := fiber.New(fiber.Config{
		AppName:      "djisr",
		BodyLimit:    int(cfg.MaxUploadBytes)*4 + 1<<20,
		ErrorHandler: middleware.ErrorHandler,

		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Use(metrics.Middleware())

	app.Get("/health", healthController.Health)
	app.Get("/metrics", metrics.Handler())

	// Serve uploaded documents
	app.Static(utils.PublicPrefix, cfg.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	dealRoutes.SetupDealRoutes(app)
	investorRoutes.SetupInvestorRoutes(app)
	startupRoutes.SetupStartupRoutes(app)
	slidesRoutes.SetupSlidesRoutes(app)

	return app
}
