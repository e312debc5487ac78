package healthController

import (
	"time"

	"djisr/database"
	"djisr/logger"

	"github.com/gofiber/fiber/v2"
)

var startedAt = time.Now()

// Health reports process uptime and database reachability.
func Health(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := database.Ping(); err != nil {
		logger.Warn("Health check: database unreachable", "error", err)
		dbStatus = "down"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Seconds(),
		"database":  dbStatus,
	})
}
