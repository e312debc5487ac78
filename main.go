package main

import (
	"log"

	"djisr/config"
	"djisr/database"
	"djisr/logger"
	"djisr/routers"
)

func main() {
	config.LoadConfig()

	if err := logger.Init(logger.Config{Level: config.AppConfig.LogLevel, Format: config.AppConfig.LogFormat}); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	database.ConnectDb()

	app := routers.NewApp()

	logger.Info("Server is running", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
}
