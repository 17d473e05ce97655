package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"go_upload_broker/bootstrap"
	"go_upload_broker/config"
	"go_upload_broker/middleware"
	"go_upload_broker/pkg/logging"
	"go_upload_broker/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	logging.Init()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logging.Logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	application, err := bootstrap.NewApp(cfg)
	if err != nil {
		logging.Logger.Error("fail NewApp", "error", err)
		os.Exit(1)
	}

	app := fiber.New()
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())
	routes.RegisterFileRoutes(app, application.Handlers.FileHandler)

	go func() {
		logging.Logger.Info("Server running", "port", cfg.HttpPort)
		if err := app.Listen(":" + cfg.HttpPort); err != nil {
			logging.Logger.Error("fail Listen", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		logging.Logger.Error("fail app.Shutdown", "error", err)
	}
	if err := application.Shutdown(); err != nil {
		logging.Logger.Error("fail infrastructure Shutdown", "error", err)
	}
}
