package routes

import (
	"github.com/gofiber/fiber/v2"

	"go_upload_broker/handlers"
)

func RegisterFileRoutes(app *fiber.App, handler *handlers.FileHandler) {
	files := app.Group("api/files")
	files.Post("/upload", handler.RequestUpload)
	files.Post("/download", handler.Download)
	files.Post("/confirm", handler.ConfirmUpload)
}
