package routes

import (
	"github.com/gofiber/fiber/v2"

	"yoga_studio_backend/handlers"
	"yoga_studio_backend/middleware"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	upload := api.Group("/uploads", middleware.Protected(), middleware.AdminRequired())
	upload.Get("/signature", handlers.GenerateUploadSignature)
}
