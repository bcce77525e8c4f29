package routes

import (
	"github.com/gofiber/fiber/v2"

	"yoga_studio_backend/handlers"
	"yoga_studio_backend/middleware"
)

func AccountRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	account := api.Group("/account", middleware.Protected())
	account.Get("/me", handlers.GetMe)
	account.Get("/credits", handlers.GetMyCredits)
}
