package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"yoga_studio_backend/handlers"
	"yoga_studio_backend/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/templates", handlers.ListClassTemplates)
	admin.Post("/templates", handlers.CreateClassTemplate)
	admin.Put("/templates/:templateId", handlers.UpdateClassTemplate)
	admin.Put("/templates/:templateId/status", handlers.ToggleClassTemplate)
	admin.Delete("/templates/:templateId", handlers.DeleteClassTemplate)

	admin.Post("/occurrences", handlers.CreateOccurrence)
	admin.Put("/occurrences/:occurrenceId/cancel", handlers.CancelOccurrence)
	admin.Delete("/occurrences/:occurrenceId", handlers.DeleteOccurrence)

	admin.Get("/bookings", handlers.AdminListBookings)
	admin.Get("/users", handlers.AdminListUsers)
	admin.Put("/users/:userId/credits", handlers.AdminAdjustCredits)

	// Live booking feed; JWT rides in the token query param (see FeedUpgrade).
	api.Get("/admin/feed", handlers.FeedUpgrade, websocket.New(handlers.AdminFeed))
}
