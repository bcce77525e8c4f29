package routes

import (
	"github.com/gofiber/fiber/v2"

	"yoga_studio_backend/handlers"
)

func ScheduleRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/schedule", handlers.GetSchedule)
	api.Get("/schedule/:occurrenceId", handlers.GetOccurrence)
}
