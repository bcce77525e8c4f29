package routes

import (
	"github.com/gofiber/fiber/v2"

	"yoga_studio_backend/handlers"
	"yoga_studio_backend/middleware"
)

func BookingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings", middleware.Protected())
	booking.Get("/me", handlers.GetMyBookings)
	booking.Get("/is-booked/:occurrenceId", handlers.IsBooked)
	booking.Post("", handlers.CreateBooking)
	booking.Post("/cancel", handlers.CancelBooking)
}
