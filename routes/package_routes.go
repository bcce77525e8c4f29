package routes

import (
	"github.com/gofiber/fiber/v2"

	"yoga_studio_backend/handlers"
	"yoga_studio_backend/middleware"
)

func PackageRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	api.Get("/packages", handlers.ListActivePackages)

	studentPackages := api.Group("/packages", middleware.Protected())
	studentPackages.Post("/:packageId/purchase", handlers.PurchasePackage)

	adminPackages := api.Group("/admin/packages", middleware.Protected(), middleware.AdminRequired())
	adminPackages.Get("", handlers.AdminListPackages)
	adminPackages.Post("", handlers.CreatePackage)
	adminPackages.Put("/:packageId", handlers.UpdatePackage)
	adminPackages.Put("/:packageId/status", handlers.TogglePackageStatus)
}
