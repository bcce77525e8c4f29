package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	config "yoga_studio_backend/configs"
	"yoga_studio_backend/database"
	"yoga_studio_backend/handlers"
	"yoga_studio_backend/jobs"
	"yoga_studio_backend/notifications"
	"yoga_studio_backend/routes"
	"yoga_studio_backend/services"
	"yoga_studio_backend/storage"
	"yoga_studio_backend/video"
	"yoga_studio_backend/websocket"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()
	video.InitVideoService()
	services.CertDB = database.DB

	snapshotPath := config.Config("STATE_SNAPSHOT_FILE")
	if snapshotPath == "" {
		snapshotPath = "data/session_state.json"
	}
	kv, err := storage.OpenFile(snapshotPath)
	if err != nil {
		log.Fatalf("🔥 Failed to open state snapshot store: %v", err)
	}
	state := services.NewSessionState(kv)

	var videoClient services.VideoClient
	if video.Client != nil {
		videoClient = video.Client
	}
	var notifier services.Notifier
	if notifications.EmailClient != nil {
		notifier = notifications.EmailClient
	}

	bookingSvc := services.NewBookingService(database.NewGormStore(database.DB), videoClient, state, notifier)
	bookingSvc.AdminEmail = config.Config("ADMIN_EMAIL")
	bookingSvc.AdminName = config.Config("ADMIN_FULL_NAME")
	handlers.InitServices(bookingSvc, state)

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.SendClassReminders)
	c.AddFunc("0 6 * * *", jobs.MaterializeUpcomingOccurrences)
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	// Seed the week's occurrences on boot so a fresh deploy has a schedule.
	go jobs.MaterializeUpcomingOccurrences()

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Yoga Studio",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the Yoga Studio API",
		})
	})

	routes.AuthRoutes(app)
	routes.ScheduleRoutes(app)
	routes.BookingRoutes(app)
	routes.PackageRoutes(app)
	routes.AccountRoutes(app)
	routes.AdminRoutes(app)
	routes.UploadRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
