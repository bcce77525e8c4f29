package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoga_studio_backend/database"
	"yoga_studio_backend/models"
	"yoga_studio_backend/services"
	"yoga_studio_backend/websocket"
)

// Package-level collaborators wired once from main.
var (
	Bookings *services.BookingService
	State    *services.SessionState
)

func InitServices(svc *services.BookingService, state *services.SessionState) {
	Bookings = svc
	State = state
}

type CreateBookingRequest struct {
	OccurrenceID string `json:"occurrence_id,omitempty" validate:"omitempty,uuid"`

	// Fallback identity for occurrences the admin never materialized; the
	// slot is created on the fly from these.
	ClassName   string `json:"class_name,omitempty"`
	Teacher     string `json:"teacher,omitempty"`
	Date        string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string `json:"start_time,omitempty"`
	DurationMin int    `json:"duration_min,omitempty"`
	Level       string `json:"level,omitempty"`
}

// resolveOccurrence finds the occurrence being booked: by id when one is
// supplied and known, otherwise get-or-create from the denormalized slot
// fields. An unknown id with no fields is a 404 for the caller.
func resolveOccurrence(req CreateBookingRequest) (*models.ClassOccurrence, error) {
	if req.OccurrenceID != "" {
		occID, err := uuid.Parse(req.OccurrenceID)
		if err == nil {
			var occ models.ClassOccurrence
			if err := database.DB.First(&occ, "id = ?", occID).Error; err == nil {
				return &occ, nil
			}
		}
	}

	if req.ClassName == "" || req.Date == "" || req.StartTime == "" {
		return nil, errors.New("class not found")
	}

	var occ models.ClassOccurrence
	err := database.DB.
		Where("class_name = ? AND date = ? AND start_time = ? AND cancelled = ?",
			req.ClassName, req.Date, req.StartTime, false).
		First(&occ).Error
	if err == nil {
		return &occ, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Lazily materialize the slot, linking it back to a template when one
	// matches by name.
	occ = models.ClassOccurrence{
		ClassName:   req.ClassName,
		Teacher:     req.Teacher,
		Date:        req.Date,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
		Level:       req.Level,
	}
	if occ.DurationMin == 0 {
		occ.DurationMin = 60
	}
	var tmpl models.ClassTemplate
	if err := database.DB.Where("name = ?", req.ClassName).First(&tmpl).Error; err == nil {
		occ.TemplateID = tmpl.ID
		occ.MaxStudents = tmpl.MaxStudents
		if occ.Teacher == "" {
			occ.Teacher = tmpl.Teacher
		}
		if occ.Level == "" {
			occ.Level = tmpl.Level
		}
	}
	if err := database.DB.Create(&occ).Error; err != nil {
		return nil, err
	}
	return &occ, nil
}

func CreateBooking(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	occ, err := resolveOccurrence(req)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}
	if occ.Cancelled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This class has been cancelled"})
	}

	var visible []models.ClassOccurrence
	database.DB.Where("date = ?", occ.Date).Find(&visible)

	booking, steps, err := Bookings.Book(user, *occ, visible)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyBooked):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already booked this class."})
		case errors.Is(err, services.ErrNoClassesRemaining):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No classes remaining. Please purchase a class package to book."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	websocket.BroadcastBooking("booking.created", booking, user.FullName)
	go services.CheckAndGenerateCertificate(*user)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Booked! A confirmation email with your join link is on its way.",
		"booking": booking,
		"steps":   steps,
	})
}

type CancelBookingRequest struct {
	ClassKey string `json:"class_key,omitempty"`

	ClassName string `json:"class_name,omitempty"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"start_time,omitempty"`
}

func CancelBooking(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	classKey := req.ClassKey
	if classKey == "" {
		if req.ClassName == "" || req.Date == "" || req.StartTime == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "class_key or class name, date and start time are required"})
		}
		classKey = services.DeriveClassKey(req.ClassName, req.Date, req.StartTime)
	}

	booking, steps, err := Bookings.Cancel(user, classKey)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	websocket.BroadcastBooking("booking.cancelled", booking, user.FullName)

	return c.JSON(fiber.Map{
		"message": "Your booking has been cancelled and one class credit returned.",
		"booking": booking,
		"steps":   steps,
	})
}

// GetMyBookings answers from session state, the same source of truth the
// booking flow updates. Bookings made while the datastore was down still
// show up here.
func GetMyBookings(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"bookings": State.Bookings(user.Email),
		"credits":  State.Buckets(user.Email),
	})
}

func IsBooked(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	occID, err := uuid.Parse(c.Params("occurrenceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid occurrence ID format"})
	}

	var occ models.ClassOccurrence
	var visible []models.ClassOccurrence
	if err := database.DB.First(&occ, "id = ?", occID).Error; err == nil {
		database.DB.Where("date = ?", occ.Date).Find(&visible)
	}

	return c.JSON(fiber.Map{"booked": State.IsBooked(user.Email, occID, visible)})
}
