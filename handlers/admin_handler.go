package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoga_studio_backend/database"
	"yoga_studio_backend/models"
	"yoga_studio_backend/services"
)

type ClassTemplateRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Teacher     string `json:"teacher" validate:"required"`
	DayOfWeek   *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	DurationMin int    `json:"duration_min" validate:"required,gt=0"`
	Level       string `json:"level"`
	MaxStudents int    `json:"max_students" validate:"required,gt=0"`
}

func CreateClassTemplate(c *fiber.Ctx) error {
	var req ClassTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tmpl := models.ClassTemplate{
		Name:        req.Name,
		Teacher:     req.Teacher,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
		Level:       req.Level,
		MaxStudents: req.MaxStudents,
	}
	if err := database.DB.Create(&tmpl).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create class template"})
	}
	return c.Status(fiber.StatusCreated).JSON(tmpl)
}

func ListClassTemplates(c *fiber.Ctx) error {
	var templates []models.ClassTemplate
	database.DB.Order("day_of_week asc, start_time asc").Find(&templates)
	return c.JSON(templates)
}

func UpdateClassTemplate(c *fiber.Ctx) error {
	tmplID := c.Params("templateId")
	var tmpl models.ClassTemplate
	if err := database.DB.First(&tmpl, "id = ?", tmplID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class template not found"})
	}

	var req ClassTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tmpl.Name = req.Name
	tmpl.Teacher = req.Teacher
	tmpl.DayOfWeek = *req.DayOfWeek
	tmpl.StartTime = req.StartTime
	tmpl.DurationMin = req.DurationMin
	tmpl.Level = req.Level
	tmpl.MaxStudents = req.MaxStudents
	database.DB.Save(&tmpl)

	return c.JSON(tmpl)
}

func ToggleClassTemplate(c *fiber.Ctx) error {
	tmplID := c.Params("templateId")
	type Request struct {
		IsActive bool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	result := database.DB.Model(&models.ClassTemplate{}).Where("id = ?", tmplID).Update("is_active", req.IsActive)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update template status"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class template not found"})
	}
	return c.JSON(fiber.Map{"message": "Template status updated successfully."})
}

// DeleteClassTemplate refuses while any occurrence still references the
// template.
func DeleteClassTemplate(c *fiber.Ctx) error {
	tmplID, err := uuid.Parse(c.Params("templateId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID format"})
	}

	var occurrenceCount int64
	database.DB.Model(&models.ClassOccurrence{}).Where("template_id = ?", tmplID).Count(&occurrenceCount)
	if occurrenceCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":            "Cannot delete a template that still has scheduled classes",
			"occurrence_count": occurrenceCount,
		})
	}

	result := database.DB.Delete(&models.ClassTemplate{}, "id = ?", tmplID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete template"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class template not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type CreateOccurrenceRequest struct {
	TemplateID string `json:"template_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
}

// CreateOccurrence materializes one dated sitting of a template,
// denormalizing the class details at creation time. Creating the same
// template+date twice returns the existing occurrence.
func CreateOccurrence(c *fiber.Ctx) error {
	var req CreateOccurrenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tmplID := uuid.MustParse(req.TemplateID)
	var tmpl models.ClassTemplate
	if err := database.DB.First(&tmpl, "id = ?", tmplID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class template not found"})
	}

	var occ models.ClassOccurrence
	err := database.DB.Where("template_id = ? AND date = ?", tmplID, req.Date).First(&occ).Error
	if err == nil {
		return c.JSON(occ)
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	occ = models.ClassOccurrence{
		TemplateID:  tmpl.ID,
		ClassName:   tmpl.Name,
		Teacher:     tmpl.Teacher,
		Date:        req.Date,
		StartTime:   tmpl.StartTime,
		DurationMin: tmpl.DurationMin,
		Level:       tmpl.Level,
		MaxStudents: tmpl.MaxStudents,
	}
	if err := database.DB.Create(&occ).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create class occurrence"})
	}
	return c.Status(fiber.StatusCreated).JSON(occ)
}

func CancelOccurrence(c *fiber.Ctx) error {
	occID := c.Params("occurrenceId")
	result := database.DB.Model(&models.ClassOccurrence{}).Where("id = ?", occID).Update("cancelled", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel occurrence"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class occurrence not found"})
	}
	return c.JSON(fiber.Map{"message": "Class occurrence cancelled."})
}

// DeleteOccurrence purges cancelled bookings referencing the occurrence
// first, then hard-stops if any active bookings remain, reporting how many
// are blocking the delete.
func DeleteOccurrence(c *fiber.Ctx) error {
	occID, err := uuid.Parse(c.Params("occurrenceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid occurrence ID format"})
	}

	if err := database.DB.Where("occurrence_id = ? AND cancelled = ?", occID, true).
		Delete(&models.Booking{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to purge cancelled bookings"})
	}

	var activeCount int64
	database.DB.Model(&models.Booking{}).
		Where("occurrence_id = ? AND cancelled = ?", occID, false).
		Count(&activeCount)
	if activeCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":         "Cannot delete a class with active bookings",
			"booking_count": activeCount,
		})
	}

	result := database.DB.Delete(&models.ClassOccurrence{}, "id = ?", occID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete occurrence"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class occurrence not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func AdminListBookings(c *fiber.Ctx) error {
	var bookings []models.Booking
	database.DB.Preload("User").Order("date desc, created_at desc").Find(&bookings)
	return c.JSON(bookings)
}

func AdminListUsers(c *fiber.Ctx) error {
	var users []models.User
	database.DB.Order("created_at desc").Find(&users)
	return c.JSON(users)
}

type AdjustCreditsRequest struct {
	SingleClasses *int `json:"single_classes" validate:"required,min=0"`
	FivePack      *int `json:"five_pack" validate:"required,min=0"`
	TenPack       *int `json:"ten_pack" validate:"required,min=0"`
}

// AdminAdjustCredits sets a user's buckets outright, e.g. to comp a class
// or fix a support case. Session state is updated in the same stroke so the
// user sees the change immediately.
func AdminAdjustCredits(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	var req AdjustCreditsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	buckets := models.CreditBuckets{
		SingleClasses: *req.SingleClasses,
		FivePack:      *req.FivePack,
		TenPack:       *req.TenPack,
	}
	if err := services.SaveBucketsLocked(database.DB, user.ID, buckets); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update credits"})
	}
	State.SetBuckets(user.Email, buckets)

	return c.JSON(fiber.Map{"message": "Credits updated successfully.", "credits": buckets})
}
