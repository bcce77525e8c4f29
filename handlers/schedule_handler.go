package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"yoga_studio_backend/database"
	"yoga_studio_backend/models"
)

// ScheduleEntry is one slot on the public schedule. Synthesized entries are
// projected from active templates for dates the admin has not materialized
// yet; they have no occurrence id until someone books them.
type ScheduleEntry struct {
	models.ClassOccurrence
	Synthesized bool `json:"synthesized"`
}

const isoDate = "2006-01-02"

// GetSchedule lists the visible schedule for a date range (default: the
// coming week). Admin-created occurrences win; for each date a template with
// a matching weekday and no occurrence contributes a synthesized entry.
func GetSchedule(c *fiber.Ctx) error {
	start := c.Query("start", time.Now().Format(isoDate))
	end := c.Query("end", time.Now().AddDate(0, 0, 6).Format(isoDate))

	startDay, err := time.Parse(isoDate, start)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start date, expected YYYY-MM-DD"})
	}
	endDay, err := time.Parse(isoDate, end)
	if err != nil || endDay.Before(startDay) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end date, expected YYYY-MM-DD on or after start"})
	}

	var occurrences []models.ClassOccurrence
	if err := database.DB.
		Where("date BETWEEN ? AND ? AND cancelled = ?", start, end, false).
		Order("date asc, start_time asc").
		Find(&occurrences).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var templates []models.ClassTemplate
	database.DB.Where("is_active = ?", true).Find(&templates)

	materialized := make(map[string]bool) // templateID+date
	entries := make([]ScheduleEntry, 0, len(occurrences))
	for _, occ := range occurrences {
		materialized[occ.TemplateID.String()+occ.Date] = true
		entries = append(entries, ScheduleEntry{ClassOccurrence: occ})
	}

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		weekday := int(day.Weekday())
		date := day.Format(isoDate)
		for _, tmpl := range templates {
			if tmpl.DayOfWeek != weekday || materialized[tmpl.ID.String()+date] {
				continue
			}
			entries = append(entries, ScheduleEntry{
				ClassOccurrence: models.ClassOccurrence{
					TemplateID:  tmpl.ID,
					ClassName:   tmpl.Name,
					Teacher:     tmpl.Teacher,
					Date:        date,
					StartTime:   tmpl.StartTime,
					DurationMin: tmpl.DurationMin,
					Level:       tmpl.Level,
					MaxStudents: tmpl.MaxStudents,
				},
				Synthesized: true,
			})
		}
	}

	return c.JSON(fiber.Map{"start": start, "end": end, "classes": entries})
}

func GetOccurrence(c *fiber.Ctx) error {
	occID, err := uuid.Parse(c.Params("occurrenceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid occurrence ID format"})
	}

	var occ models.ClassOccurrence
	if err := database.DB.First(&occ, "id = ?", occID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Class not found"})
	}
	return c.JSON(occ)
}
