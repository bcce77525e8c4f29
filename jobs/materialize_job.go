package jobs

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"yoga_studio_backend/database"
	"yoga_studio_backend/models"
)

const materializeHorizonDays = 7

// MaterializeUpcomingOccurrences creates the coming week's class
// occurrences from the active templates. Safe to re-run: a template+date
// that already has an occurrence is left alone.
func MaterializeUpcomingOccurrences() {
	log.Println("Running job: MaterializeUpcomingOccurrences...")

	var templates []models.ClassTemplate
	if err := database.DB.Where("is_active = ?", true).Find(&templates).Error; err != nil {
		log.Printf("Error loading class templates: %v", err)
		return
	}

	created := 0
	for day := 0; day < materializeHorizonDays; day++ {
		date := time.Now().AddDate(0, 0, day)
		weekday := int(date.Weekday())
		dateStr := date.Format("2006-01-02")

		for _, tmpl := range templates {
			if tmpl.DayOfWeek != weekday {
				continue
			}

			var existing models.ClassOccurrence
			err := database.DB.Where("template_id = ? AND date = ?", tmpl.ID, dateStr).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Error probing occurrence for template %s on %s: %v", tmpl.ID, dateStr, err)
				continue
			}

			occ := models.ClassOccurrence{
				TemplateID:  tmpl.ID,
				ClassName:   tmpl.Name,
				Teacher:     tmpl.Teacher,
				Date:        dateStr,
				StartTime:   tmpl.StartTime,
				DurationMin: tmpl.DurationMin,
				Level:       tmpl.Level,
				MaxStudents: tmpl.MaxStudents,
			}
			if err := database.DB.Create(&occ).Error; err != nil {
				log.Printf("Error creating occurrence for template %s on %s: %v", tmpl.ID, dateStr, err)
				continue
			}
			created++
		}
	}

	if created > 0 {
		log.Printf("✅ Materialized %d upcoming class occurrence(s)", created)
	}
}
