package models

import (
	"time"

	"github.com/google/uuid"
)

// ClassTemplate is a recurring weekly offering. Occurrences reference it, so
// a template cannot be deleted while any occurrence still points at it.
type ClassTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Teacher     string    `gorm:"size:255;not null" json:"teacher"`
	DayOfWeek   int       `gorm:"not null" json:"day_of_week"` // 0 = Sunday .. 6 = Saturday
	StartTime   string    `gorm:"size:8;not null" json:"start_time"` // 24-hour "HH:MM"
	DurationMin int       `gorm:"not null;default:60" json:"duration_min"`
	Level       string    `gorm:"size:50" json:"level"`
	MaxStudents int       `gorm:"not null;default:20" json:"max_students"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
