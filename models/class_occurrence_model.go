package models

import (
	"time"

	"github.com/google/uuid"
)

// ClassOccurrence is one dated sitting of a ClassTemplate. Name, teacher,
// time and level are copied at creation so later template edits do not
// rewrite history.
type ClassOccurrence struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TemplateID uuid.UUID `gorm:"not null;index" json:"template_id"`

	ClassName   string `gorm:"size:255;not null" json:"class_name"`
	Teacher     string `gorm:"size:255;not null" json:"teacher"`
	Date        string `gorm:"size:10;not null;index:idx_occurrence_slot" json:"date"` // "YYYY-MM-DD"
	StartTime   string `gorm:"size:8;not null;index:idx_occurrence_slot" json:"start_time"` // 24-hour "HH:MM"
	DurationMin int    `gorm:"not null;default:60" json:"duration_min"`
	Level       string `gorm:"size:50" json:"level"`
	MaxStudents int    `gorm:"not null;default:20" json:"max_students"`

	MeetingID       *string `gorm:"size:255" json:"meeting_id"`
	MeetingPasscode *string `gorm:"size:255" json:"-"`
	JoinURL         *string `gorm:"size:255" json:"join_url"`

	Cancelled bool `gorm:"default:false" json:"cancelled"`

	Template ClassTemplate `gorm:"foreignkey:TemplateID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
