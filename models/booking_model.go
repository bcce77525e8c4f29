package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking joins a user to a class occurrence. Class details are denormalized
// so the record survives template edits, and ClassKey holds the derived
// name-date-time key bookings have always been matched by.
type Booking struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID `gorm:"not null;index" json:"user_id"`
	OccurrenceID uuid.UUID `gorm:"not null;index" json:"occurrence_id"`

	ClassKey  string `gorm:"size:400;not null;index" json:"class_key"`
	ClassName string `gorm:"size:255;not null" json:"class_name"`
	Teacher   string `gorm:"size:255;not null" json:"teacher"`
	Date      string `gorm:"size:10;not null" json:"date"`
	StartTime string `gorm:"size:20;not null" json:"start_time"` // 12-hour, e.g. "8:00 AM"

	MeetingID        string `gorm:"size:255" json:"meeting_id"`
	MeetingPasscode  string `gorm:"size:255" json:"meeting_passcode"`
	JoinURL          string `gorm:"size:255" json:"join_url"`
	ConfirmationCode string `gorm:"size:10;unique" json:"confirmation_code"`

	Cancelled   bool       `gorm:"default:false" json:"cancelled"`
	BookedAt    time.Time  `gorm:"not null" json:"booked_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	User       User            `gorm:"foreignkey:UserID" json:"user,omitempty"`
	Occurrence ClassOccurrence `gorm:"foreignkey:OccurrenceID" json:"occurrence,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
