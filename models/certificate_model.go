package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate records a practice milestone (e.g. ten classes attended).
type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"not null;index" json:"user_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	CompletionDate time.Time `gorm:"not null" json:"completion_date"`
	CertificateURL string    `gorm:"size:512;not null" json:"certificate_url"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
