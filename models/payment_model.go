package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"not null;index" json:"user_id"`
	PackageID *uuid.UUID `json:"package_id"`

	Amount   float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency string  `gorm:"size:3;default:'USD'" json:"currency"`
	Provider string  `gorm:"size:20;not null" json:"provider"` // card | cash | comp
	Status   string  `gorm:"size:20;not null;default:'succeeded'" json:"status"`

	User    User          `gorm:"foreignkey:UserID" json:"-"`
	Package *ClassPackage `gorm:"foreignkey:PackageID" json:"package,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
