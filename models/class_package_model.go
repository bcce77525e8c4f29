package models

import (
	"time"

	"github.com/google/uuid"
)

// Package kinds map one-to-one onto the credit bucket they fill.
const (
	PackageSingle = "single"
	PackageFive   = "five"
	PackageTen    = "ten"
)

type ClassPackage struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Kind     string    `gorm:"size:10;not null" json:"kind"` // single | five | ten
	Credits  int       `gorm:"not null" json:"credits"`
	Price    float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Currency string    `gorm:"size:3;default:'USD'" json:"currency"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
