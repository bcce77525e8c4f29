package models

import (
	"time"

	"github.com/google/uuid"
)

// CreditBuckets are the three independent prepaid-class counters carried on
// every account. All three stay >= 0; total bookable classes is their sum.
type CreditBuckets struct {
	SingleClasses int `gorm:"not null;default:0" json:"single_classes"`
	FivePack      int `gorm:"not null;default:0" json:"five_pack"`
	TenPack       int `gorm:"not null;default:0" json:"ten_pack"`
}

func (b CreditBuckets) Total() int {
	return b.SingleClasses + b.FivePack + b.TenPack
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`

	CreditBuckets `gorm:"embedded"`

	Phone    *string `gorm:"size:30" json:"phone"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
