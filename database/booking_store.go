package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoga_studio_backend/models"
	"yoga_studio_backend/services"
)

// GormStore is the Postgres-backed implementation of services.BookingStore.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateBooking(b *models.Booking) error {
	return s.db.Create(b).Error
}

// CancelBookingByKey flags the user's active booking matching the derived
// class key. Bookings have always been addressed this way for cancellation,
// not by their row id.
func (s *GormStore) CancelBookingByKey(userID uuid.UUID, classKey string) error {
	now := time.Now()
	result := s.db.Model(&models.Booking{}).
		Where("user_id = ? AND class_key = ? AND cancelled = ?", userID, classKey, false).
		Updates(map[string]any{"cancelled": true, "cancelled_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) SaveBuckets(userID uuid.UUID, b models.CreditBuckets) error {
	return services.SaveBucketsLocked(s.db, userID, b)
}

func (s *GormStore) RecordPayment(p *models.Payment) error {
	return s.db.Create(p).Error
}
