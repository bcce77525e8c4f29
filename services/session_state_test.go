package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga_studio_backend/models"
	"yoga_studio_backend/services"
	"yoga_studio_backend/storage"
)

const testEmail = "student@example.com"

func testBooking(className, date, startTime24 string) models.Booking {
	return models.Booking{
		ID:        uuid.New(),
		ClassKey:  services.DeriveClassKey(className, date, startTime24),
		ClassName: className,
		Date:      date,
		StartTime: services.NormalizeTime12Hour(startTime24),
		BookedAt:  time.Now(),
	}
}

func TestSessionState_IsBooked(t *testing.T) {
	state := services.NewSessionState(storage.NewMemory())

	occ := models.ClassOccurrence{
		ID:        uuid.New(),
		ClassName: "Morning Flow",
		Date:      "2025-09-08",
		StartTime: "08:00",
	}
	visible := []models.ClassOccurrence{occ}

	assert.False(t, state.IsBooked(testEmail, occ.ID, visible), "nothing booked yet")

	state.AddBooking(testEmail, testBooking("Morning Flow", "2025-09-08", "08:00"))
	assert.True(t, state.IsBooked(testEmail, occ.ID, visible))
}

func TestSessionState_IsBooked_UnknownOccurrenceFailsOpen(t *testing.T) {
	// An id that resolves to no loaded occurrence answers "not booked" so a
	// fresh booking attempt is never blocked by a slow schedule load.
	state := services.NewSessionState(storage.NewMemory())
	state.AddBooking(testEmail, testBooking("Morning Flow", "2025-09-08", "08:00"))

	assert.False(t, state.IsBooked(testEmail, uuid.New(), nil))
}

func TestSessionState_RemoveBooking(t *testing.T) {
	state := services.NewSessionState(storage.NewMemory())
	booking := testBooking("Yin Yoga", "2025-10-01", "19:30")
	state.AddBooking(testEmail, booking)

	removed, ok := state.RemoveBooking(testEmail, booking.ClassKey)
	require.True(t, ok)
	assert.Equal(t, booking.ID, removed.ID)

	_, ok = state.RemoveBooking(testEmail, booking.ClassKey)
	assert.False(t, ok, "second removal finds nothing")
}

func TestSessionState_SurvivesRestart(t *testing.T) {
	kv := storage.NewMemory()

	state := services.NewSessionState(kv)
	booking := testBooking("Morning Flow", "2025-09-08", "08:00")
	state.AddBooking(testEmail, booking)
	state.SetBuckets(testEmail, models.CreditBuckets{FivePack: 4})

	// A new state over the same snapshot store sees everything back.
	restored := services.NewSessionState(kv)
	got, ok := restored.Booking(testEmail, booking.ClassKey)
	require.True(t, ok)
	assert.Equal(t, booking.ClassName, got.ClassName)
	assert.Equal(t, models.CreditBuckets{FivePack: 4}, restored.Buckets(testEmail))
}

func TestSessionState_EnsureUserDoesNotClobber(t *testing.T) {
	state := services.NewSessionState(storage.NewMemory())
	state.SetBuckets(testEmail, models.CreditBuckets{SingleClasses: 2})

	state.EnsureUser(testEmail, models.CreditBuckets{TenPack: 10})
	assert.Equal(t, models.CreditBuckets{SingleClasses: 2}, state.Buckets(testEmail),
		"restored local state wins over the datastore read")

	state.EnsureUser("new@example.com", models.CreditBuckets{TenPack: 10})
	assert.Equal(t, models.CreditBuckets{TenPack: 10}, state.Buckets("new@example.com"))
}
