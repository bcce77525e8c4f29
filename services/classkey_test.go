package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yoga_studio_backend/services"
)

func TestNormalizeTime12Hour_From24Hour(t *testing.T) {
	cases := map[string]string{
		"08:00":    "8:00 AM",
		"00:00":    "12:00 AM",
		"13:05":    "1:05 PM",
		"12:00":    "12:00 PM",
		"12:30":    "12:30 PM",
		"18:00":    "6:00 PM",
		"23:59":    "11:59 PM",
		"08:00:00": "8:00 AM",
		"18:00:30": "6:00 PM",
		"09:05":    "9:05 AM",
	}
	for in, want := range cases {
		assert.Equal(t, want, services.NormalizeTime12Hour(in), "input %q", in)
	}
}

func TestNormalizeTime12Hour_PassesThrough12HourForms(t *testing.T) {
	for _, in := range []string{"6:00 PM", "8:00 AM", "12:00 am", "6:00 pm"} {
		assert.Equal(t, in, services.NormalizeTime12Hour(in), "input %q", in)
	}
}

func TestDeriveClassKey_SameSlotEitherFormat(t *testing.T) {
	// The same wall-clock time must produce an identical key whether it
	// arrives as 24-hour or 12-hour text.
	pairs := [][2]string{
		{"18:00", "6:00 PM"},
		{"08:00:00", "8:00 AM"},
		{"00:00", "12:00 AM"},
		{"13:05", "1:05 PM"},
	}
	for _, pair := range pairs {
		a := services.DeriveClassKey("Vinyasa", "2025-09-08", pair[0])
		b := services.DeriveClassKey("Vinyasa", "2025-09-08", pair[1])
		assert.Equal(t, a, b, "24h %q vs 12h %q", pair[0], pair[1])
	}
}

func TestDeriveClassKey_Format(t *testing.T) {
	key := services.DeriveClassKey("Morning Flow", "2025-09-08", "08:00:00")
	assert.Equal(t, "Morning Flow-2025-09-08-8:00 AM", key)
}

func TestDeriveClassKey_Deterministic(t *testing.T) {
	first := services.DeriveClassKey("Yin Yoga", "2025-10-01", "19:30")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, services.DeriveClassKey("Yin Yoga", "2025-10-01", "19:30"))
	}
}
