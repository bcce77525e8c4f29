package services

import (
	"fmt"
	"strconv"
	"strings"
)

// DeriveClassKey builds the key bookings are matched by: the class name, the
// ISO date and the 12-hour start time joined with hyphens. The same logical
// slot always yields the same key no matter which time format the caller had
// in hand. Names or dates containing hyphens are not escaped; that collision
// window is a known limitation, which is why occurrences also carry a uuid.
func DeriveClassKey(className, isoDate, startTime string) string {
	return className + "-" + isoDate + "-" + NormalizeTime12Hour(startTime)
}

// NormalizeTime12Hour returns the 12-hour rendering of a start time. A value
// already carrying an AM/PM marker is trusted as-is; anything else is parsed
// as 24-hour "HH:MM" or "HH:MM:SS" and reformatted with no leading zero on
// the hour and exactly two digits on the minute: "08:00" -> "8:00 AM",
// "00:00" -> "12:00 AM", "13:05" -> "1:05 PM".
func NormalizeTime12Hour(t string) string {
	upper := strings.ToUpper(t)
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		return t
	}

	parts := strings.Split(strings.TrimSpace(t), ":")
	hour, _ := strconv.Atoi(parts[0])
	minute := 0
	if len(parts) > 1 {
		minute, _ = strconv.Atoi(parts[1])
	}

	suffix := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		hour -= 12
		suffix = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}
