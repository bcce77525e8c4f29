package jobs

import (
	"fmt"
	"log"
	"time"

	"yoga_studio_backend/database"
	"yoga_studio_backend/models"
	"yoga_studio_backend/notifications"
)

// SendClassReminders emails everyone booked into a class starting roughly
// an hour from now. The job runs every five minutes, so the window is five
// minutes wide to avoid double sends.
func SendClassReminders() {
	log.Println("Running job: SendClassReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var occurrences []models.ClassOccurrence
	err := database.DB.
		Where("date = ? AND cancelled = ?", now.Format("2006-01-02"), false).
		Find(&occurrences).Error
	if err != nil {
		log.Printf("Error checking for upcoming classes: %v", err)
		return
	}

	for _, occ := range occurrences {
		start, err := time.ParseInLocation("2006-01-02 15:04", occ.Date+" "+occ.StartTime, time.Local)
		if err != nil {
			log.Printf("Skipping occurrence %s with unparseable start time %q", occ.ID, occ.StartTime)
			continue
		}
		if start.Before(lowerBound) || !start.Before(upperBound) {
			continue
		}

		var bookings []models.Booking
		database.DB.
			Preload("User").
			Where("occurrence_id = ? AND cancelled = ?", occ.ID, false).
			Find(&bookings)

		for _, booking := range bookings {
			log.Printf("Sending reminder for booking ID: %s", booking.ID)

			emailSubject := "Reminder: Your Class Starts in 1 Hour!"
			emailBody := fmt.Sprintf(
				"<h1>Class Reminder</h1><p>Hi %s,</p><p>%s with %s starts in one hour at %s.</p><p><b>Join link:</b> <a href='%s'>Join Class</a><br><b>Passcode:</b> %s</p>",
				booking.User.FullName,
				booking.ClassName,
				booking.Teacher,
				booking.StartTime,
				booking.JoinURL,
				booking.MeetingPasscode,
			)

			go notifications.SendEmail(booking.User.FullName, booking.User.Email, emailSubject, emailBody)
		}
	}
}
