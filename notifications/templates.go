package notifications

import "fmt"

// Flat HTML templates for the four transactional emails the booking flow
// sends. Kept as plain fmt.Sprintf so the payload stays a simple key-value
// affair; none of these are rendered client-side.

func BookingConfirmationBody(studentName, className, teacher, date, timeOfDay, joinURL, passcode, confirmationCode string) (subject, html string) {
	subject = fmt.Sprintf("You're booked: %s on %s", className, date)
	html = fmt.Sprintf(
		"<h1>See you on the mat, %s!</h1>"+
			"<p>Your spot in <b>%s</b> with %s is confirmed for <b>%s at %s</b>.</p>"+
			"<p><b>Join link:</b> <a href='%s'>%s</a><br><b>Passcode:</b> %s</p>"+
			"<p>Confirmation code: <b>%s</b></p>",
		studentName, className, teacher, date, timeOfDay, joinURL, joinURL, passcode, confirmationCode)
	return subject, html
}

func BookingAdminAlertBody(studentName, studentEmail, className, date, timeOfDay string) (subject, html string) {
	subject = fmt.Sprintf("New booking: %s on %s", className, date)
	html = fmt.Sprintf(
		"<h1>New Booking</h1><p>%s (%s) booked <b>%s</b> on %s at %s.</p>",
		studentName, studentEmail, className, date, timeOfDay)
	return subject, html
}

func CancellationBody(studentName, className, date, timeOfDay string) (subject, html string) {
	subject = fmt.Sprintf("Cancelled: %s on %s", className, date)
	html = fmt.Sprintf(
		"<h1>Booking Cancelled</h1>"+
			"<p>Hi %s, your booking for <b>%s</b> on %s at %s has been cancelled "+
			"and one class credit has been returned to your account.</p>",
		studentName, className, date, timeOfDay)
	return subject, html
}

func PackageReceiptBody(studentName, packageName string, credits int) (subject, html string) {
	subject = "Your class package is active"
	html = fmt.Sprintf(
		"<h1>Thank you, %s!</h1>"+
			"<p>Your <b>%s</b> is active and %d class credit(s) have been added to your account.</p>",
		studentName, packageName, credits)
	return subject, html
}
