package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"yoga_studio_backend/models"
	"yoga_studio_backend/notifications"
	"yoga_studio_backend/utils"
	"yoga_studio_backend/video"
)

var (
	ErrAlreadyBooked   = errors.New("you have already booked this class")
	ErrBookingNotFound = errors.New("booking not found")
)

// BookingStore is the narrow datastore surface the booking flow needs. The
// production implementation wraps Postgres; tests substitute an in-memory
// fake.
type BookingStore interface {
	CreateBooking(b *models.Booking) error
	CancelBookingByKey(userID uuid.UUID, classKey string) error
	SaveBuckets(userID uuid.UUID, b models.CreditBuckets) error
	RecordPayment(p *models.Payment) error
}

// VideoClient creates a meeting for a class sitting.
type VideoClient interface {
	CreateMeeting(req video.MeetingRequest) (*video.Meeting, error)
}

// Notifier delivers one transactional email.
type Notifier interface {
	Send(toName, toEmail, subject, htmlContent string) error
}

// StepStatus classifies how a single pipeline step went. Guard failures
// never produce a step result: they abort before any side effect. Every
// step after the guards is best-effort, so a failure downgrades the step to
// Degraded instead of failing the operation.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepDegraded  StepStatus = "degraded"
)

type StepResult struct {
	Step   string     `json:"step"`
	Status StepStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

type stepLog []StepResult

func (l *stepLog) ok(step string) {
	*l = append(*l, StepResult{Step: step, Status: StepSucceeded})
}

func (l *stepLog) degraded(step, reason string) {
	log.Printf("⚠️ Booking step %q degraded: %s", step, reason)
	*l = append(*l, StepResult{Step: step, Status: StepDegraded, Reason: reason})
}

// BookingService runs the side-effecting booking, cancellation and purchase
// sequences. Video, Notify and AdminNotify may be nil; the matching steps
// then degrade instead of blocking the user.
type BookingService struct {
	Store BookingStore
	Video VideoClient
	State *SessionState

	Notify     Notifier
	AdminEmail string
	AdminName  string
}

func NewBookingService(store BookingStore, videoClient VideoClient, state *SessionState, notify Notifier) *BookingService {
	return &BookingService{Store: store, Video: videoClient, State: state, Notify: notify}
}

// Book runs the full booking sequence for one occurrence. Guards are hard
// stops with no side effects; everything after them is best-effort, and the
// user always walks away with a usable join link.
func (s *BookingService) Book(user *models.User, occ models.ClassOccurrence, visible []models.ClassOccurrence) (*models.Booking, []StepResult, error) {
	// Guards. Order matters: an already-booked class is reported before the
	// credit balance is even looked at.
	if s.State.IsBooked(user.Email, occ.ID, visible) {
		return nil, nil, ErrAlreadyBooked
	}
	buckets := s.State.Buckets(user.Email)
	if buckets.Total() <= 0 {
		return nil, nil, ErrNoClassesRemaining
	}

	var steps stepLog

	// Video session. Any failure, including a response without a join link,
	// falls back to a deterministic synthesized meeting so the booking never
	// stalls on the conferencing vendor.
	meeting := s.createMeeting(occ, &steps)

	classKey := DeriveClassKey(occ.ClassName, occ.Date, occ.StartTime)
	booking := &models.Booking{
		ID:               uuid.New(),
		UserID:           user.ID,
		OccurrenceID:     occ.ID,
		ClassKey:         classKey,
		ClassName:        occ.ClassName,
		Teacher:          occ.Teacher,
		Date:             occ.Date,
		StartTime:        NormalizeTime12Hour(occ.StartTime),
		MeetingID:        meeting.MeetingID,
		MeetingPasscode:  meeting.Password,
		JoinURL:          meeting.JoinURL,
		ConfirmationCode: utils.GenerateConfirmationCode(),
		BookedAt:         time.Now(),
	}

	// Persistence. A datastore outage is logged and the flow carries on;
	// the session state below still records the booking, at the cost of
	// durability until the next successful write.
	if err := s.Store.CreateBooking(booking); err != nil {
		steps.degraded("persist_booking", err.Error())
	} else {
		steps.ok("persist_booking")
	}

	// Session state update. This is the user-facing source of truth and is
	// mirrored to the durable snapshot inside the state methods.
	debited, bucket, err := DebitBucket(buckets)
	if err != nil {
		// Unreachable: the guard above checked the sum. Refuse rather than
		// let the buckets drift.
		return nil, steps, err
	}
	s.State.AddBooking(user.Email, *booking)
	s.State.SetBuckets(user.Email, debited)
	user.CreditBuckets = debited
	log.Printf("Debited one credit from %s for %s", bucket, user.Email)
	steps.ok("update_state")

	// Credit persistence, best-effort.
	if err := s.Store.SaveBuckets(user.ID, debited); err != nil {
		steps.degraded("persist_credits", err.Error())
	} else {
		steps.ok("persist_credits")
	}

	// Notifications, best-effort.
	s.sendBookingEmails(user, booking, &steps)

	return booking, steps, nil
}

func (s *BookingService) createMeeting(occ models.ClassOccurrence, steps *stepLog) video.Meeting {
	if s.Video == nil {
		steps.degraded("video_session", "video client not configured")
		return video.FallbackMeeting(occ.ClassName, occ.Date)
	}
	meeting, err := s.Video.CreateMeeting(video.MeetingRequest{
		ClassName:       occ.ClassName,
		Teacher:         occ.Teacher,
		Date:            occ.Date,
		Time:            occ.StartTime,
		DurationMinutes: occ.DurationMin,
	})
	if err != nil {
		steps.degraded("video_session", err.Error())
		return video.FallbackMeeting(occ.ClassName, occ.Date)
	}
	if meeting.JoinURL == "" {
		steps.degraded("video_session", "meeting response is missing join_url")
		return video.FallbackMeeting(occ.ClassName, occ.Date)
	}
	steps.ok("video_session")
	return *meeting
}

func (s *BookingService) sendBookingEmails(user *models.User, booking *models.Booking, steps *stepLog) {
	if s.Notify == nil {
		steps.degraded("notify", "email client not configured")
		return
	}
	subject, html := notifications.BookingConfirmationBody(
		user.FullName, booking.ClassName, booking.Teacher, booking.Date,
		booking.StartTime, booking.JoinURL, booking.MeetingPasscode, booking.ConfirmationCode)
	if err := s.Notify.Send(user.FullName, user.Email, subject, html); err != nil {
		steps.degraded("notify", err.Error())
		return
	}
	if s.AdminEmail != "" {
		subject, html = notifications.BookingAdminAlertBody(
			user.FullName, user.Email, booking.ClassName, booking.Date, booking.StartTime)
		if err := s.Notify.Send(s.AdminName, s.AdminEmail, subject, html); err != nil {
			log.Printf("⚠️ Failed to send admin booking alert: %v", err)
		}
	}
	steps.ok("notify")
}

// Cancel mirrors Book: guard, then best-effort datastore flag, state
// removal, credit restore and notification.
func (s *BookingService) Cancel(user *models.User, classKey string) (*models.Booking, []StepResult, error) {
	if _, ok := s.State.Booking(user.Email, classKey); !ok {
		return nil, nil, ErrBookingNotFound
	}

	var steps stepLog

	if err := s.Store.CancelBookingByKey(user.ID, classKey); err != nil {
		steps.degraded("persist_cancellation", err.Error())
	} else {
		steps.ok("persist_cancellation")
	}

	booking, _ := s.State.RemoveBooking(user.Email, classKey)
	restored, bucket := RestoreBucket(s.State.Buckets(user.Email), booking.ClassName)
	s.State.SetBuckets(user.Email, restored)
	user.CreditBuckets = restored
	log.Printf("Restored one credit to %s for %s", bucket, user.Email)
	steps.ok("update_state")

	if err := s.Store.SaveBuckets(user.ID, restored); err != nil {
		steps.degraded("persist_credits", err.Error())
	} else {
		steps.ok("persist_credits")
	}

	if s.Notify == nil {
		steps.degraded("notify", "email client not configured")
	} else {
		subject, html := notifications.CancellationBody(user.FullName, booking.ClassName, booking.Date, booking.StartTime)
		if err := s.Notify.Send(user.FullName, user.Email, subject, html); err != nil {
			steps.degraded("notify", err.Error())
		} else {
			steps.ok("notify")
		}
	}

	return &booking, steps, nil
}

// PurchasePackage credits exactly one bucket with the package quantity and
// records the payment. Unlike booking, the datastore writes here are not
// best-effort: money changed hands, so a failed write fails the purchase.
func (s *BookingService) PurchasePackage(user *models.User, pkg models.ClassPackage, provider string) (*models.Payment, error) {
	buckets, err := ApplyPackage(s.State.Buckets(user.Email), pkg.Kind)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:        uuid.New(),
		UserID:    user.ID,
		PackageID: &pkg.ID,
		Amount:    pkg.Price,
		Currency:  pkg.Currency,
		Provider:  provider,
		Status:    "succeeded",
	}
	if err := s.Store.RecordPayment(payment); err != nil {
		return nil, err
	}
	if err := s.Store.SaveBuckets(user.ID, buckets); err != nil {
		return nil, err
	}

	s.State.SetBuckets(user.Email, buckets)
	user.CreditBuckets = buckets

	if s.Notify != nil {
		subject, html := notifications.PackageReceiptBody(user.FullName, pkg.Name, pkg.Credits)
		if err := s.Notify.Send(user.FullName, user.Email, subject, html); err != nil {
			log.Printf("⚠️ Failed to send purchase receipt to %s: %v", user.Email, err)
		}
		if s.AdminEmail != "" {
			if err := s.Notify.Send(s.AdminName, s.AdminEmail,
				"Package purchased: "+pkg.Name,
				"<p>"+user.FullName+" ("+user.Email+") purchased "+pkg.Name+".</p>"); err != nil {
				log.Printf("⚠️ Failed to send admin purchase alert: %v", err)
			}
		}
	}

	return payment, nil
}
