package services_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga_studio_backend/models"
	"yoga_studio_backend/services"
	"yoga_studio_backend/storage"
	"yoga_studio_backend/video"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeStore struct {
	bookings  []*models.Booking
	cancelled []string
	buckets   map[uuid.UUID]models.CreditBuckets
	payments  []*models.Payment

	failCreate bool
	failSave   bool
	failCancel bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: make(map[uuid.UUID]models.CreditBuckets)}
}

func (s *fakeStore) CreateBooking(b *models.Booking) error {
	if s.failCreate {
		return errors.New("datastore unavailable")
	}
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *fakeStore) CancelBookingByKey(userID uuid.UUID, classKey string) error {
	if s.failCancel {
		return errors.New("datastore unavailable")
	}
	s.cancelled = append(s.cancelled, classKey)
	return nil
}

func (s *fakeStore) SaveBuckets(userID uuid.UUID, b models.CreditBuckets) error {
	if s.failSave {
		return errors.New("datastore unavailable")
	}
	s.buckets[userID] = b
	return nil
}

func (s *fakeStore) RecordPayment(p *models.Payment) error {
	s.payments = append(s.payments, p)
	return nil
}

type fakeVideo struct {
	calls   int
	fail    bool
	meeting video.Meeting
}

func (v *fakeVideo) CreateMeeting(req video.MeetingRequest) (*video.Meeting, error) {
	v.calls++
	if v.fail {
		return nil, errors.New("zoom proxy timeout")
	}
	m := v.meeting
	return &m, nil
}

type fakeNotifier struct {
	sent []string // subjects
	fail bool
}

func (n *fakeNotifier) Send(toName, toEmail, subject, htmlContent string) error {
	if n.fail {
		return errors.New("brevo rejected the send")
	}
	n.sent = append(n.sent, subject)
	return nil
}

func newTestService(t *testing.T) (*services.BookingService, *fakeStore, *fakeVideo, *fakeNotifier) {
	t.Helper()
	store := newFakeStore()
	vid := &fakeVideo{meeting: video.Meeting{
		MeetingID: "987654321",
		Password:  "omshanti",
		JoinURL:   "https://zoom.us/j/987654321",
	}}
	notify := &fakeNotifier{}
	state := services.NewSessionState(storage.NewMemory())
	svc := services.NewBookingService(store, vid, state, notify)
	return svc, store, vid, notify
}

func testUser(b models.CreditBuckets) *models.User {
	return &models.User{
		ID:            uuid.New(),
		FullName:      "Ana Example",
		Email:         "ana@example.com",
		CreditBuckets: b,
	}
}

func morningFlow() models.ClassOccurrence {
	return models.ClassOccurrence{
		ID:          uuid.New(),
		ClassName:   "Morning Flow",
		Teacher:     "Maya",
		Date:        "2025-09-08",
		StartTime:   "08:00:00",
		DurationMin: 60,
	}
}

func stepStatus(steps []services.StepResult, name string) services.StepStatus {
	for _, s := range steps {
		if s.Step == name {
			return s.Status
		}
	}
	return ""
}

// =============================================================================
// BOOKING
// =============================================================================

func TestBook_RefusedWithNoCredits(t *testing.T) {
	// GIVEN: a user with zero credits across all buckets
	// WHEN: they try to book
	// THEN: refused up front with no collaborator calls at all

	svc, store, vid, notify := newTestService(t)
	user := testUser(models.CreditBuckets{})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	_, steps, err := svc.Book(user, occ, []models.ClassOccurrence{occ})

	assert.ErrorIs(t, err, services.ErrNoClassesRemaining)
	assert.Empty(t, steps)
	assert.Zero(t, vid.calls, "video collaborator must not be called")
	assert.Empty(t, store.bookings, "nothing persisted")
	assert.Empty(t, notify.sent, "no email sent")
}

func TestBook_HappyPath(t *testing.T) {
	svc, store, vid, notify := newTestService(t)
	user := testUser(models.CreditBuckets{SingleClasses: 1})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	booking, steps, err := svc.Book(user, occ, []models.ClassOccurrence{occ})
	require.NoError(t, err)

	assert.Equal(t, "Morning Flow-2025-09-08-8:00 AM", booking.ClassKey)
	assert.Equal(t, "8:00 AM", booking.StartTime)
	assert.Equal(t, "https://zoom.us/j/987654321", booking.JoinURL)
	assert.NotEmpty(t, booking.ConfirmationCode)

	assert.Equal(t, models.CreditBuckets{}, svc.State.Buckets(user.Email), "single credit spent")
	assert.Equal(t, models.CreditBuckets{}, store.buckets[user.ID], "buckets persisted")
	assert.True(t, svc.State.IsBooked(user.Email, occ.ID, []models.ClassOccurrence{occ}))

	require.Len(t, store.bookings, 1)
	assert.Equal(t, 1, vid.calls)
	assert.NotEmpty(t, notify.sent)

	for _, name := range []string{"video_session", "persist_booking", "update_state", "persist_credits", "notify"} {
		assert.Equal(t, services.StepSucceeded, stepStatus(steps, name), "step %s", name)
	}
}

func TestBook_NoDoubleBooking(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	user := testUser(models.CreditBuckets{FivePack: 5})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()
	visible := []models.ClassOccurrence{occ}

	_, _, err := svc.Book(user, occ, visible)
	require.NoError(t, err)

	_, _, err = svc.Book(user, occ, visible)
	assert.ErrorIs(t, err, services.ErrAlreadyBooked)

	assert.Equal(t, models.CreditBuckets{FivePack: 4}, svc.State.Buckets(user.Email),
		"refused attempt must not touch credits")
	assert.Len(t, store.bookings, 1, "refused attempt must not persist anything")
}

func TestBook_FallbackMeetingWhenVideoFails(t *testing.T) {
	svc, _, vid, _ := newTestService(t)
	vid.fail = true
	user := testUser(models.CreditBuckets{SingleClasses: 1})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	booking, steps, err := svc.Book(user, occ, []models.ClassOccurrence{occ})
	require.NoError(t, err, "a video outage never fails the booking")

	assert.NotEmpty(t, booking.MeetingID)
	assert.NotEmpty(t, booking.JoinURL)
	assert.Equal(t, services.StepDegraded, stepStatus(steps, "video_session"))

	// Deterministic synthesis: same class and date, same fallback.
	again := video.FallbackMeeting(occ.ClassName, occ.Date)
	assert.Equal(t, again.MeetingID, booking.MeetingID)
	assert.Equal(t, again.JoinURL, booking.JoinURL)
}

func TestBook_FallbackWhenResponseLacksJoinURL(t *testing.T) {
	svc, _, vid, _ := newTestService(t)
	vid.meeting = video.Meeting{MeetingID: "123", Password: "x"} // no join_url
	user := testUser(models.CreditBuckets{SingleClasses: 1})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	booking, steps, err := svc.Book(user, occ, []models.ClassOccurrence{occ})
	require.NoError(t, err)
	assert.NotEmpty(t, booking.JoinURL)
	assert.Equal(t, services.StepDegraded, stepStatus(steps, "video_session"))
}

func TestBook_DatastoreOutageIsNonFatal(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	store.failCreate = true
	store.failSave = true
	user := testUser(models.CreditBuckets{SingleClasses: 1})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	booking, steps, err := svc.Book(user, occ, []models.ClassOccurrence{occ})
	require.NoError(t, err, "booking succeeds on local state alone")
	require.NotNil(t, booking)

	assert.Equal(t, services.StepDegraded, stepStatus(steps, "persist_booking"))
	assert.Equal(t, services.StepDegraded, stepStatus(steps, "persist_credits"))
	assert.Equal(t, services.StepSucceeded, stepStatus(steps, "update_state"))

	assert.True(t, svc.State.IsBooked(user.Email, occ.ID, []models.ClassOccurrence{occ}),
		"session state still reflects the booking")
	assert.Equal(t, models.CreditBuckets{}, svc.State.Buckets(user.Email))
}

func TestBook_EmailFailureIsNonFatal(t *testing.T) {
	svc, _, _, notify := newTestService(t)
	notify.fail = true
	user := testUser(models.CreditBuckets{SingleClasses: 1})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	_, steps, err := svc.Book(user, occ, []models.ClassOccurrence{occ})
	require.NoError(t, err)
	assert.Equal(t, services.StepDegraded, stepStatus(steps, "notify"))
}

// =============================================================================
// CANCELLATION
// =============================================================================

func TestCancel_RestoresOneCredit(t *testing.T) {
	// Scenario: the booking spent the last single credit, so cancellation
	// restores into the five-pack, not back into singles.

	svc, store, _, _ := newTestService(t)
	user := testUser(models.CreditBuckets{SingleClasses: 1})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	booking, _, err := svc.Book(user, occ, []models.ClassOccurrence{occ})
	require.NoError(t, err)
	require.Equal(t, models.CreditBuckets{}, svc.State.Buckets(user.Email))

	cancelled, steps, err := svc.Cancel(user, booking.ClassKey)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, cancelled.ID)

	assert.Equal(t, models.CreditBuckets{FivePack: 1}, svc.State.Buckets(user.Email))
	assert.Equal(t, models.CreditBuckets{FivePack: 1}, store.buckets[user.ID])
	assert.Contains(t, store.cancelled, booking.ClassKey)
	assert.False(t, svc.State.IsBooked(user.Email, occ.ID, []models.ClassOccurrence{occ}))
	assert.Equal(t, services.StepSucceeded, stepStatus(steps, "persist_cancellation"))
}

func TestCancel_UnknownBooking(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	user := testUser(models.CreditBuckets{SingleClasses: 1})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)

	_, _, err := svc.Cancel(user, "Nothing-2025-01-01-9:00 AM")
	assert.ErrorIs(t, err, services.ErrBookingNotFound)
	assert.Equal(t, models.CreditBuckets{SingleClasses: 1}, svc.State.Buckets(user.Email),
		"failed guard must not touch credits")
}

func TestCancel_DatastoreOutageIsNonFatal(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	user := testUser(models.CreditBuckets{TenPack: 10})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)
	occ := morningFlow()

	booking, _, err := svc.Book(user, occ, []models.ClassOccurrence{occ})
	require.NoError(t, err)

	store.failCancel = true
	_, steps, err := svc.Cancel(user, booking.ClassKey)
	require.NoError(t, err)
	assert.Equal(t, services.StepDegraded, stepStatus(steps, "persist_cancellation"))
	assert.Equal(t, 10, svc.State.Buckets(user.Email).Total(), "credit restored locally regardless")
}

// =============================================================================
// PACKAGE PURCHASE
// =============================================================================

func TestPurchasePackage_TenPack(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	user := testUser(models.CreditBuckets{})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)

	pkg := models.ClassPackage{
		ID:      uuid.New(),
		Name:    "Ten Class Pack",
		Kind:    models.PackageTen,
		Credits: 10,
		Price:   120,
	}

	payment, err := svc.PurchasePackage(user, pkg, "card")
	require.NoError(t, err)

	assert.Equal(t, models.CreditBuckets{TenPack: 10}, svc.State.Buckets(user.Email),
		"only the ten bucket moves")
	assert.Equal(t, models.CreditBuckets{TenPack: 10}, store.buckets[user.ID])
	require.Len(t, store.payments, 1)
	assert.Equal(t, pkg.ID, *payment.PackageID)
	assert.Equal(t, 120.0, payment.Amount)
}

func TestPurchasePackage_StoreFailureFailsPurchase(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	store.failSave = true
	user := testUser(models.CreditBuckets{})
	svc.State.EnsureUser(user.Email, user.CreditBuckets)

	pkg := models.ClassPackage{ID: uuid.New(), Name: "Five Class Pack", Kind: models.PackageFive, Credits: 5, Price: 70}
	_, err := svc.PurchasePackage(user, pkg, "card")
	assert.Error(t, err, "money changed hands, a silent failure is not acceptable")
	assert.Equal(t, models.CreditBuckets{}, svc.State.Buckets(user.Email),
		"failed purchase leaves local credits untouched")
}
