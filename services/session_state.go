package services

import (
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"yoga_studio_backend/models"
	"yoga_studio_backend/storage"
)

const stateKeyPrefix = "state:"

// UserState is the per-account view the booking flow treats as its source of
// truth: the active bookings keyed by derived class key, and the credit
// buckets as last seen. It is mirrored to the snapshot store on every change
// and restored at startup, so a restart does not blank anyone's bookings
// even if the datastore was unreachable when they were made.
type UserState struct {
	Bookings map[string]models.Booking `json:"bookings"`
	Buckets  models.CreditBuckets      `json:"buckets"`
}

type SessionState struct {
	mu    sync.RWMutex
	users map[string]*UserState // keyed by account email, case-sensitive
	kv    storage.KV
}

func NewSessionState(kv storage.KV) *SessionState {
	s := &SessionState{users: make(map[string]*UserState), kv: kv}
	s.restore()
	return s
}

func (s *SessionState) restore() {
	keys, err := s.kv.Keys(stateKeyPrefix)
	if err != nil {
		log.Printf("⚠️ Failed to list session snapshots: %v", err)
		return
	}
	for _, key := range keys {
		var st UserState
		if ok, err := s.kv.Get(key, &st); err != nil || !ok {
			continue
		}
		if st.Bookings == nil {
			st.Bookings = make(map[string]models.Booking)
		}
		s.users[strings.TrimPrefix(key, stateKeyPrefix)] = &st
	}
	if len(s.users) > 0 {
		log.Printf("✅ Restored session state for %d account(s)", len(s.users))
	}
}

func (s *SessionState) userLocked(email string) *UserState {
	st, ok := s.users[email]
	if !ok {
		st = &UserState{Bookings: make(map[string]models.Booking)}
		s.users[email] = st
	}
	return st
}

func (s *SessionState) mirrorLocked(email string) {
	if err := s.kv.Put(stateKeyPrefix+email, s.users[email]); err != nil {
		log.Printf("⚠️ Failed to snapshot session state for %s: %v", email, err)
	}
}

// EnsureUser seeds bucket values from the datastore the first time an
// account shows up. Local state already restored from the snapshot wins and
// is never clobbered by a datastore read.
func (s *SessionState) EnsureUser(email string, b models.CreditBuckets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return
	}
	s.userLocked(email).Buckets = b
	s.mirrorLocked(email)
}

// Buckets returns the cached credit buckets for the account.
func (s *SessionState) Buckets(email string) models.CreditBuckets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.users[email]; ok {
		return st.Buckets
	}
	return models.CreditBuckets{}
}

func (s *SessionState) SetBuckets(email string, b models.CreditBuckets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLocked(email).Buckets = b
	s.mirrorLocked(email)
}

func (s *SessionState) AddBooking(email string, booking models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLocked(email).Bookings[booking.ClassKey] = booking
	s.mirrorLocked(email)
}

// RemoveBooking deletes the booking under the derived key and returns it,
// or false if the account never had it.
func (s *SessionState) RemoveBooking(email, classKey string) (models.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.users[email]
	if !ok {
		return models.Booking{}, false
	}
	booking, ok := st.Bookings[classKey]
	if !ok {
		return models.Booking{}, false
	}
	delete(st.Bookings, classKey)
	s.mirrorLocked(email)
	return booking, true
}

// Booking looks up an active booking by derived key.
func (s *SessionState) Booking(email, classKey string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.users[email]
	if !ok {
		return models.Booking{}, false
	}
	booking, ok := st.Bookings[classKey]
	return booking, ok
}

// Bookings returns a copy of the account's active bookings map.
func (s *SessionState) Bookings(email string) map[string]models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.Booking)
	if st, ok := s.users[email]; ok {
		for k, v := range st.Bookings {
			out[k] = v
		}
	}
	return out
}

// IsBooked reports whether the account has already booked the occurrence
// with the given id, resolving it against the occurrences currently in view.
// An id that resolves to nothing answers false: occurrences load
// asynchronously on the client, and an unknown id must fall open toward a
// fresh booking attempt rather than block the user.
func (s *SessionState) IsBooked(email string, occurrenceID uuid.UUID, occurrences []models.ClassOccurrence) bool {
	var found *models.ClassOccurrence
	for i := range occurrences {
		if occurrences[i].ID == occurrenceID {
			found = &occurrences[i]
			break
		}
	}
	if found == nil {
		return false
	}
	key := DeriveClassKey(found.ClassName, found.Date, found.StartTime)
	_, booked := s.Booking(email, key)
	return booked
}
