package wizard

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a wizard session is unknown or expired.
var ErrSessionNotFound = errors.New("wizard session not found")

// Store holds in-flight wizard sessions keyed by an opaque ID. Sessions are
// ephemeral by design: abandoning signup lets the entry age out.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
}

type entry struct {
	machine *Machine
	touched time.Time
}

// NewStore creates a wizard store. Sessions idle longer than ttl are evicted.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
	}
}

// Create starts a new wizard session and returns its ID.
func (s *Store) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{machine: New(), touched: time.Now()}
	return id
}

// View is a read-only snapshot of a wizard session.
type View struct {
	ID             string      `json:"id"`
	Step           int         `json:"step"`
	MaxStepReached int         `json:"max_step_reached"`
	Draft          Draft       `json:"draft"`
	FieldErrors    FieldErrors `json:"field_errors"`
}

// Get returns a snapshot of the session.
func (s *Store) Get(id string) (View, error) {
	var v View
	err := s.Update(id, func(m *Machine) error {
		v = snapshot(id, m)
		return nil
	})
	return v, err
}

// Update runs fn against the session's machine under the store lock, then
// refreshes its idle timer. All mutation goes through here so a session is
// only ever touched by one request at a time.
func (s *Store) Update(id string, fn func(m *Machine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || time.Since(e.touched) > s.ttl {
		delete(s.sessions, id)
		return ErrSessionNotFound
	}

	if err := fn(e.machine); err != nil {
		return err
	}
	e.touched = time.Now()
	return nil
}

// Delete discards a session. Used once a submission succeeds or the user
// navigates away.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartEviction sweeps expired sessions until ctx is cancelled.
func (s *Store) StartEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.evictExpired(); n > 0 {
					log.Printf("[WizardStore] Evicted %d expired sessions", n)
				}
			}
		}
	}()
}

func (s *Store) evictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	cutoff := time.Now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func snapshot(id string, m *Machine) View {
	return View{
		ID:             id,
		Step:           m.Step(),
		MaxStepReached: m.MaxStepReached(),
		Draft:          m.Draft(),
		FieldErrors:    m.FieldErrors(),
	}
}
