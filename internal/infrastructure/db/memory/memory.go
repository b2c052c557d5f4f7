// Package memory implements the store contract in process memory for
// development and tests. It enforces the same (actor_id, event_id)
// uniqueness the relational schema does.
package memory

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

type actorRow struct {
	actor        domain.Actor
	email        string
	passwordHash string
}

type pairKey struct {
	actorID int64
	eventID int64
}

// Store is a mutex-guarded in-memory database.
type Store struct {
	mu      sync.Mutex
	actors  map[int64]actorRow
	events  map[int64]domain.Event
	attends map[pairKey]domain.Reservation

	actorIDCounter int64
	eventIDCounter int64
}

// Ensure interfaces are met.
var _ ports.ActorRepository = (*Store)(nil)
var _ ports.EventRepository = (*Store)(nil)
var _ ports.ReservationRepository = (*Store)(nil)

func New() *Store {
	return &Store{
		actors:  make(map[int64]actorRow),
		events:  make(map[int64]domain.Event),
		attends: make(map[pairKey]domain.Reservation),
	}
}

// hashPassword mirrors the store-side digest used by the relational schema.
func hashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// AddActor seeds an actor with the given credentials.
func (s *Store) AddActor(name, email, password string, role domain.Role) domain.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.actorIDCounter++
	a := domain.Actor{ID: s.actorIDCounter, DisplayName: name, Role: role}
	s.actors[a.ID] = actorRow{actor: a, email: strings.ToLower(email), passwordHash: hashPassword(password)}
	return a
}

// AddEvent seeds an event owned by hostID.
func (s *Store) AddEvent(hostID int64, name string, start time.Time) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eventIDCounter++
	e := domain.Event{ID: s.eventIDCounter, HostID: hostID, Name: name, StartDate: start.UTC()}
	s.events[e.ID] = e
	return e
}

// ReservationCount returns how many rows exist for the pair.
func (s *Store) ReservationCount(actorID, eventID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attends[pairKey{actorID, eventID}]; ok {
		return 1
	}
	return 0
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// --- ActorRepository ---

func (s *Store) FindByCredentials(ctx context.Context, email, password string) (*domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(email)
	hash := hashPassword(password)
	for _, row := range s.actors {
		if row.email == email && row.passwordHash == hash {
			a := row.actor
			return &a, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

// --- EventRepository ---

func (s *Store) ListEvents(ctx context.Context, from time.Time, page domain.Page) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := s.eventsFrom(from, func(domain.Event) bool { return true })
	return window(matched, page), nil
}

func (s *Store) ListHostEvents(ctx context.Context, hostID int64, from time.Time, page domain.Page) ([]domain.EventWithAttendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := window(s.eventsFrom(from, func(e domain.Event) bool { return e.HostID == hostID }), page)
	out := make([]domain.EventWithAttendance, len(matched))
	for i, e := range matched {
		var n int64
		for k := range s.attends {
			if k.eventID == e.ID {
				n++
			}
		}
		out[i] = domain.EventWithAttendance{Event: e, AttendeeCount: n}
	}
	return out, nil
}

// eventsFrom must be called with mu held.
func (s *Store) eventsFrom(from time.Time, keep func(domain.Event) bool) []domain.Event {
	var out []domain.Event
	for _, e := range s.events {
		if !e.StartDate.Before(from) && keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

func window(events []domain.Event, page domain.Page) []domain.Event {
	n := int64(len(events))
	if page.Offset >= n {
		return []domain.Event{}
	}
	events = events[page.Offset:]
	if page.Limit < int64(len(events)) {
		events = events[:page.Limit]
	}
	return events
}

// --- ReservationRepository ---

func (s *Store) Exists(ctx context.Context, actorID, eventID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.attends[pairKey{actorID, eventID}]
	return ok, nil
}

func (s *Store) Insert(ctx context.Context, r domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[r.EventID]; !ok {
		return fmt.Errorf("%w: event %d does not exist", domain.ErrValidation, r.EventID)
	}
	key := pairKey{r.ActorID, r.EventID}
	if _, ok := s.attends[key]; ok {
		return domain.ErrDuplicateReservation
	}
	s.attends[key] = r
	return nil
}

func (s *Store) Delete(ctx context.Context, actorID, eventID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{actorID, eventID}
	if _, ok := s.attends[key]; !ok {
		return 0, nil
	}
	delete(s.attends, key)
	return 1, nil
}
