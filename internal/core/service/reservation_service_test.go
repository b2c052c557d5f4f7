package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
	"github.com/eventdesk/reservations/internal/infrastructure/db/memory"
)

var attendee = domain.Claims{ActorID: 5, Role: domain.RoleAttendee}

type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.ReservationAudit
}

func (a *recordingAudit) Record(e domain.ReservationAudit) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

// racyRepo lets a test script what each store call observes.
type racyRepo struct {
	exists    bool
	insertErr error
	deleted   int64
	deletes   int
	inserts   int
}

func (r *racyRepo) Exists(context.Context, int64, int64) (bool, error) { return r.exists, nil }
func (r *racyRepo) Insert(context.Context, domain.Reservation) error {
	r.inserts++
	return r.insertErr
}
func (r *racyRepo) Delete(context.Context, int64, int64) (int64, error) {
	r.deletes++
	return r.deleted, nil
}

func seeded(t *testing.T) (*memory.Store, domain.Event) {
	t.Helper()
	store := memory.New()
	ev := store.AddEvent(1, "fair", time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC))
	return store, ev
}

func toggle(t *testing.T, svc *ReservationService, eventID int64, reserve bool) domain.ToggleOutcome {
	t.Helper()
	out, err := svc.Toggle(context.Background(), ports.ToggleInput{Actor: attendee, EventID: eventID, WantReserved: reserve})
	if err != nil {
		t.Fatalf("toggle(reserve=%v): %v", reserve, err)
	}
	return out
}

func TestReservationService_StateMachine(t *testing.T) {
	store, ev := seeded(t)
	audit := &recordingAudit{}
	svc := NewReservationService(store, audit, zerolog.Nop())

	steps := []struct {
		reserve bool
		want    domain.ToggleOutcome
		rows    int
	}{
		{false, domain.OutcomeNotReservedCannotCancel, 0},
		{true, domain.OutcomeOK, 1},
		{true, domain.OutcomeAlreadyReserved, 1},
		{false, domain.OutcomeOK, 0},
		{false, domain.OutcomeNotReservedCannotCancel, 0},
		{true, domain.OutcomeOK, 1},
	}
	for i, st := range steps {
		if got := toggle(t, svc, ev.ID, st.reserve); got != st.want {
			t.Fatalf("step %d: outcome = %s, want %s", i, got, st.want)
		}
		if n := store.ReservationCount(attendee.ActorID, ev.ID); n != st.rows {
			t.Fatalf("step %d: rows = %d, want %d", i, n, st.rows)
		}
	}
	if len(audit.entries) != len(steps) {
		t.Fatalf("expected %d audit entries, got %d", len(steps), len(audit.entries))
	}
	if last := audit.entries[len(audit.entries)-1]; !last.Requested || last.Outcome != domain.OutcomeOK || last.EventID != ev.ID {
		t.Fatalf("unexpected audit entry: %+v", last)
	}
}

func TestReservationService_RoleAndInputChecks(t *testing.T) {
	repo := &racyRepo{}
	svc := NewReservationService(repo, nil, zerolog.Nop())

	_, err := svc.Toggle(context.Background(), ports.ToggleInput{
		Actor:        domain.Claims{ActorID: 5, Role: domain.RoleHost},
		EventID:      1,
		WantReserved: true,
	})
	if !errors.Is(err, domain.ErrForbiddenRole) {
		t.Fatalf("expected ErrForbiddenRole, got %v", err)
	}

	_, err = svc.Toggle(context.Background(), ports.ToggleInput{Actor: attendee, EventID: 0, WantReserved: true})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if repo.inserts != 0 || repo.deletes != 0 {
		t.Fatalf("rejected toggles must not write")
	}
}

func TestReservationService_UnknownEvent(t *testing.T) {
	store, _ := seeded(t)
	svc := NewReservationService(store, nil, zerolog.Nop())

	_, err := svc.Toggle(context.Background(), ports.ToggleInput{Actor: attendee, EventID: 404, WantReserved: true})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown event, got %v", err)
	}
}

func TestReservationService_InsertLosesRace(t *testing.T) {
	repo := &racyRepo{insertErr: domain.ErrDuplicateReservation}
	svc := NewReservationService(repo, nil, zerolog.Nop())

	if got := toggle(t, svc, 1, true); got != domain.OutcomeAlreadyReserved {
		t.Fatalf("outcome = %s, want %s", got, domain.OutcomeAlreadyReserved)
	}
}

func TestReservationService_CancelAfterConcurrentCancel(t *testing.T) {
	repo := &racyRepo{exists: true, deleted: 0}
	svc := NewReservationService(repo, nil, zerolog.Nop())

	if got := toggle(t, svc, 1, false); got != domain.OutcomeOK {
		t.Fatalf("outcome = %s, want %s", got, domain.OutcomeOK)
	}
}

func TestReservationService_CancelRemovesLateInsert(t *testing.T) {
	repo := &racyRepo{exists: false, deleted: 1}
	svc := NewReservationService(repo, nil, zerolog.Nop())

	if got := toggle(t, svc, 1, false); got != domain.OutcomeOK {
		t.Fatalf("outcome = %s, want %s", got, domain.OutcomeOK)
	}
	if repo.deletes != 1 {
		t.Fatalf("cancel must always issue the delete")
	}
}

func TestReservationService_StoreFailure(t *testing.T) {
	repo := &failingRepo{err: domain.StoreError("exists", errors.New("dial tcp: refused"))}
	audit := &recordingAudit{}
	svc := NewReservationService(repo, audit, zerolog.Nop())

	_, err := svc.Toggle(context.Background(), ports.ToggleInput{Actor: attendee, EventID: 1, WantReserved: true})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if len(audit.entries) != 0 {
		t.Fatalf("failed toggles must not be audited")
	}
}

type failingRepo struct{ err error }

func (r *failingRepo) Exists(context.Context, int64, int64) (bool, error)  { return false, r.err }
func (r *failingRepo) Insert(context.Context, domain.Reservation) error     { return r.err }
func (r *failingRepo) Delete(context.Context, int64, int64) (int64, error) { return 0, r.err }

func TestReservationService_ConcurrentReserves(t *testing.T) {
	for round := 0; round < 50; round++ {
		store, ev := seeded(t)
		svc := NewReservationService(store, nil, zerolog.Nop())

		var wg sync.WaitGroup
		outcomes := make([]domain.ToggleOutcome, 2)
		for i := range outcomes {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				out, err := svc.Toggle(context.Background(), ports.ToggleInput{Actor: attendee, EventID: ev.ID, WantReserved: true})
				if err != nil {
					t.Errorf("toggle: %v", err)
				}
				outcomes[i] = out
			}(i)
		}
		wg.Wait()

		ok, already := 0, 0
		for _, o := range outcomes {
			switch o {
			case domain.OutcomeOK:
				ok++
			case domain.OutcomeAlreadyReserved:
				already++
			}
		}
		if ok != 1 || already != 1 {
			t.Fatalf("round %d: outcomes = %v, want one OK and one ALREADY_RESERVED", round, outcomes)
		}
		if n := store.ReservationCount(attendee.ActorID, ev.ID); n != 1 {
			t.Fatalf("round %d: rows = %d, want 1", round, n)
		}
	}
}

func TestReservationService_ConcurrentCancels(t *testing.T) {
	for round := 0; round < 50; round++ {
		store, ev := seeded(t)
		svc := NewReservationService(store, nil, zerolog.Nop())
		toggle(t, svc, ev.ID, true)

		var wg sync.WaitGroup
		outcomes := make([]domain.ToggleOutcome, 2)
		for i := range outcomes {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				out, err := svc.Toggle(context.Background(), ports.ToggleInput{Actor: attendee, EventID: ev.ID, WantReserved: false})
				if err != nil {
					t.Errorf("toggle: %v", err)
				}
				outcomes[i] = out
			}(i)
		}
		wg.Wait()

		for _, o := range outcomes {
			if o == domain.OutcomeAlreadyReserved {
				t.Fatalf("round %d: cancel reported %s", round, o)
			}
		}
		if outcomes[0] != domain.OutcomeOK && outcomes[1] != domain.OutcomeOK {
			t.Fatalf("round %d: at least one cancel must succeed, got %v", round, outcomes)
		}
		if n := store.ReservationCount(attendee.ActorID, ev.ID); n != 0 {
			t.Fatalf("round %d: rows = %d, want 0", round, n)
		}
	}
}
