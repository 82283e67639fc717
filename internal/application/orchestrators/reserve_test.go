package orchestrators

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ateliers/internal/adapters/email"
	"ateliers/internal/domain/reservation"
	"ateliers/internal/domain/workshop"
	"ateliers/internal/upstream"
)

// mockKeyStore implements reskey.Store in memory.
type mockKeyStore struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newMockKeyStore() *mockKeyStore {
	return &mockKeyStore{keys: make(map[string]bool)}
}

func (m *mockKeyStore) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	return m.keys[key], nil
}

func (m *mockKeyStore) Add(_ context.Context, _, _ int, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = true
	return nil
}

func (m *mockKeyStore) ListByClient(_ context.Context, _ int) ([]string, error) {
	return nil, nil
}

// mockReservationAPI implements ReservationCreator.
type mockReservationAPI struct {
	mu      sync.Mutex
	err     error
	calls   int
	started chan struct{} // closed when a call begins, optional
	release chan struct{} // blocks the call until closed, optional
}

func (m *mockReservationAPI) CreateReservation(_ context.Context, _ string, req reservation.Request) (reservation.Reservation, error) {
	m.mu.Lock()
	m.calls++
	started := m.started
	m.started = nil
	m.mu.Unlock()
	if started != nil {
		close(started)
	}
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return reservation.Reservation{}, m.err
	}
	return reservation.Reservation{
		ID:              1,
		AtelierID:       req.AtelierID,
		ClientID:        req.ClientID,
		DateReservation: req.DateReservation,
		ClientEmail:     "client@example.com",
		AtelierNom:      "Aquarelle",
	}, nil
}

// mockMailer records confirmation sends.
type mockMailer struct {
	mu   sync.Mutex
	sent []email.SendRequest
}

func (m *mockMailer) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "m1"}, nil
}

func reserveDeps(api *mockReservationAPI, keys *mockKeyStore, mailer email.Sender) ReserveDeps {
	return ReserveDeps{Reservations: api, Keys: keys, Mailer: mailer, Now: testNow}
}

// TestReservationFlow_RoleGate verifies admins, coaches, and anonymous
// users are rejected without an upstream call.
func TestReservationFlow_RoleGate(t *testing.T) {
	w := workshop.Workshop{ID: 42, CoachID: 6}
	for _, tt := range []struct {
		name string
		in   ReserveInput
	}{
		{name: "admin", in: ReserveInput{Session: adminSession(), Workshop: w}},
		{name: "coach", in: ReserveInput{Session: coachSession(6), Workshop: w}},
		{name: "anonymous", in: ReserveInput{Workshop: w}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockReservationAPI{}
			_, err := NewReservationFlow().Execute(context.Background(), tt.in,
				reserveDeps(api, newMockKeyStore(), nil))
			if !errors.Is(err, ErrReserveNotAllowed) {
				t.Errorf("error = %v, want ErrReserveNotAllowed", err)
			}
			if api.calls != 0 {
				t.Error("upstream called despite role gate")
			}
		})
	}
}

// TestReservationFlow_Preconditions verifies missing coach and past dates
// reject before any network call.
func TestReservationFlow_Preconditions(t *testing.T) {
	t.Run("no coach", func(t *testing.T) {
		api := &mockReservationAPI{}
		_, err := NewReservationFlow().Execute(context.Background(),
			ReserveInput{Session: clientSession(7), Workshop: workshop.Workshop{ID: 42}},
			reserveDeps(api, newMockKeyStore(), nil))
		if !errors.Is(err, reservation.ErrNoCoach) {
			t.Errorf("error = %v, want ErrNoCoach", err)
		}
		if api.calls != 0 {
			t.Error("upstream called despite missing coach")
		}
	})

	t.Run("past date", func(t *testing.T) {
		api := &mockReservationAPI{}
		_, err := NewReservationFlow().Execute(context.Background(),
			ReserveInput{Session: clientSession(7), Workshop: workshop.Workshop{ID: 42, CoachID: 6, Date: "2024-12-01"}},
			reserveDeps(api, newMockKeyStore(), nil))
		if !errors.Is(err, reservation.ErrDateInPast) {
			t.Errorf("error = %v, want ErrDateInPast", err)
		}
		if api.calls != 0 {
			t.Error("upstream called despite past date")
		}
	})
}

// TestReservationFlow_DefaultsToTodayAndRecordsKey is the end-to-end
// scenario: workshop 42 (coach 6, undated), client 7, no explicit date —
// books for today, records "7::42", and a second attempt is rejected
// locally without another upstream call.
func TestReservationFlow_DefaultsToTodayAndRecordsKey(t *testing.T) {
	api := &mockReservationAPI{}
	keys := newMockKeyStore()
	mailer := &mockMailer{}
	flow := NewReservationFlow()
	in := ReserveInput{Session: clientSession(7), Workshop: workshop.Workshop{ID: 42, CoachID: 6}}

	res, err := flow.Execute(context.Background(), in, reserveDeps(api, keys, mailer))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.DateReservation != "2025-01-10" {
		t.Errorf("date = %q, want today's 2025-01-10", res.DateReservation)
	}
	if !keys.keys["7::42"] {
		t.Error("key 7::42 not recorded after success")
	}
	if len(mailer.sent) != 1 {
		t.Errorf("confirmation emails = %d, want 1", len(mailer.sent))
	}

	_, err = flow.Execute(context.Background(), in, reserveDeps(api, keys, mailer))
	if !errors.Is(err, reservation.ErrAlreadyReserved) {
		t.Errorf("second attempt error = %v, want ErrAlreadyReserved", err)
	}
	if api.calls != 1 {
		t.Errorf("upstream calls = %d, want 1 (duplicate caught locally)", api.calls)
	}
}

// TestReservationFlow_ServerConflict verifies upstream duplicate signals
// surface as the duplicate warning.
func TestReservationFlow_ServerConflict(t *testing.T) {
	api := &mockReservationAPI{err: &upstream.Error{Kind: upstream.KindConflict, Status: 409, Message: "déjà réservé"}}
	_, err := NewReservationFlow().Execute(context.Background(),
		ReserveInput{Session: clientSession(7), Workshop: workshop.Workshop{ID: 42, CoachID: 6}},
		reserveDeps(api, newMockKeyStore(), nil))
	if !errors.Is(err, reservation.ErrAlreadyReserved) {
		t.Errorf("error = %v, want ErrAlreadyReserved", err)
	}
}

// TestReservationFlow_BusyFlag verifies a second submission while one is
// in flight is dropped, not queued.
func TestReservationFlow_BusyFlag(t *testing.T) {
	api := &mockReservationAPI{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	started := api.started
	keys := newMockKeyStore()
	flow := NewReservationFlow()
	in := ReserveInput{Session: clientSession(7), Workshop: workshop.Workshop{ID: 42, CoachID: 6}}

	done := make(chan error, 1)
	go func() {
		_, err := flow.Execute(context.Background(), in, reserveDeps(api, keys, nil))
		done <- err
	}()

	<-started // first submission is now in flight

	_, err := flow.Execute(context.Background(), in, reserveDeps(api, keys, nil))
	if !errors.Is(err, ErrReserveBusy) {
		t.Errorf("concurrent attempt error = %v, want ErrReserveBusy", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Errorf("first submission error = %v", err)
	}
	if api.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", api.calls)
	}
}

// TestReservationFlow_KeyStoreFailureDoesNotBlock verifies an advisory
// store read error never prevents the booking.
func TestReservationFlow_KeyStoreFailureDoesNotBlock(t *testing.T) {
	api := &mockReservationAPI{}
	keys := newMockKeyStore()
	keys.err = errors.New("disk gone")
	_, err := NewReservationFlow().Execute(context.Background(),
		ReserveInput{Session: clientSession(7), Workshop: workshop.Workshop{ID: 42, CoachID: 6}},
		reserveDeps(api, keys, nil))
	if err != nil {
		t.Fatalf("Execute() error = %v, want success despite key store failure", err)
	}
	if api.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", api.calls)
	}
}
