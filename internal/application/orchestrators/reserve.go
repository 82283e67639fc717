package orchestrators

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ateliers/internal/adapters/email"
	"ateliers/internal/adapters/storage/reskey"
	"ateliers/internal/domain/reservation"
	"ateliers/internal/domain/session"
	"ateliers/internal/domain/workshop"
	"ateliers/internal/upstream"
)

// Reservation errors surfaced to the notification sink.
var (
	ErrReserveNotAllowed = errors.New("only clients can reserve a workshop")
	ErrReserveBusy       = errors.New("a reservation is already being submitted")
)

// ReservationCreator books a seat upstream.
type ReservationCreator interface {
	CreateReservation(ctx context.Context, token string, req reservation.Request) (reservation.Reservation, error)
}

// ReserveInput carries one reservation attempt.
type ReserveInput struct {
	Session  session.Session
	Workshop workshop.Workshop
	// Date is the explicit user-picked date, optional. When empty the
	// workshop's own date is used, else today.
	Date string
}

// ReserveDeps holds dependencies for the reservation flow.
type ReserveDeps struct {
	Reservations ReservationCreator
	Keys         reskey.Store
	Mailer       email.Sender
	Now          func() time.Time
}

// ReservationFlow owns the per-view reservation state: a busy flag that
// drops a second submission while one is in flight. It is not a queue —
// the duplicate attempt is rejected, not deferred.
type ReservationFlow struct {
	mu   sync.Mutex
	busy bool
}

// NewReservationFlow creates a flow with no submission in flight.
func NewReservationFlow() *ReservationFlow {
	return &ReservationFlow{}
}

// Execute validates and submits one reservation.
// All preconditions run before any network call: role gate, assigned
// coach, effective date not in the past, and the advisory local duplicate
// key. On success the (client, workshop) key is recorded durably and a
// confirmation email is sent best-effort.
func (f *ReservationFlow) Execute(ctx context.Context, input ReserveInput, deps ReserveDeps) (reservation.Reservation, error) {
	if !input.Session.CanReserve() {
		return reservation.Reservation{}, ErrReserveNotAllowed
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return reservation.Reservation{}, ErrReserveBusy
	}
	f.busy = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	if !input.Workshop.HasCoach() {
		return reservation.Reservation{}, reservation.ErrNoCoach
	}

	date := reservation.EffectiveDate(input.Date, input.Workshop, now())
	if err := reservation.ValidateDate(date, now()); err != nil {
		return reservation.Reservation{}, err
	}

	clientID := input.Session.User.ID
	key := reservation.Key(clientID, input.Workshop.ID)
	if has, err := deps.Keys.Has(ctx, key); err != nil {
		// The local set is advisory; a read failure must not block the
		// booking. The server still enforces uniqueness.
		log.Warn().Err(err).Str("key", key).Msg("reservation key lookup failed")
	} else if has {
		return reservation.Reservation{}, reservation.ErrAlreadyReserved
	}

	res, err := deps.Reservations.CreateReservation(ctx, input.Session.Token, reservation.Request{
		AtelierID:       input.Workshop.ID,
		ClientID:        clientID,
		DateReservation: date,
	})
	if err != nil {
		if upstream.IsDuplicate(err) {
			return reservation.Reservation{}, reservation.ErrAlreadyReserved
		}
		return reservation.Reservation{}, err
	}

	if err := deps.Keys.Add(ctx, clientID, input.Workshop.ID, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to record reservation key")
	}
	log.Info().Str("key", key).Str("date", date).Msg("reservation confirmed")

	if deps.Mailer != nil && res.ClientEmail != "" {
		if _, err := deps.Mailer.Send(ctx, email.ReservationConfirmation(res, input.Workshop)); err != nil {
			log.Warn().Err(err).Int("atelier_id", input.Workshop.ID).Msg("confirmation email failed")
		}
	}
	return res, nil
}
