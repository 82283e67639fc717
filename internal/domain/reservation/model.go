package reservation

import (
	"errors"
	"fmt"
	"time"

	"ateliers/internal/domain/workshop"
)

// KeySeparator joins client and workshop ids in the advisory duplicate key.
const KeySeparator = "::"

// Domain errors checked before any upstream call.
var (
	ErrNoCoach         = errors.New("this workshop has no assigned coach yet")
	ErrDateInPast      = errors.New("reservation date cannot be in the past")
	ErrAlreadyReserved = errors.New("you have already reserved this workshop")
)

// Reservation is a client's booking of a seat in a workshop, as returned
// by the upstream API with denormalized display fields.
type Reservation struct {
	ID                 int    `json:"id,omitempty"`
	AtelierID          int    `json:"atelierId"`
	ClientID           int    `json:"clientId"`
	DateReservation    string `json:"dateReservation"`
	ClientNom          string `json:"clientNom,omitempty"`
	ClientEmail        string `json:"clientEmail,omitempty"`
	AtelierNom         string `json:"atelierNom,omitempty"`
	AtelierDescription string `json:"atelierDescription,omitempty"`
}

// Request is the creation payload sent upstream.
type Request struct {
	AtelierID       int    `json:"atelierId" validate:"required,gt=0"`
	ClientID        int    `json:"clientId" validate:"required,gt=0"`
	DateReservation string `json:"dateReservation" validate:"required,ymd"`
}

// Key composes the advisory duplicate-reservation key for a (client,
// workshop) pair, e.g. "7::42".
func Key(clientID, workshopID int) string {
	return fmt.Sprintf("%d%s%d", clientID, KeySeparator, workshopID)
}

// EffectiveDate resolves the date a reservation is made for: the explicit
// user selection when present, else the workshop's own date, else today.
// POST: result is in workshop.DateLayout format
func EffectiveDate(explicit string, w workshop.Workshop, today time.Time) string {
	if explicit != "" {
		return explicit
	}
	if w.Date != "" {
		return w.Date
	}
	return today.Format(workshop.DateLayout)
}

// ValidateDate rejects dates strictly before today, at day granularity.
func ValidateDate(date string, today time.Time) error {
	d, err := time.ParseInLocation(workshop.DateLayout, date, time.Local)
	if err != nil {
		return fmt.Errorf("reservation date must use YYYY-MM-DD: %w", err)
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if d.Before(day) {
		return ErrDateInPast
	}
	return nil
}
