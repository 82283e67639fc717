package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"ateliers/internal/domain/reservation"
	"ateliers/internal/domain/workshop"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string
	From    string // Sender address (e.g. "Ateliers <noreply@ateliers.example>")
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// ReservationConfirmation builds the confirmation message sent after a
// successful booking. Delivery is best effort; failures never surface to
// the user.
func ReservationConfirmation(res reservation.Reservation, w workshop.Workshop) SendRequest {
	name := res.AtelierNom
	if name == "" {
		name = w.Nom
	}
	when := res.DateReservation
	if w.Heure != "" {
		when = when + " " + w.Heure
	}
	body := fmt.Sprintf(
		"<p>Your reservation for <strong>%s</strong> on %s is confirmed.</p>",
		html.EscapeString(name), html.EscapeString(when),
	)
	return SendRequest{
		To:      []string{res.ClientEmail},
		Subject: fmt.Sprintf("Reservation confirmed: %s", name),
		HTML:    body,
	}
}
