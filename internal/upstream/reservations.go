package upstream

import (
	"context"
	"net/http"

	"ateliers/internal/domain/reservation"
)

// CreateReservation books a seat. The upstream enforces the one-per-
// (client, workshop) uniqueness constraint and answers with a conflict
// when it is violated; callers detect that via IsDuplicate.
func (c *Client) CreateReservation(ctx context.Context, token string, req reservation.Request) (reservation.Reservation, error) {
	var out reservation.Reservation
	if err := c.do(ctx, http.MethodPost, "/api/reservations", token, req, &out); err != nil {
		return reservation.Reservation{}, err
	}
	if out.AtelierID == 0 {
		out.AtelierID = req.AtelierID
	}
	if out.ClientID == 0 {
		out.ClientID = req.ClientID
	}
	return out, nil
}
