package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"ateliers/internal/domain/reservation"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, zerolog.Nop()), srv
}

// TestClient_ListWorkshops_NormalizesWireFormats verifies that ISO
// timestamps and HH:MM:SS times from the upstream are clamped.
func TestClient_ListWorkshops_NormalizesWireFormats(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ateliers" {
			t.Errorf("path = %q, want /api/ateliers", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("X-Request-Id header missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"nom":"Aquarelle","description":"d","categorie":"ART","date":"2025-03-01T00:00:00Z","heure":"14:00:00"}]`))
	})
	defer srv.Close()

	ws, err := c.ListWorkshops(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListWorkshops() error = %v", err)
	}
	if len(ws) != 1 || ws[0].Date != "2025-03-01" || ws[0].Heure != "14:00" {
		t.Errorf("normalized workshop = %+v", ws)
	}
}

// TestClient_Login_SkipsAuthHeader verifies the public endpoints send no
// bearer token.
func TestClient_Login_SkipsAuthHeader(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty on public endpoint", got)
		}
		w.Write([]byte(`{"token":"jwt","user":{"id":7,"email":"c@example.com","role":"CLIENT"}}`))
	})
	defer srv.Close()

	resp, err := c.Login(context.Background(), Credentials{Email: "c@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.Token != "jwt" || resp.User.ID != 7 {
		t.Errorf("Login() = %+v", resp)
	}
}

// TestClient_ErrorClassification verifies status codes map to the error
// taxonomy and server messages are preserved.
func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
	}{
		{name: "401", status: 401, body: `{}`, wantKind: KindAuthRequired, wantMsg: "Your session has expired. Please log in again."},
		{name: "403", status: 403, body: `{}`, wantKind: KindForbidden, wantMsg: "You do not have permission to do this."},
		{name: "404", status: 404, body: `{}`, wantKind: KindNotFound, wantMsg: "The requested resource was not found."},
		{name: "409", status: 409, body: `{}`, wantKind: KindConflict, wantMsg: "You have already reserved this workshop."},
		{name: "500", status: 500, body: ``, wantKind: KindServer, wantMsg: "An unexpected server error occurred. Please try again."},
		{name: "server message wins", status: 400, body: `{"message":"nom invalide"}`, wantKind: KindValidation, wantMsg: "nom invalide"},
		{name: "french duplicate in 400", status: 400, body: `{"message":"Vous avez déjà réservé cet atelier"}`, wantKind: KindConflict, wantMsg: "Vous avez déjà réservé cet atelier"},
		{name: "garbage body falls back", status: 503, body: `<html>`, wantKind: KindServer, wantMsg: "An unexpected server error occurred. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			defer srv.Close()

			_, err := c.ListWorkshops(context.Background(), "tok")
			ue, ok := err.(*Error)
			if !ok {
				t.Fatalf("error = %v (%T), want *Error", err, err)
			}
			if ue.Kind != tt.wantKind || ue.Status != tt.status || ue.Message != tt.wantMsg {
				t.Errorf("got kind=%s status=%d msg=%q, want kind=%s status=%d msg=%q",
					ue.Kind, ue.Status, ue.Message, tt.wantKind, tt.status, tt.wantMsg)
			}
		})
	}
}

// TestClient_NetworkUnreachable verifies transport failures become the
// status-0 network error.
func TestClient_NetworkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // now nothing listens

	c := New(srv.URL, zerolog.Nop())
	_, err := c.ListWorkshops(context.Background(), "tok")
	ue, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
	if ue.Kind != KindNetwork || ue.Status != 0 {
		t.Errorf("got kind=%s status=%d, want network/0", ue.Kind, ue.Status)
	}
}

// TestIsDuplicate covers both ways the server reports a duplicate booking.
func TestIsDuplicate(t *testing.T) {
	if !IsDuplicate(&Error{Kind: KindConflict, Status: 409}) {
		t.Error("409 conflict not detected as duplicate")
	}
	if !IsDuplicate(&Error{Kind: KindValidation, Status: 400, Message: "ALREADY reserved"}) {
		t.Error("case-insensitive 'already' message not detected")
	}
	if IsDuplicate(&Error{Kind: KindValidation, Status: 400, Message: "nom invalide"}) {
		t.Error("plain validation error flagged as duplicate")
	}
	if IsDuplicate(nil) {
		t.Error("nil flagged as duplicate")
	}
}

// TestClient_CreateReservation_BackfillsIDs verifies sparse upstream
// responses still identify the booked pair.
func TestClient_CreateReservation_BackfillsIDs(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":3,"dateReservation":"2025-01-10","clientNom":"Chloé"}`))
	})
	defer srv.Close()

	res, err := c.CreateReservation(context.Background(), "tok", reservation.Request{
		AtelierID: 42, ClientID: 7, DateReservation: "2025-01-10",
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	if res.AtelierID != 42 || res.ClientID != 7 || res.ID != 3 {
		t.Errorf("reservation = %+v", res)
	}
}
