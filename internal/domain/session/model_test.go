package session_test

import (
	"testing"

	"ateliers/internal/domain/session"
)

// TestSession_RoleGates tests the authorization predicates per role.
func TestSession_RoleGates(t *testing.T) {
	tests := []struct {
		name       string
		s          session.Session
		manage     bool
		reserve    bool
		authed     bool
		admin      bool
		coach      bool
	}{
		{
			name:    "unauthenticated",
			s:       session.Session{},
			manage:  false, reserve: false, authed: false, admin: false, coach: false,
		},
		{
			name:   "admin",
			s:      session.Session{Token: "t", User: session.User{ID: 1, Role: session.RoleAdmin}},
			manage: true, reserve: false, authed: true, admin: true, coach: false,
		},
		{
			name:   "coach",
			s:      session.Session{Token: "t", User: session.User{ID: 2, Role: session.RoleCoach}},
			manage: false, reserve: false, authed: true, admin: false, coach: true,
		},
		{
			name:   "client",
			s:      session.Session{Token: "t", User: session.User{ID: 7, Role: session.RoleClient}},
			manage: false, reserve: true, authed: true, admin: false, coach: false,
		},
		{
			// The upstream has issued lowercase roles in older tokens.
			name:   "lowercase admin role",
			s:      session.Session{Token: "t", User: session.User{ID: 3, Role: "admin"}},
			manage: true, reserve: false, authed: true, admin: true, coach: false,
		},
		{
			name:   "unknown role reserves like a client",
			s:      session.Session{Token: "t", User: session.User{ID: 9, Role: "USER"}},
			manage: false, reserve: true, authed: true, admin: false, coach: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsAuthenticated(); got != tt.authed {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.authed)
			}
			if got := tt.s.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.admin)
			}
			if got := tt.s.IsCoach(); got != tt.coach {
				t.Errorf("IsCoach() = %v, want %v", got, tt.coach)
			}
			if got := tt.s.CanManageWorkshops(); got != tt.manage {
				t.Errorf("CanManageWorkshops() = %v, want %v", got, tt.manage)
			}
			if got := tt.s.CanReserve(); got != tt.reserve {
				t.Errorf("CanReserve() = %v, want %v", got, tt.reserve)
			}
		})
	}
}
