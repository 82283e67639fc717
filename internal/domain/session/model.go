package session

import "strings"

// Role constants as issued by the upstream auth service. Any authenticated
// user whose role is neither ADMIN nor COACH is treated as a client.
const (
	RoleAdmin  = "ADMIN"
	RoleCoach  = "COACH"
	RoleClient = "CLIENT"
)

// User is the authenticated identity attached to a session, as returned by
// the upstream login endpoint.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Session is the per-browser authentication context: the upstream bearer
// token plus the user it identifies. A zero Session is unauthenticated.
type Session struct {
	Token string
	User  User
}

// IsAuthenticated reports whether the session carries a usable token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsAdmin reports whether the session user has the ADMIN role.
func (s Session) IsAdmin() bool {
	return s.IsAuthenticated() && normalizeRole(s.User.Role) == RoleAdmin
}

// IsCoach reports whether the session user has the COACH role.
func (s Session) IsCoach() bool {
	return s.IsAuthenticated() && normalizeRole(s.User.Role) == RoleCoach
}

// CanManageWorkshops reports whether the session may create, update, or
// delete workshops. Only admins may; the upstream server remains the
// authority.
func (s Session) CanManageWorkshops() bool {
	return s.IsAdmin()
}

// CanReserve reports whether the session may book a workshop seat. Admins
// and coaches may not reserve; any other authenticated user may.
func (s Session) CanReserve() bool {
	return s.IsAuthenticated() && !s.IsAdmin() && !s.IsCoach()
}

func normalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}
