package upstream

import (
	"context"
	"fmt"
	"net/http"

	"ateliers/internal/domain/session"
)

// Credentials is the login payload for the public auth endpoint.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up payload for the public registration endpoint.
type Registration struct {
	FullName string `json:"fullName" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthResponse is what the upstream auth collaborator returns on login.
type AuthResponse struct {
	Token   string       `json:"token"`
	User    session.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

// Login exchanges credentials for a bearer token. Public endpoint: no
// Authorization header is attached.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", "", creds, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Register creates an account with the given role. Public endpoint.
func (c *Client) Register(ctx context.Context, role string, reg Registration) (AuthResponse, error) {
	var out AuthResponse
	path := fmt.Sprintf("/user/register/%s", role)
	if err := c.do(ctx, http.MethodPost, path, "", reg, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}
