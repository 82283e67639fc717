// Package middleware provides HTTP middleware for session handling,
// CSRF protection, rate limiting and security headers.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"ateliers/internal/domain/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "ateliers_session"

// sessionTTL bounds how long a browser session stays valid locally.
// The upstream bearer token may expire sooner; handlers translate the
// resulting 401 into a fresh login prompt.
const sessionTTL = 24 * time.Hour

// SecureCookies marks session cookies Secure. Enabled in production by
// the server wiring.
var SecureCookies = false

type storedSession struct {
	sess      session.Session
	expiresAt time.Time
}

// SessionStore keeps browser sessions in memory, keyed by an opaque
// cookie token. Each session carries the upstream bearer token, so a
// server restart simply asks users to log in again.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]storedSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]storedSession)}
}

// Create registers sess and returns the cookie token identifying it.
//
// POST: Get(token) returns sess until the session expires or is deleted.
func (s *SessionStore) Create(sess session.Session) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = storedSession{sess: sess, expiresAt: time.Now().Add(sessionTTL)}
	return token, nil
}

func (s *SessionStore) Get(token string) (session.Session, bool) {
	s.mu.RLock()
	stored, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return session.Session{}, false
	}
	if time.Now().After(stored.expiresAt) {
		s.Delete(token)
		return session.Session{}, false
	}
	return stored.sess, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Auth resolves the session cookie and, when valid, attaches the
// session to the request context. Requests without a session pass
// through untouched; gating happens in RequireAuth / RequireRole.
func Auth(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil {
				if sess, ok := store.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that carry no authenticated session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok || !sess.IsAuthenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects authenticated requests whose user lacks role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok || !sess.IsAuthenticated() {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if sess.User.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ContextWithSession returns a context carrying sess. Exported for
// handler tests that bypass the cookie round trip.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func GetSessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(session.Session)
	return sess, ok
}

func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
