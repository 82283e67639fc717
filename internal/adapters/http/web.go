// Package web exposes the browser-facing HTTP surface: server-rendered
// pages and a JSON API over the same handlers, gated by session, CSRF
// and rate-limit middleware.
package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"ateliers/internal/adapters/email"
	"ateliers/internal/adapters/http/middleware"
	"ateliers/internal/adapters/storage/reskey"
	"ateliers/internal/application/orchestrators"
	"ateliers/internal/config"
	"ateliers/internal/domain/session"
	"ateliers/internal/upstream"
)

// Deps holds the adapters the web layer drives.
type Deps struct {
	Upstream *upstream.Client
	Keys     reskey.Store
	Mailer   email.Sender
}

// Global adapter instances (set by NewMux)
var api *upstream.Client
var keys reskey.Store
var mailer email.Sender

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// RateLimitBurst is the per-IP token bucket capacity.
var RateLimitBurst = 20

// sessionState is the per-browser-session UI state: the toast sink and
// the reservation busy flag. Keyed by the upstream bearer token, so it
// lives exactly as long as the login it belongs to.
type sessionState struct {
	notifier *orchestrators.Notifier
	flow     *orchestrators.ReservationFlow
	lastSeen time.Time
}

// stateMaxIdle matches the session TTL: state for a login that cannot
// resolve anymore has nothing left to serve.
const stateMaxIdle = 24 * time.Hour

var (
	statesMu sync.Mutex
	states   map[string]*sessionState
)

// stateFor returns the UI state for sess, creating it on first use.
// Unauthenticated sessions have no state; callers must tolerate nil.
func stateFor(sess session.Session) *sessionState {
	if !sess.IsAuthenticated() {
		return nil
	}
	statesMu.Lock()
	defer statesMu.Unlock()
	st, ok := states[sess.Token]
	if !ok {
		st = &sessionState{
			notifier: orchestrators.NewNotifier(),
			flow:     orchestrators.NewReservationFlow(),
		}
		states[sess.Token] = st
	}
	st.lastSeen = time.Now()
	return st
}

func dropState(sess session.Session) {
	statesMu.Lock()
	defer statesMu.Unlock()
	delete(states, sess.Token)
}

// sweepStates drops state not touched within maxIdle. Sessions that lapse
// by TTL rather than logout are reclaimed here.
func sweepStates(maxIdle time.Duration) {
	statesMu.Lock()
	defer statesMu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	for token, st := range states {
		if st.lastSeen.Before(cutoff) {
			delete(states, token)
		}
	}
}

func sweepStatesLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		sweepStates(stateMaxIdle)
	}
}

// loadCSRFKey decodes the 32-byte hex CSRF secret from the config.
// In production the key MUST be set. In development a random key is
// generated per startup.
func loadCSRFKey(cfg config.Config) []byte {
	if cfg.CSRFKeyHex != "" {
		key, err := hex.DecodeString(cfg.CSRFKeyHex)
		if err != nil || len(key) != 32 {
			log.Fatal().Msg("ATELIERS_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if cfg.IsProduction() {
		log.Fatal().Msg("ATELIERS_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatal().Err(err).Msg("failed to generate CSRF key")
	}
	log.Warn().Msg("using random CSRF key; set ATELIERS_CSRF_KEY for production")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(cfg config.Config, d Deps) http.Handler {
	api = d.Upstream
	keys = d.Keys
	mailer = d.Mailer
	sessions = middleware.NewSessionStore()
	states = make(map[string]*sessionState)
	middleware.SecureCookies = cfg.IsProduction()
	go sweepStatesLoop()

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := loadCSRFKey(cfg)
	limiter := middleware.NewRateLimiter(float64(RateLimitPerSecond), RateLimitBurst)

	// Middleware order: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, cfg.IsProduction()),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
