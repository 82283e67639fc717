package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"ateliers/internal/adapters/http/middleware"
	"ateliers/internal/application/orchestrators"
	"ateliers/internal/domain/reservation"
	"ateliers/internal/domain/session"
	"ateliers/internal/domain/workshop"
	"ateliers/internal/upstream"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

const templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isFormRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

// internalError logs the real error and returns a generic message to the
// client, so internal details never leak.
func internalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("internal_error")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// notify pushes a toast onto the caller's notification sink. Anonymous
// sessions have no sink; the toast is dropped.
func notify(sess session.Session, severity func(*orchestrators.Notifier, string), message string) {
	if st := stateFor(sess); st != nil {
		severity(st.notifier, message)
	}
}

func notifySuccess(sess session.Session, message string) {
	notify(sess, func(n *orchestrators.Notifier, m string) { n.Success(m) }, message)
}

func notifyWarn(sess session.Session, message string) {
	notify(sess, func(n *orchestrators.Notifier, m string) { n.Warn(m) }, message)
}

func notifyError(sess session.Session, message string) {
	notify(sess, func(n *orchestrators.Notifier, m string) { n.Error(m) }, message)
}

// userMessage extracts a message safe to show to the user.
func userMessage(err error) string {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}

// validationErrors are domain failures the user can fix by editing the
// form; they map to 400 and their message is shown verbatim.
var validationErrors = []error{
	workshop.ErrNameTooShort,
	workshop.ErrDescriptionTooShort,
	workshop.ErrCategoryRequired,
	workshop.ErrDateRequired,
	workshop.ErrDateTooSoon,
	workshop.ErrTimeRequired,
	workshop.ErrCoachRequired,
	workshop.ErrUnknownCoach,
	reservation.ErrNoCoach,
	reservation.ErrDateInPast,
	orchestrators.ErrNotConfirmed,
}

// httpError translates a handler failure into an HTTP response and a
// toast on the caller's notification sink.
func httpError(w http.ResponseWriter, r *http.Request, sess session.Session, err error) {
	msg := userMessage(err)

	// The reservation role gate, the duplicate rejection, and benign
	// forbidden boundaries are expected outcomes, not failures: they
	// toast as warnings.
	warn := errors.Is(err, orchestrators.ErrReserveNotAllowed) ||
		errors.Is(err, reservation.ErrAlreadyReserved) ||
		upstream.IsForbidden(err)

	status := 0
	switch {
	case errors.Is(err, orchestrators.ErrNotAllowed),
		errors.Is(err, orchestrators.ErrReserveNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, orchestrators.ErrReserveBusy),
		errors.Is(err, reservation.ErrAlreadyReserved):
		status = http.StatusConflict
	}
	if status == 0 {
		for _, ve := range validationErrors {
			if errors.Is(err, ve) {
				status = http.StatusBadRequest
				break
			}
		}
	}

	var ue *upstream.Error
	if status == 0 && errors.As(err, &ue) {
		switch ue.Kind {
		case upstream.KindAuthRequired:
			// The upstream token is gone; the local session is useless.
			clearSession(w, r)
			if isHTMLRequest(r) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			status = http.StatusUnauthorized
		case upstream.KindForbidden:
			status = http.StatusForbidden
		case upstream.KindValidation:
			status = http.StatusBadRequest
		case upstream.KindConflict:
			status = http.StatusConflict
		case upstream.KindNotFound:
			status = http.StatusNotFound
		case upstream.KindNetwork:
			status = http.StatusBadGateway
			msg = "The service is unreachable. Please try again later."
		default:
			status = http.StatusBadGateway
		}
	}

	if status == 0 {
		internalError(w, err)
		return
	}

	if warn {
		notifyWarn(sess, msg)
	} else {
		notifyError(sess, msg)
	}
	if isHTMLRequest(r) {
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, status, map[string]string{"message": msg})
}

// badRequest rejects malformed input (undecodable body, failed field
// validation) before any orchestrator runs.
func badRequest(w http.ResponseWriter, r *http.Request, sess session.Session, err error) {
	msg := err.Error()
	notifyError(sess, msg)
	if isHTMLRequest(r) {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": msg})
}

func clearSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("ateliers_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		dropState(sess)
	}
	middleware.ClearSessionCookie(w)
}

func currentSession(r *http.Request) session.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess := currentSession(r)

	funcMap := template.FuncMap{
		"currentRole":  func() string { return sess.User.Role },
		"currentEmail": func() string { return sess.User.Email },
		"isLoggedIn":   func() bool { return sess.IsAuthenticated() },
		"isAdmin":      func() bool { return sess.IsAdmin() },
		"canReserve":   func() bool { return sess.CanReserve() },
		"csrfToken":    func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"workshopImage": func(ws workshop.Workshop) string { return ws.ImageURL() },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}
