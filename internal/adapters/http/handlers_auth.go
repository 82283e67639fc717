package web

import (
	"net/http"

	"github.com/gorilla/csrf"

	"ateliers/internal/adapters/http/middleware"
	"ateliers/internal/domain/session"
	"ateliers/internal/upstream"
	"ateliers/pkg/validator"
)

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if sess := currentSession(r); sess.IsAuthenticated() {
			http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		var creds upstream.Credentials
		if isFormRequest(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			creds.Email = r.FormValue("Email")
			creds.Password = r.FormValue("Password")
		} else {
			if err := strictDecode(r, &creds); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		if err := validator.Validate(creds); err != nil {
			loginFailed(w, r, err.Error())
			return
		}

		auth, err := api.Login(r.Context(), creds)
		if err != nil {
			loginFailed(w, r, userMessage(err))
			return
		}

		token, err := sessions.Create(session.Session{Token: auth.Token, User: auth.User})
		if err != nil {
			http.Error(w, "Session error", http.StatusInternalServerError)
			return
		}
		middleware.SetSessionCookie(w, token)

		if isHTMLRequest(r) {
			http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": auth.User})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func loginFailed(w http.ResponseWriter, r *http.Request, msg string) {
	if isHTMLRequest(r) {
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     msg,
		})
		return
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": msg})
}

// handleRegister handles GET (form) and POST (create client account) for
// /register. New sign-ups always get the client role; coach accounts are
// provisioned by an admin from the coach directory.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		if sess := currentSession(r); sess.IsAuthenticated() {
			http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if r.Method == "POST" {
		var reg upstream.Registration
		if isFormRequest(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			reg.FullName = r.FormValue("FullName")
			reg.Email = r.FormValue("Email")
			reg.Password = r.FormValue("Password")
		} else {
			if err := strictDecode(r, &reg); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
		}

		if err := validator.Validate(reg); err != nil {
			registerFailed(w, r, err.Error())
			return
		}

		auth, err := api.Register(r.Context(), "client", reg)
		if err != nil {
			registerFailed(w, r, userMessage(err))
			return
		}

		if isHTMLRequest(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"user": auth.User, "message": auth.Message})
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func registerFailed(w http.ResponseWriter, r *http.Request, msg string) {
	if isHTMLRequest(r) {
		renderTemplate(w, r, "register.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     msg,
		})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": msg})
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSession(w, r)
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
