package web

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"

	"ateliers/internal/application/orchestrators"
	"ateliers/internal/domain/coach"
	"ateliers/internal/domain/workshop"
	"ateliers/pkg/validator"
)

var errDraftNeedsPassword = errors.New("a password is required for a new coach account")

// handleCoaches handles GET (directory, optionally filtered by category)
// and POST (admin provisions a coach account) for /coaches
func handleCoaches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := currentSession(r)
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		coaches, err := orchestrators.ExecuteLoadCoaches(ctx,
			orchestrators.LoadCoachesInput{Session: sess},
			orchestrators.LoadCoachesDeps{Coaches: api},
		)
		if err != nil {
			httpError(w, r, sess, err)
			return
		}

		category := r.URL.Query().Get("categorie")
		filtered := orchestrators.FilterCoachesByCategory(coaches, category)

		if isHTML {
			renderTemplate(w, r, "coaches.html", map[string]any{
				"Coaches":    filtered,
				"Category":   category,
				"Categories": workshop.ValidCategories,
				"CSRFToken":  csrf.Token(r),
			})
			return
		}
		writeJSON(w, http.StatusOK, filtered)
		return
	}

	if r.Method == "POST" {
		if !sess.IsAdmin() {
			httpError(w, r, sess, orchestrators.ErrNotAllowed)
			return
		}

		draft, err := decodeCoachDraft(r)
		if err != nil {
			badRequest(w, r, sess, err)
			return
		}
		if err := validator.Validate(draft); err != nil {
			badRequest(w, r, sess, err)
			return
		}
		// A new account needs a password; on edit it stays optional.
		if draft.Password == "" {
			badRequest(w, r, sess, errDraftNeedsPassword)
			return
		}

		created, err := api.CreateCoach(ctx, sess.Token, draft)
		if err != nil {
			httpError(w, r, sess, err)
			return
		}

		notifySuccess(sess, "Coach account created.")
		if isHTML {
			http.Redirect(w, r, "/coaches", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func decodeCoachDraft(r *http.Request) (coach.Draft, error) {
	var draft coach.Draft
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			return draft, err
		}
		draft.FullName = r.FormValue("FullName")
		draft.Email = r.FormValue("Email")
		draft.Specialite = r.FormValue("Specialite")
		draft.Password = r.FormValue("Password")
		return draft, nil
	}
	err := strictDecode(r, &draft)
	return draft, err
}

// handleCoachUpdate handles POST /coaches/{id}. The password is optional
// on edit; when present it must still meet the minimum length.
func handleCoachUpdate(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if !sess.IsAdmin() {
		httpError(w, r, sess, orchestrators.ErrNotAllowed)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	draft, err := decodeCoachDraft(r)
	if err != nil {
		badRequest(w, r, sess, err)
		return
	}
	if err := validator.Validate(draft); err != nil {
		badRequest(w, r, sess, err)
		return
	}

	updated, err := api.UpdateCoach(r.Context(), sess.Token, id, draft)
	if err != nil {
		httpError(w, r, sess, err)
		return
	}

	notifySuccess(sess, "Coach updated.")
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/coaches", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleCoachDelete handles POST /coaches/{id}/delete
func handleCoachDelete(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if !sess.IsAdmin() {
		httpError(w, r, sess, orchestrators.ErrNotAllowed)
		return
	}

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := api.DeleteCoach(r.Context(), sess.Token, id); err != nil {
		httpError(w, r, sess, err)
		return
	}

	notifySuccess(sess, "Coach removed.")
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/coaches", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
