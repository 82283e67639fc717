package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"

	"ateliers/internal/application/orchestrators"
	"ateliers/internal/domain/coach"
	"ateliers/internal/domain/reservation"
	"ateliers/internal/domain/session"
	"ateliers/internal/domain/workshop"
)

// loadCoachDirectory fetches the coach list for the current session. A
// failure is downgraded to an empty list with a warning toast: the
// workshop directory must still render without it.
func loadCoachDirectory(r *http.Request, sess session.Session) []coach.Coach {
	coaches, err := orchestrators.ExecuteLoadCoaches(r.Context(),
		orchestrators.LoadCoachesInput{Session: sess},
		orchestrators.LoadCoachesDeps{Coaches: api},
	)
	if err != nil {
		log.Warn().Err(err).Msg("coach directory load failed")
		notifyWarn(sess, "Could not load the coach list.")
		return nil
	}
	return coaches
}

// handleAteliers handles both GET (directory) and POST (create) for /ateliers
func handleAteliers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := currentSession(r)
	isHTML := isHTMLRequest(r)

	if r.Method == "GET" {
		coaches := loadCoachDirectory(r, sess)

		workshops, err := orchestrators.ExecuteLoadWorkshops(ctx,
			orchestrators.LoadWorkshopsInput{Session: sess, Coaches: coaches},
			orchestrators.LoadWorkshopsDeps{Ateliers: api, Updater: api, Now: timeNow},
		)
		if err != nil {
			httpError(w, r, sess, err)
			return
		}

		if isHTML {
			renderTemplate(w, r, "ateliers.html", map[string]any{
				"Workshops":  workshops,
				"Coaches":    coaches,
				"Categories": workshop.ValidCategories,
				"CSRFToken":  csrf.Token(r),
			})
			return
		}
		writeJSON(w, http.StatusOK, workshops)
		return
	}

	if r.Method == "POST" {
		// Gate before the coach-directory fetch: a forbidden attempt
		// must not produce any upstream call. The orchestrator checks
		// again.
		if !sess.CanManageWorkshops() {
			httpError(w, r, sess, orchestrators.ErrNotAllowed)
			return
		}

		draft, err := decodeDraft(r)
		if err != nil {
			badRequest(w, r, sess, err)
			return
		}

		coaches := loadCoachDirectory(r, sess)
		created, err := orchestrators.ExecuteCreateWorkshop(ctx,
			orchestrators.CreateWorkshopInput{Session: sess, Draft: draft, Coaches: coaches},
			orchestrators.SaveWorkshopDeps{Ateliers: api, Now: timeNow},
		)
		if err != nil {
			httpError(w, r, sess, err)
			return
		}

		notifySuccess(sess, "Workshop created.")
		if isHTML {
			http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusCreated, created)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

func decodeDraft(r *http.Request) (workshop.Draft, error) {
	var draft workshop.Draft
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			return draft, err
		}
		draft.Nom = r.FormValue("Nom")
		draft.Description = r.FormValue("Description")
		draft.Categorie = r.FormValue("Categorie")
		draft.Date = r.FormValue("Date")
		draft.Heure = r.FormValue("Heure")
		draft.CoachID, _ = strconv.Atoi(r.FormValue("CoachID"))
		return draft, nil
	}
	err := strictDecode(r, &draft)
	return draft, err
}

// handleAtelier handles GET (detail/edit view) and POST (update) for
// /ateliers/{id}
func handleAtelier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := currentSession(r)
	isHTML := isHTMLRequest(r)

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if r.Method == "GET" {
		ws, err := api.GetWorkshop(ctx, sess.Token, id)
		if err != nil {
			httpError(w, r, sess, err)
			return
		}

		if isHTML {
			name := "atelier.html"
			if sess.CanManageWorkshops() {
				name = "atelier_edit.html"
			}
			renderTemplate(w, r, name, map[string]any{
				"Workshop":   ws,
				"Coaches":    loadCoachDirectory(r, sess),
				"Categories": workshop.ValidCategories,
				"CSRFToken":  csrf.Token(r),
			})
			return
		}
		writeJSON(w, http.StatusOK, ws)
		return
	}

	if r.Method == "POST" {
		// Same pre-fetch gate as create: no upstream traffic for a
		// caller who cannot edit.
		if !sess.CanManageWorkshops() {
			httpError(w, r, sess, orchestrators.ErrNotAllowed)
			return
		}

		draft, err := decodeDraft(r)
		if err != nil {
			badRequest(w, r, sess, err)
			return
		}
		ws := workshop.Workshop{
			Nom:         draft.Nom,
			Description: draft.Description,
			Categorie:   draft.Categorie,
			Date:        draft.Date,
			Heure:       draft.Heure,
			CoachID:     draft.CoachID,
		}

		updated, err := orchestrators.ExecuteUpdateWorkshop(ctx,
			orchestrators.UpdateWorkshopInput{
				Session:  sess,
				ID:       id,
				Workshop: ws,
				Coaches:  loadCoachDirectory(r, sess),
			},
			orchestrators.SaveWorkshopDeps{Ateliers: api, Now: timeNow},
		)
		if err != nil {
			httpError(w, r, sess, err)
			return
		}

		notifySuccess(sess, "Workshop updated.")
		if isHTML {
			http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, updated)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAtelierDelete handles POST /ateliers/{id}/delete
func handleAtelierDelete(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	confirmed := false
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		confirmed = r.FormValue("Confirmed") == "true"
	} else {
		var body struct {
			Confirmed bool `json:"confirmed"`
		}
		if err := strictDecode(r, &body); err != nil {
			badRequest(w, r, sess, err)
			return
		}
		confirmed = body.Confirmed
	}

	err = orchestrators.ExecuteDeleteWorkshop(r.Context(),
		orchestrators.DeleteWorkshopInput{Session: sess, ID: id, Confirmed: confirmed},
		orchestrators.SaveWorkshopDeps{Ateliers: api},
	)
	if err != nil {
		httpError(w, r, sess, err)
		return
	}

	notifySuccess(sess, "Workshop deleted.")
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAtelierReserve handles POST /ateliers/{id}/reserve
func handleAtelierReserve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := currentSession(r)

	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	st := stateFor(sess)
	if st == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	date := ""
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		date = r.FormValue("DateReservation")
	} else {
		var body struct {
			DateReservation string `json:"dateReservation"`
		}
		if err := strictDecode(r, &body); err != nil {
			badRequest(w, r, sess, err)
			return
		}
		date = body.DateReservation
	}

	// Both gates that need no workshop data run before the fetch, so a
	// doomed attempt produces zero upstream traffic. The flow re-checks
	// both.
	if !sess.CanReserve() {
		httpError(w, r, sess, orchestrators.ErrReserveNotAllowed)
		return
	}
	key := reservation.Key(sess.User.ID, id)
	if has, err := keys.Has(ctx, key); err != nil {
		// Advisory set only; a read failure falls through to the flow.
		log.Warn().Err(err).Str("key", key).Msg("reservation key lookup failed")
	} else if has {
		httpError(w, r, sess, reservation.ErrAlreadyReserved)
		return
	}

	ws, err := api.GetWorkshop(ctx, sess.Token, id)
	if err != nil {
		httpError(w, r, sess, err)
		return
	}

	res, err := st.flow.Execute(ctx,
		orchestrators.ReserveInput{Session: sess, Workshop: ws, Date: date},
		orchestrators.ReserveDeps{Reservations: api, Keys: keys, Mailer: mailer, Now: timeNow},
	)
	if err != nil {
		httpError(w, r, sess, err)
		return
	}

	notifySuccess(sess, "Your reservation is confirmed.")
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
