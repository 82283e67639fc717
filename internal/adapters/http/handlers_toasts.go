package web

import (
	"net/http"
	"strconv"

	"ateliers/internal/domain/toast"
)

// handleToasts handles GET /api/toasts: the active notifications for the
// calling session. Anonymous callers get an empty list.
func handleToasts(w http.ResponseWriter, r *http.Request) {
	st := stateFor(currentSession(r))
	if st == nil {
		writeJSON(w, http.StatusOK, []toast.Toast{})
		return
	}
	writeJSON(w, http.StatusOK, st.notifier.Active())
}

// handleToastDismiss handles POST /api/toasts/{id}/dismiss. Dismissing an
// unknown or already-expired toast is a no-op.
func handleToastDismiss(w http.ResponseWriter, r *http.Request) {
	st := stateFor(currentSession(r))
	if st == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	st.notifier.Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}
