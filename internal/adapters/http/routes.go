package web

import "net/http"

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/{$}", handleHome)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/register", handleRegister)
	mux.HandleFunc("POST /logout", handleLogout)

	mux.HandleFunc("/ateliers", handleAteliers)
	mux.HandleFunc("/ateliers/{id}", handleAtelier)
	mux.HandleFunc("POST /ateliers/{id}/delete", handleAtelierDelete)
	mux.HandleFunc("POST /ateliers/{id}/reserve", handleAtelierReserve)

	mux.HandleFunc("/coaches", handleCoaches)
	mux.HandleFunc("POST /coaches/{id}", handleCoachUpdate)
	mux.HandleFunc("POST /coaches/{id}/delete", handleCoachDelete)

	mux.HandleFunc("GET /api/toasts", handleToasts)
	mux.HandleFunc("POST /api/toasts/{id}/dismiss", handleToastDismiss)
}

func handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/ateliers", http.StatusSeeOther)
}
