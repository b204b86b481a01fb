package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает auth-эндпоинты под /api/auth.
func RegisterRoutes(r *mux.Router, h *Handler) {
	sub := r.PathPrefix("/api/auth").Subrouter()
	sub.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	sub.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	sub.HandleFunc("/google", h.Google).Methods(http.MethodPost)
	sub.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	sub.HandleFunc("/me", h.Me).Methods(http.MethodGet)
}
