package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"lume/internal/auth"
)

// RegisterRoutes вешает каталог и закладки под /api.
// Чтение каталога публичное; мутации и всё про закладки — только с сессией.
func RegisterRoutes(r *mux.Router, h *Handler, sessions *auth.Sessions) {
	pub := r.PathPrefix("/api").Subrouter()
	pub.HandleFunc("/watches", h.ListWatches).Methods(http.MethodGet)
	pub.HandleFunc("/watches/{id:[0-9]+}", h.GetWatch).Methods(http.MethodGet)

	priv := r.PathPrefix("/api").Subrouter()
	priv.Use(auth.RequireAuth(sessions))
	priv.HandleFunc("/watches", h.CreateWatch).Methods(http.MethodPost)
	priv.HandleFunc("/watches/{id:[0-9]+}", h.UpdateWatch).Methods(http.MethodPut)
	priv.HandleFunc("/watches/{id:[0-9]+}", h.DeleteWatch).Methods(http.MethodDelete)

	priv.HandleFunc("/favorites", h.ListFavorites).Methods(http.MethodGet)
	priv.HandleFunc("/favorites", h.AddFavorite).Methods(http.MethodPost)
	priv.HandleFunc("/favorites/{watchId:[0-9]+}", h.CheckFavorite).Methods(http.MethodGet)
	priv.HandleFunc("/favorites/{watchId:[0-9]+}", h.RemoveFavorite).Methods(http.MethodDelete)
}
