// Package admin — JSON-API админки: список пользователей, смена роли,
// аналитика по каталогу. Доступ только с ролью admin.
package admin

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"lume/internal/auth"
	"lume/internal/models"
)

// Directory — что админке нужно от хранилища пользователей.
type Directory interface {
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id uint, p models.UserPatch) (*models.User, error)
}

// Reporter — источник агрегатов по каталогу.
type Reporter interface {
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type Dependencies struct {
	Users    Directory
	Reports  Reporter
	Sessions *auth.Sessions
}

// Attach вешает админ-маршруты под /api/admin.
func Attach(r *mux.Router, d Dependencies) {
	h := &Handler{d: d}
	sub := r.PathPrefix("/api/admin").Subrouter()
	sub.Use(auth.RequireAdmin(d.Sessions))

	sub.HandleFunc("/users", h.UsersList).Methods(http.MethodGet)
	sub.HandleFunc("/users/{id:[0-9]+}", h.UserUpdateRole).Methods(http.MethodPut)
	sub.HandleFunc("/analytics", h.Analytics).Methods(http.MethodGet)
}
