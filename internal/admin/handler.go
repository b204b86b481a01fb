package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"lume/internal/logs"
	"lume/internal/models"
	"lume/internal/repo"
)

type Handler struct {
	d Dependencies
}

func (h *Handler) UsersList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.d.Users.List(r.Context())
	if err != nil {
		logs.Logger.Errorf("admin: list users: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to fetch users", nil)
		return
	}
	if rows == nil {
		rows = []models.User{}
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

// UserUpdateRole — PUT /api/admin/users/{id}, body {"role":"dealer|admin"}.
// Других полей админка не меняет.
func (h *Handler) UserUpdateRole(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid user id", nil)
		return
	}

	var in struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}
	if in.Role != models.RoleDealer && in.Role != models.RoleAdmin {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "role must be dealer or admin", nil)
		return
	}

	u, err := h.d.Users.Update(r.Context(), uint(id64), models.UserPatch{Role: &in.Role})
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "user not found", nil)
		return
	}
	if err != nil {
		logs.Logger.Errorf("admin: update user %d: %v", id64, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to update user", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.d.Reports.Analytics(r.Context())
	if err != nil {
		logs.Logger.Errorf("admin: analytics: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to compute analytics", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, a)
}
