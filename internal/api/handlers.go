// Package api — REST-слой каталога и закладок. Обработчики тонкие:
// разбор/валидация на границе, дальше — хранилище.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"lume/internal/auth"
	"lume/internal/catalog"
	"lume/internal/logs"
	"lume/internal/models"
	"lume/internal/repo"
)

func NewHandler(watches CatalogStore, favorites FavoriteStore) *Handler {
	return &Handler{watches: watches, favorites: favorites}
}

type Handler struct {
	watches   CatalogStore
	favorites FavoriteStore
}

// ListWatches — GET /api/watches. Пустой фильтр эквивалентен полному
// списку; это не оптимизация, а контракт (§ пустое измерение = нет
// ограничения), но ходим короткой дорогой, как исходный обработчик.
func (h *Handler) ListWatches(w http.ResponseWriter, r *http.Request) {
	f, err := catalog.ParseQuery(r.URL.Query())
	if err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}

	var rows []models.Watch
	if f.IsZero() {
		rows, err = h.watches.All(r.Context())
	} else {
		rows, err = h.watches.ByFilter(r.Context(), f)
	}
	if err != nil {
		logs.Logger.Errorf("list watches: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to fetch watches", nil)
		return
	}
	if rows == nil {
		rows = []models.Watch{}
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) GetWatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	watch, err := h.watches.ByID(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "watch not found", nil)
		return
	}
	if err != nil {
		logs.Logger.Errorf("get watch %d: %v", id, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to fetch watch", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, watch)
}

func (h *Handler) CreateWatch(w http.ResponseWriter, r *http.Request) {
	var in models.WatchInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}
	if msg := validateWatchInput(in); msg != "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", msg, nil)
		return
	}
	watch, err := h.watches.Create(r.Context(), in)
	if err != nil {
		logs.Logger.Errorf("create watch: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to create watch", nil)
		return
	}
	models.WriteJSON(w, http.StatusCreated, watch)
}

func (h *Handler) UpdateWatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.WatchPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}
	if msg := validateWatchPatch(p); msg != "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", msg, nil)
		return
	}
	watch, err := h.watches.Update(r.Context(), id, p)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "watch not found", nil)
		return
	}
	if err != nil {
		logs.Logger.Errorf("update watch %d: %v", id, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to update watch", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, watch)
}

func (h *Handler) DeleteWatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	removed, err := h.watches.Delete(r.Context(), id)
	if err != nil {
		logs.Logger.Errorf("delete watch %d: %v", id, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to delete watch", nil)
		return
	}
	if !removed {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "watch not found or already deleted", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"message": "watch deleted"})
}

// ---------- закладки ----------

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	rows, err := h.favorites.ListForUser(r.Context(), id.UserID)
	if err != nil {
		logs.Logger.Errorf("list favorites user=%d: %v", id.UserID, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to fetch favorites", nil)
		return
	}
	if rows == nil {
		rows = []models.Watch{}
	}
	models.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var in favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.WatchID == 0 {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "watchId required", nil)
		return
	}
	fav, err := h.favorites.Add(r.Context(), id.UserID, in.WatchID)
	if errors.Is(err, repo.ErrNotFound) {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "watch not found", nil)
		return
	}
	if err != nil {
		logs.Logger.Errorf("add favorite user=%d watch=%d: %v", id.UserID, in.WatchID, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to add favorite", nil)
		return
	}
	models.WriteJSON(w, http.StatusCreated, fav)
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	watchID, ok := pathID(w, r, "watchId")
	if !ok {
		return
	}
	removed, err := h.favorites.Remove(r.Context(), id.UserID, watchID)
	if err != nil {
		logs.Logger.Errorf("remove favorite user=%d watch=%d: %v", id.UserID, watchID, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to remove favorite", nil)
		return
	}
	if !removed {
		models.WriteProblem(w, http.StatusNotFound, "Not Found", "favorite not found", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"message": "favorite removed"})
}

func (h *Handler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	watchID, ok := pathID(w, r, "watchId")
	if !ok {
		return
	}
	isFav, err := h.favorites.IsFavorite(r.Context(), id.UserID, watchID)
	if err != nil {
		logs.Logger.Errorf("check favorite user=%d watch=%d: %v", id.UserID, watchID, err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to check favorite", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, favoriteStatus{IsFavorite: isFav})
}

// pathID разбирает числовой path-параметр; ошибка уже записана в ответ.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid id", nil)
		return 0, false
	}
	return uint(v), true
}
