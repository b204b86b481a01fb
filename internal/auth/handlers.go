package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"lume/internal/logs"
	"lume/internal/models"
	"lume/internal/repo"
)

const bcryptCost = 10

// UserStore — контракт, который нужен аутентификации от хранилища.
type UserStore interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Create(ctx context.Context, u models.User) (*models.User, error)
	Update(ctx context.Context, id uint, p models.UserPatch) (*models.User, error)
}

func NewHandler(users UserStore, sessions *Sessions) *Handler {
	return &Handler{users: users, sessions: sessions}
}

type Handler struct {
	users    UserStore
	sessions *Sessions
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c credentials) validate() string {
	if !strings.Contains(c.Email, "@") {
		return "valid email required"
	}
	if len(c.Password) < 6 {
		return "password must be at least 6 characters"
	}
	return ""
}

type googleCredentials struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Register — email+password, роль dealer по умолчанию, сразу логинит.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}
	if msg := in.validate(); msg != "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", msg, nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "hashing failed", nil)
		return
	}
	pw := string(hash)

	u, err := h.users.Create(r.Context(), models.User{
		Username: usernameFromEmail(in.Email),
		Email:    in.Email,
		Password: &pw,
		Role:     models.RoleDealer,
	})
	if errors.Is(err, repo.ErrConflict) {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "user already exists", nil)
		return
	}
	if err != nil {
		logs.Logger.Errorf("register: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "registration failed", nil)
		return
	}

	if err := h.sessions.SignIn(w, r, u); err != nil {
		logs.Logger.Errorf("register: session: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "session failed", nil)
		return
	}
	models.WriteJSON(w, http.StatusCreated, u)
}

// Login — email+password против bcrypt-хэша.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}
	if msg := in.validate(); msg != "" {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", msg, nil)
		return
	}

	u, err := h.users.ByEmail(r.Context(), in.Email)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && u.Password == nil) {
		// одинаковый ответ для «нет такого» и «вход только через Google»
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials", nil)
		return
	}
	if err != nil {
		logs.Logger.Errorf("login: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "login failed", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(in.Password)) != nil {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials", nil)
		return
	}

	if err := h.sessions.SignIn(w, r, u); err != nil {
		logs.Logger.Errorf("login: session: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "session failed", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

// Google — заглушка внешнего провайдера: токену верим как внешнему id
// (серверной верификации нет, как и в исходной системе). Привязка:
// сначала по google_id, потом по email, иначе — новый пользователь
// без пароля.
func (h *Handler) Google(w http.ResponseWriter, r *http.Request) {
	var in googleCredentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body", nil)
		return
	}
	if in.Token == "" || !strings.Contains(in.Email, "@") {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "token and email required", nil)
		return
	}

	ctx := r.Context()
	u, err := h.users.ByGoogleID(ctx, in.Token)
	if errors.Is(err, repo.ErrNotFound) {
		u, err = h.users.ByEmail(ctx, in.Email)
		switch {
		case err == nil:
			// привязываем внешний id к существующему аккаунту
			u, err = h.users.Update(ctx, u.ID, models.UserPatch{GoogleID: &in.Token})
		case errors.Is(err, repo.ErrNotFound):
			u, err = h.users.Create(ctx, models.User{
				Username: usernameFromEmail(in.Email),
				Email:    in.Email,
				GoogleID: &in.Token,
				Role:     models.RoleDealer,
			})
		}
	}
	if err != nil {
		logs.Logger.Errorf("google login: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "login failed", nil)
		return
	}

	if err := h.sessions.SignIn(w, r, u); err != nil {
		logs.Logger.Errorf("google login: session: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "session failed", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "logout failed", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me — текущий пользователь по сессии. Если аккаунт исчез — сессия
// сбрасывается.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessions.Current(r)
	if !ok {
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "not authenticated", nil)
		return
	}
	u, err := h.users.ByID(r.Context(), id.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		_ = h.sessions.SignOut(w, r)
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "user not found", nil)
		return
	}
	if err != nil {
		logs.Logger.Errorf("me: %v", err)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "lookup failed", nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, u)
}

func usernameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
