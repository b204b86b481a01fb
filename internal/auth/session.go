// Package auth — cookie-сессии, вход/регистрация (включая Google-заглушку)
// и middleware ролей. Пароли — bcrypt; сессия — подписанная cookie,
// внутри только userID и роль.
package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"lume/internal/models"
)

const (
	sessionUserKey = "userID"
	sessionRoleKey = "role"
)

// Sessions — обёртка над gorilla cookie store. Конструируется на старте
// и передаётся по ссылке, без пакетных синглтонов.
type Sessions struct {
	store *sessions.CookieStore
	name  string
}

type SessionOptions struct {
	Secret     string
	CookieName string
	MaxAge     int // секунды
	Secure     bool
}

func NewSessions(opts SessionOptions) *Sessions {
	st := sessions.NewCookieStore([]byte(opts.Secret))
	st.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: st, name: opts.CookieName}
}

// SignIn привязывает сессию к пользователю.
func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Values[sessionUserKey] = u.ID
	sess.Values[sessionRoleKey] = u.Role
	return sess.Save(r, w)
}

// SignOut сбрасывает сессию (MaxAge<0 удаляет cookie).
func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(r, w)
}

// Current возвращает идентичность из cookie; ok=false — не залогинен.
func (s *Sessions) Current(r *http.Request) (Identity, bool) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return Identity{}, false
	}
	id, ok := sess.Values[sessionUserKey].(uint)
	if !ok || id == 0 {
		return Identity{}, false
	}
	role, _ := sess.Values[sessionRoleKey].(string)
	return Identity{UserID: id, Role: role}, true
}

// Identity — кто делает запрос: всё, что ядру нужно знать об аутентификации.
type Identity struct {
	UserID uint
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }
