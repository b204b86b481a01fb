package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lume/config"
	"lume/internal/admin"
	"lume/internal/api"
	"lume/internal/auth"
	"lume/internal/db"
	"lume/internal/health"
	"lume/internal/logs"
	"lume/internal/middleware"
	"lume/internal/models"
	"lume/internal/repo"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB (опционально; пустой driver — in-memory) */
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d

		if err := a.db.AutoMigrate(
			&models.User{},
			&models.Watch{},
			&models.Favorite{}); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
	}

	/* 3) Хранилища: gorm или память — интерфейсы одни и те же */
	var (
		watches   api.CatalogStore
		favorites api.FavoriteStore
		users     auth.UserStore
		directory admin.Directory
		reports   admin.Reporter
	)
	if a.db != nil {
		ws := repo.NewWatchStore(a.db)
		us := repo.NewUserStore(a.db)
		watches, favorites = ws, repo.NewFavoriteStore(a.db)
		users, directory, reports = us, us, ws
	} else {
		mem := repo.NewMemory()
		watches, favorites = mem.Watches(), mem.Favorites()
		users, directory, reports = mem.Users(), mem.Users(), mem.Watches()
	}

	sessions := auth.NewSessions(auth.SessionOptions{
		Secret:     a.cfg.Session.Secret,
		CookieName: a.cfg.Session.CookieName,
		MaxAge:     a.cfg.Session.MaxAge,
		Secure:     a.cfg.Session.Secure,
	})

	/* 4) Первичный админ (идемпотентно) */
	if a.cfg.Admin.Email != "" {
		if err := bootstrapAdmin(context.Background(), users, a.cfg.Admin.Email, a.cfg.Admin.Password); err != nil {
			log.Fatalf("admin bootstrap failed: %v", err)
		}
	}

	/* 5) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 6) Health */
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	} else {
		health.RegisterRoutes(a.Router) // только /healthz
	}

	/* 7) API: auth, каталог/закладки, админка */
	auth.RegisterRoutes(a.Router, auth.NewHandler(users, sessions))
	api.RegisterRoutes(a.Router, api.NewHandler(watches, favorites), sessions)
	admin.Attach(a.Router, admin.Dependencies{
		Users:    directory,
		Reports:  reports,
		Sessions: sessions,
	})

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

// bootstrapAdmin создаёт (или повышает) первичного админа из конфига.
func bootstrapAdmin(ctx context.Context, users auth.UserStore, email, password string) error {
	u, err := users.ByEmail(ctx, email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
		if err != nil {
			return err
		}
		pw := string(hash)
		username := email
		if i := strings.IndexByte(email, '@'); i > 0 {
			username = email[:i]
		}
		_, err = users.Create(ctx, models.User{
			Username: username,
			Email:    email,
			Password: &pw,
			Role:     models.RoleAdmin,
		})
		return err
	case err != nil:
		return err
	case u.Role != models.RoleAdmin:
		role := models.RoleAdmin
		_, err := users.Update(ctx, u.ID, models.UserPatch{Role: &role})
		if err == nil {
			logs.Logger.Infof("admin bootstrap: promoted %s", email)
		}
		return err
	default:
		return nil
	}
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
