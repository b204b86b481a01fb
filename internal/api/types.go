package api

import (
	"context"
	"strings"

	"lume/internal/catalog"
	"lume/internal/models"
)

// CatalogStore — минимальный контракт хранилища каталога,
// который нужен обработчикам.
type CatalogStore interface {
	All(ctx context.Context) ([]models.Watch, error)
	ByID(ctx context.Context, id uint) (*models.Watch, error)
	ByFilter(ctx context.Context, f catalog.Filter) ([]models.Watch, error)
	Create(ctx context.Context, in models.WatchInput) (*models.Watch, error)
	Update(ctx context.Context, id uint, p models.WatchPatch) (*models.Watch, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// FavoriteStore — контракт хранилища закладок.
type FavoriteStore interface {
	ListForUser(ctx context.Context, userID uint) ([]models.Watch, error)
	Add(ctx context.Context, userID, watchID uint) (*models.Favorite, error)
	Remove(ctx context.Context, userID, watchID uint) (bool, error)
	IsFavorite(ctx context.Context, userID, watchID uint) (bool, error)
}

type favoriteRequest struct {
	WatchID uint `json:"watchId"`
}

type favoriteStatus struct {
	IsFavorite bool `json:"isFavorite"`
}

// validateWatchInput — проверка присутствия/диапазона полей на границе.
// Больше ничего: глубже валидировать нечего, типы уже гарантированы
// декодером.
func validateWatchInput(in models.WatchInput) string {
	switch {
	case strings.TrimSpace(in.Brand) == "":
		return "brand is required"
	case strings.TrimSpace(in.Model) == "":
		return "model is required"
	case strings.TrimSpace(in.Reference) == "":
		return "reference is required"
	case in.Size <= 0:
		return "size must be positive"
	case strings.TrimSpace(in.Material) == "":
		return "material is required"
	case in.Price < 0:
		return "price must not be negative"
	case strings.TrimSpace(in.ImageURL) == "":
		return "imageUrl is required"
	}
	return ""
}

func validateWatchPatch(p models.WatchPatch) string {
	switch {
	case p.Brand != nil && strings.TrimSpace(*p.Brand) == "":
		return "brand must not be empty"
	case p.Model != nil && strings.TrimSpace(*p.Model) == "":
		return "model must not be empty"
	case p.Reference != nil && strings.TrimSpace(*p.Reference) == "":
		return "reference must not be empty"
	case p.Size != nil && *p.Size <= 0:
		return "size must be positive"
	case p.Material != nil && strings.TrimSpace(*p.Material) == "":
		return "material must not be empty"
	case p.Price != nil && *p.Price < 0:
		return "price must not be negative"
	case p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) == "":
		return "imageUrl must not be empty"
	}
	return ""
}
