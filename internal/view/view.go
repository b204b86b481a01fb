// Package view — клиентское зеркало каталога: локально хранимый список,
// активный фильтр и производная выборка. Любая мутация фильтра сначала
// пересчитывает выборку по уже загруженному списку (оптимистично, тем же
// catalog.Filter.Matches, что и сервер), затем перезапрашивает каталог;
// ответ сервера замещает и список, и выборку. До прихода ответа выборка
// может отражать устаревшие данные — это ожидаемо и сходится после
// Refresh.
package view

import (
	"context"
	"sync"

	"lume/internal/catalog"
	"lume/internal/models"
)

// Fetcher — транспорт до сервера. Реализуется apiclient.Client,
// в тестах — фейком.
type Fetcher interface {
	Watches(ctx context.Context, f catalog.Filter) ([]models.Watch, error)
	Favorites(ctx context.Context) ([]models.Watch, error)
	AddFavorite(ctx context.Context, watchID uint) error
	RemoveFavorite(ctx context.Context, watchID uint) error
}

type View struct {
	mu      sync.Mutex
	fetcher Fetcher

	watches   []models.Watch // серверная правда после последнего fetch
	filtered  []models.Watch // производная выборка
	favorites []models.Watch
	filter    catalog.Filter
}

func New(f Fetcher) *View {
	return &View{fetcher: f}
}

// Refresh — авторитетная загрузка: каталог с текущим фильтром замещает
// и полный список, и выборку.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	f := v.filter
	v.mu.Unlock()

	rows, err := v.fetcher.Watches(ctx, f)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.watches = rows
	v.filtered = append([]models.Watch(nil), rows...)
	return nil
}

// RefreshFavorites подтягивает закладки с сервера.
func (v *View) RefreshFavorites(ctx context.Context) error {
	rows, err := v.fetcher.Favorites(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.favorites = rows
	return nil
}

// mutate — общий путь всех мутаций фильтра: (a) правим выбор,
// (b) оптимистичный пересчёт по уже имеющемуся списку, (c) свежий fetch.
// При ошибке fetch остаёмся на локальном пересчёте и отдаём ошибку.
func (v *View) mutate(ctx context.Context, change func(*catalog.Filter)) error {
	v.mu.Lock()
	change(&v.filter)
	v.filtered = v.filter.Apply(v.watches)
	v.mu.Unlock()

	return v.Refresh(ctx)
}

func (v *View) AddBrand(ctx context.Context, brand string) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.Brands = appendUniqueString(f.Brands, brand)
	})
}

func (v *View) RemoveBrand(ctx context.Context, brand string) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.Brands = removeString(f.Brands, brand)
	})
}

func (v *View) AddSize(ctx context.Context, size float64) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.Sizes = appendUniqueFloat(f.Sizes, size)
	})
}

func (v *View) RemoveSize(ctx context.Context, size float64) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.Sizes = removeFloat(f.Sizes, size)
	})
}

func (v *View) AddMaterial(ctx context.Context, material string) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.Materials = appendUniqueString(f.Materials, material)
	})
}

func (v *View) RemoveMaterial(ctx context.Context, material string) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.Materials = removeString(f.Materials, material)
	})
}

// SetPriceRange — включительный диапазон в центах.
func (v *View) SetPriceRange(ctx context.Context, minCents, maxCents int64) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.PriceMin, f.PriceMax = catalog.PriceRange(minCents, maxCents)
	})
}

func (v *View) ClearPriceRange(ctx context.Context) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		f.PriceMin, f.PriceMax = nil, nil
	})
}

func (v *View) ClearFilters(ctx context.Context) error {
	return v.mutate(ctx, func(f *catalog.Filter) {
		*f = catalog.Filter{}
	})
}

// ToggleFavorite переключает закладку и правит локальный список;
// каталог не перезапрашивается.
func (v *View) ToggleFavorite(ctx context.Context, w models.Watch) error {
	if v.IsFavorite(w.ID) {
		if err := v.fetcher.RemoveFavorite(ctx, w.ID); err != nil {
			return err
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		out := v.favorites[:0]
		for _, fw := range v.favorites {
			if fw.ID != w.ID {
				out = append(out, fw)
			}
		}
		v.favorites = out
		return nil
	}

	if err := v.fetcher.AddFavorite(ctx, w.ID); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.favorites = append(v.favorites, w)
	return nil
}

func (v *View) IsFavorite(watchID uint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, fw := range v.favorites {
		if fw.ID == watchID {
			return true
		}
	}
	return false
}

// Watches — текущая выборка (копия).
func (v *View) Watches() []models.Watch {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Watch(nil), v.filtered...)
}

func (v *View) Favorites() []models.Watch {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Watch(nil), v.favorites...)
}

func (v *View) Filter() catalog.Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Page — клиентская пагинация: срез текущей выборки, страницы с единицы.
func (v *View) Page(page, perPage int) []models.Watch {
	if page < 1 || perPage < 1 {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	start := (page - 1) * perPage
	if start >= len(v.filtered) {
		return nil
	}
	end := start + perPage
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	return append([]models.Watch(nil), v.filtered[start:end]...)
}

func appendUniqueString(xs []string, s string) []string {
	for _, x := range xs {
		if x == s {
			return xs
		}
	}
	return append(xs, s)
}

func removeString(xs []string, s string) []string {
	out := xs[:0]
	for _, x := range xs {
		if x != s {
			out = append(out, x)
		}
	}
	return out
}

func appendUniqueFloat(xs []float64, v float64) []float64 {
	for _, x := range xs {
		if x == v {
			return xs
		}
	}
	return append(xs, v)
}

func removeFloat(xs []float64, v float64) []float64 {
	out := xs[:0]
	for _, x := range xs {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
