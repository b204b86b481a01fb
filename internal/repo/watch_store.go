package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lume/internal/catalog"
	"lume/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type WatchStore struct{ db *gorm.DB }

func NewWatchStore(db *gorm.DB) *WatchStore { return &WatchStore{db: db} }

// All — весь каталог. Порядок не гарантируется.
func (s *WatchStore) All(ctx context.Context) ([]models.Watch, error) {
	var rows []models.Watch
	err := s.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}

func (s *WatchStore) ByID(ctx context.Context, id uint) (*models.Watch, error) {
	var w models.Watch
	err := s.db.WithContext(ctx).First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ByFilter строит конъюнкцию предикатов из catalog.Filter: AND между
// измерениями, IN внутри измерения, включительные границы цены (центы).
// Семантика обязана совпадать с catalog.Filter.Matches.
func (s *WatchStore) ByFilter(ctx context.Context, f catalog.Filter) ([]models.Watch, error) {
	q := s.db.WithContext(ctx).Model(&models.Watch{})
	if len(f.Brands) > 0 {
		q = q.Where("brand IN ?", f.Brands)
	}
	if len(f.Sizes) > 0 {
		q = q.Where("size IN ?", f.Sizes)
	}
	if len(f.Materials) > 0 {
		q = q.Where("material IN ?", f.Materials)
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	var rows []models.Watch
	err := q.Find(&rows).Error
	return rows, err
}

func (s *WatchStore) Create(ctx context.Context, in models.WatchInput) (*models.Watch, error) {
	w := models.Watch{
		Brand:     in.Brand,
		Model:     in.Model,
		Reference: in.Reference,
		Size:      in.Size,
		Material:  in.Material,
		Price:     in.Price,
		ImageURL:  in.ImageURL,
	}
	if err := s.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// Update меняет только переданные поля и освежает updated_at.
func (s *WatchStore) Update(ctx context.Context, id uint, p models.WatchPatch) (*models.Watch, error) {
	var w models.Watch
	tx := s.db.WithContext(ctx)
	if err := tx.First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if p.Brand != nil {
		updates["brand"] = *p.Brand
	}
	if p.Model != nil {
		updates["model"] = *p.Model
	}
	if p.Reference != nil {
		updates["reference"] = *p.Reference
	}
	if p.Size != nil {
		updates["size"] = *p.Size
	}
	if p.Material != nil {
		updates["material"] = *p.Material
	}
	if p.Price != nil {
		updates["price"] = *p.Price
	}
	if p.ImageURL != nil {
		updates["image_url"] = *p.ImageURL
	}
	if len(updates) == 0 {
		return &w, nil
	}
	updates["updated_at"] = time.Now().UTC()

	if err := tx.Model(&w).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// Delete идемпотентен: повторное удаление возвращает false, не ошибку.
func (s *WatchStore) Delete(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.Watch{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Analytics — агрегаты по каталогу (GROUP BY, без выгрузки всех строк).
func (s *WatchStore) Analytics(ctx context.Context) (*models.Analytics, error) {
	tx := s.db.WithContext(ctx).Model(&models.Watch{})
	var a models.Analytics

	type totals struct {
		Count int64
		Sum   int64
	}
	var t totals
	if err := tx.Select("COUNT(*) AS count, COALESCE(SUM(price),0) AS sum").Scan(&t).Error; err != nil {
		return nil, err
	}
	a.TotalWatches = t.Count
	a.TotalValue = t.Sum
	if t.Count > 0 {
		a.AveragePrice = t.Sum / t.Count
	}

	brands := s.db.WithContext(ctx).Model(&models.Watch{}).
		Select("brand AS name, COUNT(*) AS count").
		Group("brand").Order("count DESC")
	if err := brands.Scan(&a.ByBrand).Error; err != nil {
		return nil, err
	}

	materials := s.db.WithContext(ctx).Model(&models.Watch{}).
		Select("material AS name, COUNT(*) AS count").
		Group("material").Order("count DESC")
	if err := materials.Scan(&a.ByMaterial).Error; err != nil {
		return nil, err
	}

	sizes := s.db.WithContext(ctx).Model(&models.Watch{}).
		Select("size, COUNT(*) AS count").
		Group("size").Order("size ASC")
	if err := sizes.Scan(&a.BySize).Error; err != nil {
		return nil, err
	}

	return &a, nil
}
