package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lume/internal/models"
)

type FavoriteStore struct{ db *gorm.DB }

func NewFavoriteStore(db *gorm.DB) *FavoriteStore { return &FavoriteStore{db: db} }

// ListForUser — все часы из закладок пользователя (JOIN через favorites).
// Порядок не гарантируется.
func (s *FavoriteStore) ListForUser(ctx context.Context, userID uint) ([]models.Watch, error) {
	var rows []models.Watch
	err := s.db.WithContext(ctx).Model(&models.Watch{}).
		Joins("JOIN favorites ON favorites.watch_id = watches.id").
		Where("favorites.user_id = ?", userID).
		Find(&rows).Error
	return rows, err
}

// Add идемпотентен: существующая пара возвращается как есть. Инвариант
// «не больше одной строки на пару» держит уникальный индекс, поэтому
// проигравший гонку insert получает ErrDuplicatedKey и перечитывает
// строку победителя — это тоже успех, не ошибка.
func (s *FavoriteStore) Add(ctx context.Context, userID, watchID uint) (*models.Favorite, error) {
	tx := s.db.WithContext(ctx)

	// быстрый путь: пара уже есть
	var existing models.Favorite
	err := tx.Where("user_id = ? AND watch_id = ?", userID, watchID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// часы должны существовать
	var n int64
	if err := tx.Model(&models.Watch{}).Where("id = ?", watchID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	fav := models.Favorite{UserID: userID, WatchID: watchID}
	err = tx.Create(&fav).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		var winner models.Favorite
		if err := tx.Where("user_id = ? AND watch_id = ?", userID, watchID).First(&winner).Error; err != nil {
			return nil, err
		}
		return &winner, nil
	}
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// Remove идемпотентен: отсутствие строки — это false, не ошибка.
func (s *FavoriteStore) Remove(ctx context.Context, userID, watchID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND watch_id = ?", userID, watchID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *FavoriteStore) IsFavorite(ctx context.Context, userID, watchID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND watch_id = ?", userID, watchID).
		Count(&n).Error
	return n > 0, err
}
