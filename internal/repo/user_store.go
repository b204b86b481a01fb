package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lume/internal/models"
)

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	return s.one(s.db.WithContext(ctx).First(&u, id), &u)
}

func (s *UserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	return s.one(s.db.WithContext(ctx).Where("username = ?", username).First(&u), &u)
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	return s.one(s.db.WithContext(ctx).Where("email = ?", email).First(&u), &u)
}

func (s *UserStore) ByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	return s.one(s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&u), &u)
}

func (s *UserStore) one(tx *gorm.DB, u *models.User) (*models.User, error) {
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if tx.Error != nil {
		return nil, tx.Error
	}
	return u, nil
}

// Create вставляет пользователя; конфликт по username/email/google_id
// приходит как ErrConflict.
func (s *UserStore) Create(ctx context.Context, u models.User) (*models.User, error) {
	err := s.db.WithContext(ctx).Create(&u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update меняет только переданные поля и освежает updated_at.
func (s *UserStore) Update(ctx context.Context, id uint, p models.UserPatch) (*models.User, error) {
	var u models.User
	tx := s.db.WithContext(ctx)
	if err := tx.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]any{}
	if p.Username != nil {
		updates["username"] = *p.Username
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.Password != nil {
		updates["password"] = *p.Password
	}
	if p.GoogleID != nil {
		updates["google_id"] = *p.GoogleID
	}
	if p.Role != nil {
		updates["role"] = *p.Role
	}
	if len(updates) == 0 {
		return &u, nil
	}
	updates["updated_at"] = time.Now().UTC()

	err := tx.Model(&u).Updates(updates).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List — все пользователи (админский список). Порядок не гарантируется.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := s.db.WithContext(ctx).Find(&rows).Error
	return rows, err
}
