package models

import "time"

// Роли пользователей. Всё, что не admin — dealer.
const (
	RoleDealer = "dealer"
	RoleAdmin  = "admin"
)

// User — учётная запись дилера/админа.
// Password == nil у аккаунтов, созданных через внешнего провайдера (Google):
// у такой записи обязан быть GoogleID, иначе входа нет вообще.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:320;not null" json:"email"`
	Password  *string   `gorm:"size:255" json:"-"`
	GoogleID  *string   `gorm:"uniqueIndex;size:255" json:"-"`
	Role      string    `gorm:"size:16;not null;default:dealer" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserPatch — частичное обновление: nil-поле не трогаем.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
	GoogleID *string
	Role     *string
}
