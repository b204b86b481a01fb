package models

import "time"

// Favorite — закладка пользователя на часы.
// Составной уникальный индекс (user_id, watch_id) гарантирует не больше
// одной строки на пару даже при конкурирующих add — проверка в коде
// остаётся только быстрым путём, инвариант держит БД.
// FK с каскадом: удаление пользователя или часов убирает закладку.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_user_watch" json:"userId"`
	WatchID   uint      `gorm:"not null;uniqueIndex:uniq_user_watch" json:"watchId"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Watch     Watch     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
