package models

import "time"

// Watch — позиция каталога.
// Price хранится в минорных единицах (центах) — см. catalog.Filter:
// конвертация из мажорных единиц происходит один раз на HTTP-границе.
type Watch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Brand     string    `gorm:"size:128;not null;index" json:"brand"`
	Model     string    `gorm:"size:128;not null" json:"model"`
	Reference string    `gorm:"size:64;not null" json:"reference"`
	Size      float64   `gorm:"not null" json:"size"` // диаметр корпуса, мм
	Material  string    `gorm:"size:64;not null" json:"material"`
	Price     int64     `gorm:"not null" json:"price"` // центы
	ImageURL  string    `gorm:"size:2048;not null" json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchInput — payload создания (без id и таймстемпов).
type WatchInput struct {
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Reference string  `json:"reference"`
	Size      float64 `json:"size"`
	Material  string  `json:"material"`
	Price     int64   `json:"price"`
	ImageURL  string  `json:"imageUrl"`
}

// WatchPatch — частичное обновление: nil-поле не трогаем.
type WatchPatch struct {
	Brand     *string  `json:"brand"`
	Model     *string  `json:"model"`
	Reference *string  `json:"reference"`
	Size      *float64 `json:"size"`
	Material  *string  `json:"material"`
	Price     *int64   `json:"price"`
	ImageURL  *string  `json:"imageUrl"`
}
