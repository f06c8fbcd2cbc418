package models

import "time"

// Entry: запись дневника, принадлежащая одному аккаунту.
type Entry struct {
	ID        string    `json:"_id"`
	AccountID string    `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EntryInput используется для приёма данных записи из JSON-запроса.
type EntryInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}
