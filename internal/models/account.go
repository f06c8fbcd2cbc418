// Package models содержит доменные структуры аккаунта и записи дневника,
// используемые в бизнес-логике и хранилище.
package models

import "time"

// Account: зарегистрированный пользователь дневника.
type Account struct {
	ID             string    // Уникальный идентификатор (UUID)
	Nickname       string    // Уникальное имя пользователя
	PasswordRecord string    // Запись "salt:key", наружу не отдаётся
	CreatedAt      time.Time // Дата регистрации
}

// AccountInfo: публичное представление аккаунта в ответах.
type AccountInfo struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// Info возвращает публичное представление аккаунта.
func (a Account) Info() AccountInfo {
	return AccountInfo{ID: a.ID, Nickname: a.Nickname}
}

// Session: результат успешной регистрации или входа.
type Session struct {
	Token   string      `json:"token"`
	Account AccountInfo `json:"user"`
}
