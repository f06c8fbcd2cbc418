package models

import "time"

// AccountEvent публикуется в брокер при регистрации и входе.
type AccountEvent struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"account_id"`
	Nickname   string    `json:"nickname"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	// EventAccountRegistered: аккаунт создан.
	EventAccountRegistered = "account.registered"
	// EventAccountLoggedIn: успешный вход.
	EventAccountLoggedIn = "account.logged_in"
)
