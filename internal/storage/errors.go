// Package storage содержит ошибки, общие для реализаций хранилища.
package storage

import "errors"

var (
	// ErrNotFound: запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists: нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("record already exists")
)
