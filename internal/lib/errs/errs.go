// Package errs содержит общие sentinel-ошибки приложения.
//
// Сервисы оборачивают их через fmt.Errorf("%s: %w", op, err), а HTTP-слой
// классифицирует через errors.Is и переводит в статус ответа.
package errs

import "errors"

var (
	// ErrMissingFields: не заполнены обязательные поля запроса.
	ErrMissingFields = errors.New("missing required fields")
	// ErrDuplicateAccount: аккаунт с таким nickname уже существует.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrNotFound: аккаунт не найден.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidCredentials: пароль не совпадает с сохранённым.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrServerMisconfigured: у аккаунта отсутствует запись пароля.
	ErrServerMisconfigured = errors.New("account password record is not set")
	// ErrInvalidToken: токен не прошёл проверку (подпись, формат, срок действия).
	ErrInvalidToken = errors.New("invalid token")
	// ErrEntryNotFound: запись не найдена или принадлежит другому аккаунту.
	ErrEntryNotFound = errors.New("entry not found")
)
