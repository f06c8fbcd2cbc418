// Package jwt реализует выпуск и проверку JWT токенов аккаунтов.
//
// Maker определяет интерфейс для создания и проверки токенов,
// MakerImpl: реализация на HS256 с секретным ключом и сроком жизни.
package jwt

import (
	"errors"
	"time"
)

// TokenTTL: срок жизни токена, выдаваемого при регистрации и входе.
const TokenTTL = 7 * 24 * time.Hour

// ErrEmptySecret возвращается, если секрет подписи не задан.
var ErrEmptySecret = errors.New("jwt secret key is empty")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен для аккаунта с указанным id.
	GenerateToken(subjectID string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*Claims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа и TTL.
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl. Пустой секрет недопустим.
func NewJWTMaker(secretKey string, ttl time.Duration) (*MakerImpl, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}, nil
}
