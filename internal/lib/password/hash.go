// Package password реализует хеширование и проверку паролей.
//
// Запись пароля имеет вид "salt:key", где salt: 16 случайных байт в hex,
// а key: 64 байта scrypt(password, salt) в hex. Hex-строка соли сама является
// входом KDF, поэтому записи совместимы с ранее созданными аккаунтами.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const delimiter = ":"

// Params задаёт стоимость scrypt и размеры соли и ключа.
type Params struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
}

// DefaultParams используются в production.
var DefaultParams = Params{
	N:       16384,
	R:       8,
	P:       1,
	KeyLen:  64,
	SaltLen: 16,
}

// Hasher хеширует и проверяет пароли с заданными параметрами.
type Hasher struct {
	params Params
}

// NewHasher создаёт Hasher с указанными параметрами.
func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// Hash генерирует свежую соль и возвращает запись "salt:key".
func (h *Hasher) Hash(plaintext string) (string, error) {
	const op = "password.Hash"

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	saltHex := hex.EncodeToString(salt)

	key, err := h.derive(plaintext, saltHex)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return saltHex + delimiter + hex.EncodeToString(key), nil
}

// Verify сравнивает попытку с сохранённой записью за постоянное время.
//
// Любая некорректная запись даёт false, ошибки наружу не возвращаются.
func (h *Hasher) Verify(record, attempt string) bool {
	if record == "" {
		return false
	}
	parts := strings.Split(record, delimiter)
	if len(parts) != 2 || parts[0] == "" {
		return false
	}

	stored, err := hex.DecodeString(parts[1])
	if err != nil || len(stored) != h.params.KeyLen {
		return false
	}

	computed, err := h.derive(attempt, parts[0])
	if err != nil || len(computed) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare(stored, computed) == 1
}

func (h *Hasher) derive(plaintext, saltHex string) ([]byte, error) {
	return scrypt.Key([]byte(plaintext), []byte(saltHex), h.params.N, h.params.R, h.params.P, h.params.KeyLen)
}
