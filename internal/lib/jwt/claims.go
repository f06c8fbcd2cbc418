package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/writeitdown/internal/lib/errs"
)

// Claims: стандартные claims JWT; Subject содержит id аккаунта.
type Claims struct {
	jwt.RegisteredClaims
}

// SubjectID возвращает id аккаунта из токена.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// GenerateToken создаёт токен с sub, iat и exp = iat + tokenTTL.
func (j *MakerImpl) GenerateToken(subjectID string) (string, error) {
	const op = "jwt.GenerateToken"

	issuedAt := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken проверяет подпись, алгоритм и срок действия токена.
//
// Любая причина отказа оборачивает errs.ErrInvalidToken.
func (j *MakerImpl) ParseToken(tokenStr string) (*Claims, error) {
	const op = "jwt.ParseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, errs.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidToken)
	}
	return claims, nil
}
