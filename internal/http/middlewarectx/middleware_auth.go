// Package middlewarectx содержит HTTP middleware сервиса.
//
// JWTMiddleware проверяет Bearer-токен в заголовке Authorization и в случае
// успеха кладёт идентификатор аккаунта в контекст запроса. Любая неудача
// (нет заголовка, другая схема, пустой, поддельный или просроченный токен)
// даёт одинаковый ответ 401 {"message":"unauthenticated"}.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/writeitdown/internal/http/response"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/metrics"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// AccountID: ключ для идентификатора аккаунта в контексте.
const AccountID Key = "account_id"

const bearerScheme = "bearer"

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// WithAccountID возвращает контекст с привязанным идентификатором аккаунта.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountID, accountID)
}

// AccountIDFromContext достаёт идентификатор аккаунта, привязанный JWTMiddleware.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountID).(string)
	return id, ok && id != ""
}

// bearerToken извлекает токен из заголовка "Bearer <token>".
// Схема сравнивается без учёта регистра.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				sl.Op(op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				log.Info("missing or malformed authorization header")
				unauthenticated(w, r)
				return
			}

			accountID, err := authService.ValidateToken(r.Context(), token)
			if err != nil || accountID == "" {
				log.Info("token rejected", sl.Err(err))
				unauthenticated(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func unauthenticated(w http.ResponseWriter, r *http.Request) {
	metrics.UnauthenticatedTotal.Inc()
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(response.MsgUnauthenticated))
}
