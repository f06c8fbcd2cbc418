// Package writeitdown собирает HTTP-приложение дневника: маршруты и зависимости.
package writeitdown

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-спецификации для /docs.
	_ "github.com/magabrotheeeer/writeitdown/docs"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/entries/create"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/entries/favorite"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/entries/list"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/entries/remove"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/entries/update"
	"github.com/magabrotheeeer/writeitdown/internal/http/handlers/health"
	"github.com/magabrotheeeer/writeitdown/internal/http/middlewarectx"
	"github.com/magabrotheeeer/writeitdown/internal/http/response"
)

// AuthService: всё, что HTTP-слою нужно от сервиса аккаунтов.
type AuthService interface {
	register.Service
	login.Service
	middlewarectx.Service
}

// EntryService: всё, что HTTP-слою нужно от сервиса записей.
type EntryService interface {
	list.Service
	create.Service
	update.Service
	favorite.Service
	remove.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService AuthService, entryService EntryService,
	db health.Pinger, limiter *middlewarectx.ClientLimiter) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.New(logger, db).ServeHTTP)
		r.Get("/test", health.Test)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))
			r.Post("/register", register.New(logger, authService).ServeHTTP)
			r.Post("/login", login.New(logger, authService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Route("/entries", func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Get("/", list.New(logger, entryService).ServeHTTP)
			r.Post("/", create.New(logger, entryService).ServeHTTP)
			r.Put("/{id}", update.New(logger, entryService).ServeHTTP)
			r.Patch("/{id}/favorite", favorite.New(logger, entryService).ServeHTTP)
			r.Delete("/{id}", remove.New(logger, entryService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgRouteNotFound))
	})
}
