// Package favorite реализует HTTP-обработчик переключения признака избранного.
package favorite

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/writeitdown/internal/http/middlewarectx"
	"github.com/magabrotheeeer/writeitdown/internal/http/response"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/models"
)

// Service описывает интерфейс переключения избранного.
type Service interface {
	ToggleFavorite(ctx context.Context, accountID, id string) (*models.Entry, error)
}

// Handler обрабатывает PATCH /entries/{id}/favorite.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить избранное
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID записи"
// @Success 200 {object} models.Entry
// @Failure 401 {object} response.ErrorResponse "unauthenticated"
// @Failure 404 {object} response.ErrorResponse "Entry not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /entries/{id}/favorite [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entries.favorite"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountID, ok := middlewarectx.AccountIDFromContext(r.Context())
	if !ok {
		log.Error("account id missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthenticated))
		return
	}
	id := chi.URLParam(r, "id")

	entry, err := h.service.ToggleFavorite(r.Context(), accountID, id)
	if err != nil {
		status, msg := response.StatusFor(err, response.OpGeneric)
		if status >= http.StatusInternalServerError {
			log.Error("failed to toggle favorite", sl.Err(err))
		} else {
			log.Info("toggle rejected", slog.String("id", id), slog.String("reason", msg))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("favorite toggled", slog.String("id", entry.ID), slog.Bool("favorite", entry.Favorite))
	render.JSON(w, r, entry)
}
