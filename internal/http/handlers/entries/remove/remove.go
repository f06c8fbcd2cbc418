// Package remove реализует HTTP-обработчик удаления записи дневника.
package remove

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
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	Delete(ctx context.Context, accountID, id string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить запись
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID записи"
// @Success 200 {object} response.MessageResponse
// @Failure 401 {object} response.ErrorResponse "unauthenticated"
// @Failure 404 {object} response.ErrorResponse "Entry not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /entries/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entries.remove"

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

	if err := h.service.Delete(r.Context(), accountID, id); err != nil {
		status, msg := response.StatusFor(err, response.OpGeneric)
		if status >= http.StatusInternalServerError {
			log.Error("failed to delete entry", sl.Err(err))
		} else {
			log.Info("delete rejected", slog.String("id", id), slog.String("reason", msg))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("entry deleted", slog.String("id", id))
	render.JSON(w, r, response.Message(response.MsgEntryDeleted))
}
