// Package list реализует HTTP-обработчик получения записей аккаунта.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/writeitdown/internal/http/middlewarectx"
	"github.com/magabrotheeeer/writeitdown/internal/http/response"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/models"
)

// Service описывает интерфейс получения записей.
type Service interface {
	List(ctx context.Context, accountID string) ([]models.Entry, error)
}

// Handler обрабатывает GET /entries.
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
// @Summary Список записей
// @Description Возвращает записи текущего аккаунта, новые первыми.
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Entry
// @Failure 401 {object} response.ErrorResponse "unauthenticated"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /entries [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entries.list"

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

	entries, err := h.service.List(r.Context(), accountID)
	if err != nil {
		log.Error("failed to list entries", sl.Err(err))
		status, msg := response.StatusFor(err, response.OpGeneric)
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("entries listed", slog.Int("count", len(entries)))
	render.JSON(w, r, entries)
}
