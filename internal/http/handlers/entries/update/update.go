// Package update реализует HTTP-обработчик изменения записи дневника.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/writeitdown/internal/http/middlewarectx"
	"github.com/magabrotheeeer/writeitdown/internal/http/response"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/models"
)

// Service описывает интерфейс изменения записи.
type Service interface {
	Update(ctx context.Context, accountID, id string, in models.EntryInput) (*models.Entry, error)
}

// Handler обрабатывает PUT /entries/{id}.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить запись
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID записи"
// @Param request body models.EntryInput true "Новые заголовок и текст"
// @Success 200 {object} models.Entry
// @Failure 400 {object} response.ErrorResponse "Title and content are required"
// @Failure 401 {object} response.ErrorResponse "unauthenticated"
// @Failure 404 {object} response.ErrorResponse "Entry not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /entries/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entries.update"

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

	var in models.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(in); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgEntryFieldsRequired))
		return
	}

	entry, err := h.service.Update(r.Context(), accountID, id, in)
	if err != nil {
		status, msg := response.StatusFor(err, response.OpGeneric)
		if status >= http.StatusInternalServerError {
			log.Error("failed to update entry", sl.Err(err))
		} else {
			log.Info("update rejected", slog.String("id", id), slog.String("reason", msg))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("entry updated", slog.String("id", entry.ID))
	render.JSON(w, r, entry)
}
