// Package register реализует HTTP-обработчик регистрации аккаунта.
//
// Обработчик декодирует JSON, проверяет длину полей и делегирует регистрацию
// сервису. При успехе возвращает токен и публичные данные аккаунта.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/writeitdown/internal/http/response"
	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
	"github.com/magabrotheeeer/writeitdown/internal/models"
)

// Request: входные данные регистрации.
// Пустые поля проверяет сервис, здесь только ограничение длины.
type Request struct {
	Nickname string `json:"nickname" validate:"max=64"`
	Password string `json:"password" validate:"max=1024"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, nickname, password string) (*models.Session, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация аккаунта
// @Description Создаёт аккаунт и сразу возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "nickname и пароль"
// @Success 200 {object} models.Session
// @Failure 400 {object} response.ErrorResponse "Пустые поля или nickname занят"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("validator failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgRegisterError))
		return
	}

	session, err := h.service.Register(r.Context(), req.Nickname, req.Password)
	if err != nil {
		status, msg := response.StatusFor(err, response.OpRegister)
		if status >= http.StatusInternalServerError {
			log.Error("registration failed", sl.Err(err))
		} else {
			log.Info("registration rejected", slog.String("reason", msg))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("account registered", slog.String("account_id", session.Account.ID))
	render.JSON(w, r, session)
}
