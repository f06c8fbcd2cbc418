// Package login реализует HTTP-обработчик входа в аккаунт.
//
// При успешной проверке пароля возвращается JSON с JWT и публичными данными
// аккаунта; ошибки переводятся в ответы по единой таблице response.StatusFor.
package login

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

// Request: учетные данные для входа.
type Request struct {
	Nickname string `json:"nickname" validate:"max=64"`
	Password string `json:"password" validate:"max=1024"`
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, nickname, password string) (*models.Session, error)
}

// New создает новый экземпляр Handler с указанными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в аккаунт
// @Description Проверяет nickname и пароль, возвращает JWT сроком на 7 дней.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} models.Session
// @Failure 400 {object} response.ErrorResponse "Пустые поля, аккаунт не найден или неверный пароль"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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
		render.JSON(w, r, response.Error(response.MsgLoginError))
		return
	}

	session, err := h.service.Login(r.Context(), req.Nickname, req.Password)
	if err != nil {
		status, msg := response.StatusFor(err, response.OpLogin)
		if status >= http.StatusInternalServerError {
			log.Error("login failed", sl.Err(err))
		} else {
			log.Info("login rejected", slog.String("reason", msg))
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("login success", slog.String("account_id", session.Account.ID))
	render.JSON(w, r, session)
}
