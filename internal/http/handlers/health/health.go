// Package health реализует служебные эндпоинты проверки состояния сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/writeitdown/internal/lib/sl"
)

const (
	dbConnected    = "connected"
	dbDisconnected = "disconnected"
	pingTimeout    = 2 * time.Second
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response: тело ответа /health.
type Response struct {
	Status    string `json:"status" example:"OK"`
	Message   string `json:"message" example:"Server is running"`
	Database  string `json:"database" example:"connected"`
	Timestamp string `json:"timestamp" example:"2024-01-01T00:00:00.000Z"`
}

// Handler отвечает на /health и проверяет доступность базы.
type Handler struct {
	log *slog.Logger
	db  Pinger
	now func() time.Time
}

// New создает новый обработчик /health.
func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
		now: time.Now,
	}
}

// ServeHTTP godoc
// @Summary Состояние сервиса
// @Description Сервис отвечает 200 всегда; доступность базы видна в поле database.
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	database := dbConnected
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("database ping failed", sl.Op(op), sl.Err(err))
		database = dbDisconnected
	}

	render.JSON(w, r, Response{
		Status:    "OK",
		Message:   "Server is running",
		Database:  database,
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// Test отвечает фиксированным сообщением без обращения к зависимостям.
func Test(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"message": "Server is working!"})
}
