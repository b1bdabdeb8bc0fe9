// Package read реализует HTTP-обработчик получения события по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Response событие.
type Response struct {
	Success bool          `json:"success" example:"true"`
	Event   *models.Event `json:"event"`
}

// Service описывает интерфейс бизнес-логики чтения события.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Event, error)
}

// Handler обрабатывает запросы на получение события по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Событие по ID
// @Tags Events
// @Produce json
// @Param id path int true "ID события"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security AdminCookie
// @Router /events/admin/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := form.EventID(r)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	event, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	render.JSON(w, r, Response{Success: true, Event: event})
}
