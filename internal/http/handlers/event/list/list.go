// Package list реализует HTTP-обработчик списка всех событий для админки.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Response список событий.
type Response struct {
	Success bool            `json:"success" example:"true"`
	Events  []*models.Event `json:"events"`
	Count   int             `json:"count" example:"1"`
}

// Service описывает интерфейс бизнес-логики получения событий.
type Service interface {
	List(ctx context.Context) ([]*models.Event, error)
}

// Handler обрабатывает запросы на получение всех событий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все события
// @Description Возвращает все события по дате, с логином создателя.
// @Tags Events
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Нет токена администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security AdminCookie
// @Router /events/admin/all [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	events, err := h.service.List(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}

	log.Info("events listed", slog.Int("count", len(events)))
	render.JSON(w, r, Response{Success: true, Events: events, Count: len(events)})
}
