// Package remove реализует HTTP-обработчик удаления события.
//
// Постер удалённого события ставится в очередь на удаление из хранилища,
// ответ не ждёт его удаления.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
)

// Response подтверждение удаления.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Event deleted successfully"`
}

// Service описывает интерфейс бизнес-логики удаления события.
type Service interface {
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы на удаление события.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление события
// @Tags Events
// @Produce json
// @Param id path int true "ID события"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security AdminCookie
// @Router /events/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := form.EventID(r)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("event deleted", slog.Int64("event_id", id))
	render.JSON(w, r, Response{Success: true, Message: "Event deleted successfully"})
}
