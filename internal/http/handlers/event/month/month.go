// Package month реализует публичный обработчик событий за календарный месяц.
package month

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
	"github.com/magabrotheeeer/nightclub-events/internal/services/event"
)

// ErrInvalidYear год в пути не число.
var ErrInvalidYear = models.NewValidationError("Invalid year")

// Response события месяца.
type Response struct {
	Success bool            `json:"success" example:"true"`
	Events  []*models.Event `json:"events"`
	Year    int             `json:"year" example:"2026"`
	Month   int             `json:"month" example:"3"`
}

// Service описывает выборку событий за месяц.
type Service interface {
	ByMonth(ctx context.Context, year, month int) ([]*models.Event, error)
}

// Handler обрабатывает запросы событий за месяц.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary События за месяц
// @Tags Public
// @Produce json
// @Param year path int true "Год"
// @Param month path int true "Месяц 1..12"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный год или месяц"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/month/{year}/{month} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.month"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.WriteError(w, r, log, ErrInvalidYear)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		response.WriteError(w, r, log, event.ErrInvalidMonth)
		return
	}

	events, err := h.service.ByMonth(r.Context(), year, month)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}

	render.JSON(w, r, Response{Success: true, Events: events, Year: year, Month: month})
}
