// Package feed реализует публичные обработчики афиши: календарь,
// ближайшие события и события сегодня.
package feed

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
	"github.com/magabrotheeeer/nightclub-events/internal/services/event"
)

// CalendarResponse календарь афиши.
type CalendarResponse struct {
	Success  bool            `json:"success" example:"true"`
	Calendar *event.Calendar `json:"calendar"`
}

// EventsResponse список событий.
type EventsResponse struct {
	Success bool            `json:"success" example:"true"`
	Events  []*models.Event `json:"events"`
}

// Service описывает публичные выборки событий.
type Service interface {
	Calendar(ctx context.Context) (*event.Calendar, error)
	Upcoming(ctx context.Context) ([]*models.Event, error)
	Today(ctx context.Context) ([]*models.Event, error)
}

// Handler обрабатывает одну из публичных выборок.
type Handler struct {
	log   *slog.Logger
	op    string
	serve func(ctx context.Context) (any, error)
}

// NewCalendar godoc
// @Summary Календарь событий
// @Description События сегодня и ближайшие активные события без сегодняшних.
// @Tags Public
// @Produce json
// @Success 200 {object} CalendarResponse
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/calendar [get]
func NewCalendar(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, op: "handlers.event.feed.calendar", serve: func(ctx context.Context) (any, error) {
		calendar, err := service.Calendar(ctx)
		if err != nil {
			return nil, err
		}
		return CalendarResponse{Success: true, Calendar: calendar}, nil
	}}
}

// NewUpcoming godoc
// @Summary Ближайшие события
// @Description Активные события с датой не раньше текущего момента, не больше 20.
// @Tags Public
// @Produce json
// @Success 200 {object} EventsResponse
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/upcoming [get]
func NewUpcoming(log *slog.Logger, service Service) *Handler {
	return newList(log, "handlers.event.feed.upcoming", service.Upcoming)
}

// NewToday godoc
// @Summary События сегодня
// @Tags Public
// @Produce json
// @Success 200 {object} EventsResponse
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/today [get]
func NewToday(log *slog.Logger, service Service) *Handler {
	return newList(log, "handlers.event.feed.today", service.Today)
}

func newList(log *slog.Logger, op string, list func(ctx context.Context) ([]*models.Event, error)) *Handler {
	return &Handler{log: log, op: op, serve: func(ctx context.Context) (any, error) {
		events, err := list(ctx)
		if err != nil {
			return nil, err
		}
		if events == nil {
			events = []*models.Event{}
		}
		return EventsResponse{Success: true, Events: events}, nil
	}}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := h.serve(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	render.JSON(w, r, body)
}
