// Package update реализует HTTP-обработчик частичного обновления события.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/create"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Response ответ с обновлённым событием.
type Response struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Event updated successfully"`
	Event   *models.Event `json:"event"`
}

// Service описывает интерфейс бизнес-логики обновления события.
type Service interface {
	Update(ctx context.Context, id int64, patch models.EventPatch, poster *imagehost.File) (*models.Event, error)
}

// Handler обрабатывает запросы на обновление события.
type Handler struct {
	log      *slog.Logger
	service  Service
	limits   form.Limits
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, limits form.Limits) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		limits:   limits,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Обновление события
// @Description Меняет только переданные поля. Явный null очищает необязательное поле.
// @Tags Events
// @Accept json,mpfd
// @Produce json
// @Param id path int true "ID события"
// @Param request body models.EventPatchRules true "Изменяемые поля"
// @Param poster formData file false "Новый постер"
// @Success 200 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет токена администратора"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security AdminCookie
// @Router /events/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := form.EventID(r)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	var poster *imagehost.File
	if form.IsMultipart(r) {
		if err := form.ParseMultipart(w, r, h.limits); err != nil {
			response.WriteError(w, r, log, err)
			return
		}
		if poster, err = form.File(r, create.PosterField, h.limits); err != nil {
			response.WriteError(w, r, log, err)
			return
		}
	}

	var patch models.EventPatch
	if err := form.Decode(r, &patch, create.Kinds); err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	form.BlankToNull(&patch.Description, &patch.DJArtist, &patch.PosterImageURL)

	if msgs := patch.NullViolations(); len(msgs) > 0 {
		log.Info("null for required column", slog.Any("fields", msgs))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Validation(msgs))
		return
	}
	if err := h.validate.Struct(patch.Rules()); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	event, err := h.service.Update(r.Context(), id, patch, poster)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("event updated", slog.Int64("event_id", id))
	render.JSON(w, r, Response{Success: true, Message: "Event updated successfully", Event: event})
}
