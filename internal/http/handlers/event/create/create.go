// Package create реализует HTTP-обработчик создания события из админки.
//
// Тело принимается как JSON или как multipart/form-data с необязательным
// файлом постера в поле poster.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	"github.com/magabrotheeeer/nightclub-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// PosterField имя поля формы с файлом постера.
const PosterField = "poster"

// Kinds типы текстовых полей формы события.
var Kinds = map[string]form.Kind{
	"ticket_price": form.Float,
	"max_capacity": form.Int,
}

// Response ответ с созданным событием.
type Response struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Event created successfully"`
	Event   *models.Event `json:"event"`
}

// Service описывает интерфейс бизнес-логики создания события.
type Service interface {
	Create(ctx context.Context, in models.NewEvent, adminID int64, poster *imagehost.File) (*models.Event, error)
}

// Handler обрабатывает запросы на создание события.
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
// @Summary Создание события
// @Description Создаёт событие. Постер можно передать файлом в поле poster или ссылкой poster_image_url.
// @Tags Events
// @Accept json,mpfd
// @Produce json
// @Param request body models.NewEvent true "Данные события"
// @Param poster formData file false "Постер (JPEG, PNG, WebP до 5MB)"
// @Success 201 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Нет токена администратора"
// @Failure 403 {object} response.ErrorResponse "Нужны права администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security AdminCookie
// @Router /events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	admin, ok := middlewarectx.AdminFromContext(r.Context())
	if !ok {
		log.Error("admin not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(middlewarectx.MsgNoAdminToken))
		return
	}

	var poster *imagehost.File
	if form.IsMultipart(r) {
		if err := form.ParseMultipart(w, r, h.limits); err != nil {
			response.WriteError(w, r, log, err)
			return
		}
		file, err := form.File(r, PosterField, h.limits)
		if err != nil {
			response.WriteError(w, r, log, err)
			return
		}
		poster = file
	}

	var in models.NewEvent
	if err := form.Decode(r, &in, Kinds); err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	form.BlankToNil(&in.Description, &in.DJArtist, &in.PosterImageURL)
	in.ApplyDefaults()

	if err := h.validate.Struct(in); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	event, err := h.service.Create(r.Context(), in, admin.ID, poster)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("event created", slog.Int64("event_id", event.ID), slog.Int64("admin_id", admin.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Success: true, Message: "Event created successfully", Event: event})
}
