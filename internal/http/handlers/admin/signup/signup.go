// Package signup реализует HTTP-обработчик создания администратора.
package signup

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Request данные нового администратора.
type Request struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Admin данные созданного администратора.
type Admin struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"dj_boss"`
	Email    string `json:"email" example:"boss@club.com"`
}

// Response ответ на создание администратора.
type Response struct {
	Admin   Admin  `json:"admin"`
	Message string `json:"message" example:"Admin account created successfully"`
}

// Service описывает интерфейс регистрации администратора.
type Service interface {
	Signup(ctx context.Context, username, email, password string) (*models.Admin, error)
}

// Handler обрабатывает создание администратора.
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
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация администратора
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body Request true "Данные администратора"
// @Success 201 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Username или email заняты"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Router /admin/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	admin, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Admin:   Admin{ID: admin.ID, Username: admin.Username, Email: admin.Email},
		Message: "Admin account created successfully",
	})
}
