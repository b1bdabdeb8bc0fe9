// Package login реализует HTTP-обработчик входа администратора.
//
// В поле username можно передать и email. При успехе выставляется cookie
// admin_token, в ответе время последнего входа.
package login

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nightclub-events/internal/http/cookie"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Request учётные данные администратора.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Admin данные администратора в ответе.
type Admin struct {
	ID        int64      `json:"id" example:"1"`
	Username  string     `json:"username" example:"dj_boss"`
	Email     string     `json:"email" example:"boss@club.com"`
	LastLogin *time.Time `json:"last_login"`
}

// Response ответ на успешный вход.
type Response struct {
	Admin   Admin  `json:"admin"`
	Message string `json:"message" example:"Admin login successful"`
}

// Service описывает интерфейс входа администратора.
type Service interface {
	Login(ctx context.Context, login, password string) (*models.Admin, string, error)
}

// Handler обрабатывает вход администратора.
type Handler struct {
	log      *slog.Logger
	service  Service
	jar      cookie.Jar
	tokenTTL time.Duration
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, jar cookie.Jar, tokenTTL time.Duration) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		jar:      jar,
		tokenTTL: tokenTTL,
		validate: response.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Вход администратора
// @Description Принимает username или email и пароль, выставляет cookie admin_token.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные администратора"
// @Success 200 {object} Response
// @Failure 400 {object} response.ValidationErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} response.ErrorResponse "Учётная запись отключена"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Router /admin/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.login"

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

	admin, token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	h.jar.Set(w, cookie.AdminToken, token, h.tokenTTL)
	render.JSON(w, r, Response{
		Admin: Admin{
			ID:        admin.ID,
			Username:  admin.Username,
			Email:     admin.Email,
			LastLogin: admin.LastLogin,
		},
		Message: "Admin login successful",
	})
}
