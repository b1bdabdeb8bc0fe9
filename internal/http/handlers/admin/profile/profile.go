// Package profile возвращает администратора из токена сессии.
package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Response ответ для /admin/profile.
type Response struct {
	Admin   models.SessionAdmin `json:"admin"`
	Message string              `json:"message" example:"Admin authenticated successfully"`
}

// Handler отдаёт администратора, положенного в контекст RequireAdmin.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль администратора
// @Tags Admin
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Нет токена или он невалиден"
// @Failure 403 {object} response.ErrorResponse "Токен не администратора"
// @Router /admin/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profile"

	admin, ok := middlewarectx.AdminFromContext(r.Context())
	if !ok {
		h.log.Error("admin missing in context",
			slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(middlewarectx.MsgNoAdminToken))
		return
	}
	render.JSON(w, r, Response{Admin: admin, Message: "Admin authenticated successfully"})
}
