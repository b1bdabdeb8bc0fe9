// Package me возвращает данные посетителя из токена сессии.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Response ответ для /auth/me.
type Response struct {
	User    models.SessionUser `json:"user"`
	Message string             `json:"message" example:"You are authenticated!"`
}

// Handler отдаёт пользователя, положенного в контекст RequireUser.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse "Нет токена или он невалиден"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		h.log.Error("user missing in context",
			slog.String("op", op), slog.String("request_id", middleware.GetReqID(r.Context())))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(middlewarectx.MsgNoUserToken))
		return
	}
	render.JSON(w, r, Response{User: user, Message: "You are authenticated!"})
}
