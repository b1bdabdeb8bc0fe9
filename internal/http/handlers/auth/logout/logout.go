// Package logout реализует выход посетителя и администратора: сброс cookie
// с токеном. Токены на сервере не хранятся, поэтому выход только клиентский.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/cookie"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
)

// MsgAdminLogout ответ на выход администратора.
const MsgAdminLogout = "Admin logout successful"

// Handler сбрасывает cookie с токеном.
type Handler struct {
	log    *slog.Logger
	jar    cookie.Jar
	cookie string
}

// NewUser создаёт обработчик выхода посетителя. Ответ 204 без тела.
func NewUser(log *slog.Logger, jar cookie.Jar) *Handler {
	return &Handler{log: log, jar: jar, cookie: cookie.UserToken}
}

// NewAdmin создаёт обработчик выхода администратора. Ответ 200 с сообщением.
func NewAdmin(log *slog.Logger, jar cookie.Jar) *Handler {
	return &Handler{log: log, jar: jar, cookie: cookie.AdminToken}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Сбрасывает cookie access_token (204) или admin_token (200).
// @Tags Auth
// @Produce json
// @Success 204 "Пользователь вышел"
// @Success 200 {object} response.MessageResponse "Администратор вышел"
// @Router /auth/logout [post]
// @Router /admin/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	h.jar.Clear(w, h.cookie)
	h.log.Info("logged out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("cookie", h.cookie),
	)

	if h.cookie == cookie.AdminToken {
		render.JSON(w, r, response.MessageResponse{Message: MsgAdminLogout})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
