// Package info реализует обработчик описания активного хранилища изображений.
package info

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
)

// Response описание хранилища.
type Response struct {
	Success bool           `json:"success" example:"true"`
	Storage imagehost.Info `json:"storage"`
}

// Store источник описания хранилища.
type Store interface {
	Info() imagehost.Info
}

// Handler отдаёт режим хранилища и ограничения на файлы.
type Handler struct {
	log   *slog.Logger
	store Store
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Store) *Handler {
	return &Handler{log: log, store: store}
}

// ServeHTTP godoc
// @Summary Хранилище изображений
// @Tags Upload
// @Produce json
// @Success 200 {object} Response
// @Security AdminCookie
// @Router /upload/info [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Response{Success: true, Storage: h.store.Info()})
}
