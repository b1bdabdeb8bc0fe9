// Package remove реализует обработчик удаления загруженного изображения.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// MsgURLRequired в запросе нет ссылки на файл.
const MsgURLRequired = "File URL is required"

// Request ссылка на удаляемый файл.
type Request struct {
	FileURL string `json:"fileUrl" example:"https://res.cloudinary.com/club/image/upload/v1/nightclub/gallery/gallery-1.jpg"`
}

// Response подтверждение удаления.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"File deleted successfully"`
}

// Deleter удаляет изображения по ссылке.
type Deleter interface {
	Delete(ctx context.Context, url string) (bool, error)
}

// Handler обрабатывает запросы на удаление файла.
type Handler struct {
	log   *slog.Logger
	store Deleter
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, store Deleter) *Handler {
	return &Handler{log: log, store: store}
}

// ServeHTTP godoc
// @Summary Удаление файла
// @Tags Upload
// @Accept json
// @Produce json
// @Param request body Request true "Ссылка на файл"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Нет ссылки"
// @Failure 404 {object} response.ErrorResponse "Файл не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security AdminCookie
// @Router /upload/file [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
	}
	if strings.TrimSpace(req.FileURL) == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(MsgURLRequired))
		return
	}

	deleted, err := h.store.Delete(r.Context(), req.FileURL)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if !deleted {
		response.WriteError(w, r, log, models.ErrFileNotFound)
		return
	}

	log.Info("file deleted", slog.String("url", req.FileURL))
	render.JSON(w, r, Response{Success: true, Message: "File deleted successfully"})
}
