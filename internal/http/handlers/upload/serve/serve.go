// Package serve отдаёт изображения из хранилища в памяти.
package serve

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Source хранилище, из которого читаются изображения.
type Source interface {
	Get(id string) (imagehost.StoredImage, bool)
}

// Handler отдаёт изображение по id из пути.
type Handler struct {
	log    *slog.Logger
	source Source
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, source Source) *Handler {
	return &Handler{log: log, source: source}
}

// ServeHTTP godoc
// @Summary Изображение из памяти
// @Description Работает только когда Cloudinary недоступен.
// @Tags Upload
// @Produce image/jpeg,image/png,image/webp
// @Param id path string true "Имя файла"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorResponse "Изображение не найдено"
// @Router /uploads/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.serve"

	img, ok := h.source.Get(chi.URLParam(r, "id"))
	if !ok {
		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		response.WriteError(w, r, log, models.ErrImageNotFound)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Last-Modified", img.CreatedAt.UTC().Format(http.TimeFormat))
	_, _ = w.Write(img.Data)
}
