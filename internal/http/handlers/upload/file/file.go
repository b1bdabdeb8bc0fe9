// Package file реализует обработчики загрузки постеров и изображений галереи.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Поля формы с файлами.
const (
	FieldPoster        = "poster"
	FieldGalleryImage  = "image"
	FieldGalleryImages = "images"
)

// ErrNoFile в запросе нет файла в ожидаемом поле.
var ErrNoFile = models.NewValidationError("No file uploaded")

// SingleResponse результат загрузки одного файла.
type SingleResponse struct {
	Success bool                  `json:"success" example:"true"`
	Message string                `json:"message" example:"Event poster uploaded successfully"`
	File    *models.UploadedImage `json:"file"`
}

// MultipleResponse результат загрузки нескольких файлов.
type MultipleResponse struct {
	Success bool                    `json:"success" example:"true"`
	Message string                  `json:"message" example:"2 gallery images uploaded successfully"`
	Files   []*models.UploadedImage `json:"files"`
}

// Uploader сохраняет изображения.
type Uploader interface {
	Upload(ctx context.Context, kind imagehost.Kind, file imagehost.File) (*models.UploadedImage, error)
}

// Handler загружает файлы одного поля формы.
type Handler struct {
	log      *slog.Logger
	uploader Uploader
	limits   form.Limits
	op       string
	field    string
	kind     imagehost.Kind
	multiple bool
	message  string
}

// NewPoster godoc
// @Summary Загрузка постера
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param poster formData file true "Постер (JPEG, PNG, WebP до 5MB)"
// @Success 200 {object} SingleResponse
// @Failure 400 {object} response.ErrorResponse "Нет файла или неверный тип"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security AdminCookie
// @Router /upload/event-poster [post]
func NewPoster(log *slog.Logger, uploader Uploader, limits form.Limits) *Handler {
	return &Handler{
		log: log, uploader: uploader, limits: limits,
		op:      "handlers.upload.poster",
		field:   FieldPoster,
		kind:    imagehost.KindPoster,
		message: "Event poster uploaded successfully",
	}
}

// NewGalleryImage godoc
// @Summary Загрузка изображения галереи
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param image formData file true "Изображение"
// @Success 200 {object} SingleResponse
// @Failure 400 {object} response.ErrorResponse "Нет файла или неверный тип"
// @Security AdminCookie
// @Router /upload/gallery-image [post]
func NewGalleryImage(log *slog.Logger, uploader Uploader, limits form.Limits) *Handler {
	return &Handler{
		log: log, uploader: uploader, limits: limits,
		op:      "handlers.upload.gallery_image",
		field:   FieldGalleryImage,
		kind:    imagehost.KindGallery,
		message: "Gallery image uploaded successfully",
	}
}

// NewGalleryImages godoc
// @Summary Загрузка нескольких изображений галереи
// @Description Не больше 10 файлов за запрос.
// @Tags Upload
// @Accept mpfd
// @Produce json
// @Param images formData file true "Изображения"
// @Success 200 {object} MultipleResponse
// @Failure 400 {object} response.ErrorResponse "Нет файлов, неверный тип или слишком много файлов"
// @Security AdminCookie
// @Router /upload/gallery-images [post]
func NewGalleryImages(log *slog.Logger, uploader Uploader, limits form.Limits) *Handler {
	return &Handler{
		log: log, uploader: uploader, limits: limits,
		op:       "handlers.upload.gallery_images",
		field:    FieldGalleryImages,
		kind:     imagehost.KindGallery,
		multiple: true,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", h.op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var files []imagehost.File
	if form.IsMultipart(r) {
		limits := h.limits
		if !h.multiple {
			limits.MaxFiles = 1
		}
		if err := form.ParseMultipart(w, r, limits); err != nil {
			response.WriteError(w, r, log, err)
			return
		}
		var err error
		if files, err = form.Files(r, h.field, limits); err != nil {
			response.WriteError(w, r, log, err)
			return
		}
	}
	if len(files) == 0 {
		if h.multiple {
			response.WriteError(w, r, log, form.ErrNoFiles)
		} else {
			response.WriteError(w, r, log, ErrNoFile)
		}
		return
	}

	uploaded := make([]*models.UploadedImage, 0, len(files))
	for _, f := range files {
		img, err := h.uploader.Upload(r.Context(), h.kind, f)
		if err != nil {
			response.WriteError(w, r, log, err)
			return
		}
		uploaded = append(uploaded, img)
	}

	log.Info("images uploaded", slog.Int("count", len(uploaded)), slog.String("storage", uploaded[0].Storage))
	if h.multiple {
		render.JSON(w, r, MultipleResponse{
			Success: true,
			Message: fmt.Sprintf("%d gallery images uploaded successfully", len(uploaded)),
			Files:   uploaded,
		})
		return
	}
	render.JSON(w, r, SingleResponse{Success: true, Message: h.message, File: uploaded[0]})
}
