// Package imagehost хранит постеры событий и изображения галереи.
//
// Основное хранилище Cloudinary. Если оно не настроено или недоступно при
// старте, используется Memory: изображения живут в памяти процесса до
// перезапуска и раздаются самим сервером.
package imagehost

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Kind назначение изображения. От него зависят папка и предельный размер.
type Kind string

// Назначения изображений.
const (
	KindPoster  Kind = "poster"
	KindGallery Kind = "gallery"
)

// Режимы хранилища, попадают в UploadedImage.Storage и Info.Mode.
const (
	ModeCloudinary = "cloudinary"
	ModeMemory     = "memory"
)

// DefaultMaxFileSize предельный размер одного файла.
const DefaultMaxFileSize = 5 * 1024 * 1024

// AllowedContentTypes типы, определяемые по содержимому файла.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/webp"}

var (
	// ErrInvalidType файл не является JPEG, PNG или WebP.
	ErrInvalidType = models.NewValidationError("Invalid file type. Only JPEG, PNG, and WebP images are allowed.")
	// ErrTooLarge файл больше допустимого размера.
	ErrTooLarge = models.NewValidationError("File too large. Maximum size is 5MB.")
	// ErrTooManyPixels размеры изображения больше MaxPixels.
	ErrTooManyPixels = models.NewValidationError("Image dimensions are too large.")
	// ErrEmptyFile загружен пустой файл.
	ErrEmptyFile = models.NewValidationError("No file uploaded")
)

// File загружаемый файл целиком в памяти.
type File struct {
	Name string
	Data []byte
}

// Info описание активного хранилища для /upload/info.
type Info struct {
	Mode         string   `json:"mode"`
	CloudName    string   `json:"cloud_name,omitempty"`
	MaxFileSize  int64    `json:"max_file_size"`
	AllowedTypes []string `json:"allowed_types"`
	// StoredImages число изображений в памяти процесса, только для memory.
	StoredImages int `json:"stored_images,omitempty"`
}

// Store хранилище изображений.
type Store interface {
	// Upload сохраняет изображение. Файл должен быть проверен Validate.
	Upload(ctx context.Context, kind Kind, file File) (*models.UploadedImage, error)
	// Delete удаляет изображение по публичному URL. false, если его нет.
	Delete(ctx context.Context, url string) (bool, error)
	Info() Info
}

type limits struct {
	folder string
	prefix string
	width  int
	height int
}

func (k Kind) limits() limits {
	if k == KindGallery {
		return limits{folder: "nightclub/gallery", prefix: "gallery", width: 1920, height: 1080}
	}
	return limits{folder: "nightclub/event-posters", prefix: "poster", width: 800, height: 1200}
}

// Validate проверяет размер и тип файла по содержимому и возвращает MIME-тип.
func Validate(file File, maxSize int64) (string, error) {
	const op = "imagehost.Validate"

	if len(file.Data) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyFile)
	}
	if maxSize > 0 && int64(len(file.Data)) > maxSize {
		return "", fmt.Errorf("%s: %w", op, ErrTooLarge)
	}
	contentType := http.DetectContentType(file.Data)
	for _, allowed := range AllowedContentTypes {
		if contentType == allowed {
			return contentType, nil
		}
	}
	return "", fmt.Errorf("%s: %w", op, ErrInvalidType)
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

var (
	versionSegment = regexp.MustCompile(`^v\d+$`)
	extensionRe    = regexp.MustCompile(`\.\w+$`)
)

// PublicIDFromURL извлекает public id Cloudinary из URL доставки вида
// https://res.cloudinary.com/<cloud>/image/upload/[<transformations>/][v<version>/]<public_id>.<ext>
func PublicIDFromURL(url string) (string, bool) {
	const marker = "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}
	rest := strings.SplitN(url[i+len(marker):], "?", 2)[0]
	segments := strings.Split(rest, "/")

	start := 0
	for j, seg := range segments {
		if versionSegment.MatchString(seg) {
			start = j + 1
			break
		}
	}
	if start == 0 {
		// Без версии пропускаем сегменты трансформаций вида c_limit,w_800.
		for start < len(segments)-1 && isTransformation(segments[start]) {
			start++
		}
	}

	id := extensionRe.ReplaceAllString(strings.Join(segments[start:], "/"), "")
	if id == "" {
		return "", false
	}
	return id, true
}

func isTransformation(seg string) bool {
	return strings.Contains(seg, ",") || (len(seg) > 2 && seg[1] == '_' && !strings.Contains(seg, "."))
}
