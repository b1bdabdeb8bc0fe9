package imagehost

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

const pingTimeout = 5 * time.Second

// Select выбирает хранилище при старте: Cloudinary, если заданы учётные
// данные и API отвечает, иначе Memory.
func Select(ctx context.Context, cfg *config.Config, log *slog.Logger) Store {
	const op = "imagehost.Select"
	log = log.With(slog.String("op", op))

	memory := NewMemory(cfg.PublicBaseURL, cfg.MaxFileSize)
	if !cfg.Cloudinary.Enabled() {
		log.Warn("cloudinary is not configured, using memory storage")
		return memory
	}

	cld, err := NewCloudinary(cfg.Cloudinary, cfg.MaxFileSize)
	if err != nil {
		log.Warn("cloudinary client init failed, using memory storage", sl.Err(err))
		return memory
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := cld.Ping(pingCtx); err != nil {
		log.Warn("cloudinary is unavailable, using memory storage", sl.Err(err))
		return memory
	}

	log.Info("using cloudinary storage", slog.String("cloud_name", cfg.CloudName))
	return cld
}

// Recorder получает события о загрузках.
type Recorder interface {
	Uploaded(kind, storage string)
}

type instrumented struct {
	Store
	rec Recorder
}

// WithMetrics оборачивает хранилище и отмечает каждую успешную загрузку.
func WithMetrics(store Store, rec Recorder) Store {
	return &instrumented{Store: store, rec: rec}
}

func (s *instrumented) Upload(ctx context.Context, kind Kind, file File) (*models.UploadedImage, error) {
	img, err := s.Store.Upload(ctx, kind, file)
	if err != nil {
		return nil, err
	}
	s.rec.Uploaded(string(kind), img.Storage)
	return img, nil
}
