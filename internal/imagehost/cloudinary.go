package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// ErrHostUnavailable внешний хостинг вернул ошибку.
var ErrHostUnavailable = errors.New("image host unavailable")

// UploadAPI часть клиента Cloudinary, отвечающая за загрузку и удаление.
type UploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// AdminAPI часть клиента Cloudinary для проверки доступности.
type AdminAPI interface {
	Ping(ctx context.Context) (*admin.PingResult, error)
}

// Cloudinary хранилище на Cloudinary.
type Cloudinary struct {
	upload      UploadAPI
	admin       AdminAPI
	cloudName   string
	maxFileSize int64
}

// NewCloudinary создаёт хранилище по учётным данным из конфига.
func NewCloudinary(cfg config.Cloudinary, maxFileSize int64) (*Cloudinary, error) {
	const op = "imagehost.NewCloudinary"

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return NewCloudinaryWithAPI(&cld.Upload, &cld.Admin, cfg.CloudName, maxFileSize), nil
}

// NewCloudinaryWithAPI создаёт хранилище поверх готовых клиентов.
func NewCloudinaryWithAPI(up UploadAPI, adm AdminAPI, cloudName string, maxFileSize int64) *Cloudinary {
	return &Cloudinary{
		upload:      up,
		admin:       adm,
		cloudName:   cloudName,
		maxFileSize: maxFileSize,
	}
}

// Ping проверяет учётные данные и доступность API.
func (c *Cloudinary) Ping(ctx context.Context) error {
	const op = "imagehost.Cloudinary.Ping"

	res, err := c.admin.Ping(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%s: %w: %s", op, ErrHostUnavailable, res.Error.Message)
	}
	if res.Status != "ok" {
		return fmt.Errorf("%s: %w: status %q", op, ErrHostUnavailable, res.Status)
	}
	return nil
}

// Upload загружает изображение в папку назначения. Размер ограничивается
// на стороне Cloudinary трансформацией c_limit.
func (c *Cloudinary) Upload(ctx context.Context, kind Kind, file File) (*models.UploadedImage, error) {
	const op = "imagehost.Cloudinary.Upload"

	l := kind.limits()
	params := uploader.UploadParams{
		PublicID:       l.prefix + "-" + uuid.NewString(),
		Folder:         l.folder,
		AllowedFormats: api.CldAPIArray{"jpg", "jpeg", "png", "webp"},
		Transformation: fmt.Sprintf("c_limit,w_%d,h_%d/q_auto,f_auto", l.width, l.height),
	}

	res, err := c.upload.Upload(ctx, bytes.NewReader(file.Data), params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrHostUnavailable, err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrHostUnavailable, res.Error.Message)
	}

	return &models.UploadedImage{
		PublicID:     res.PublicID,
		URL:          res.SecureURL,
		OriginalName: file.Name,
		Size:         int64(res.Bytes),
		Format:       res.Format,
		Width:        res.Width,
		Height:       res.Height,
		Storage:      ModeCloudinary,
	}, nil
}

// Delete удаляет изображение по URL доставки.
func (c *Cloudinary) Delete(ctx context.Context, url string) (bool, error) {
	const op = "imagehost.Cloudinary.Delete"

	publicID, ok := PublicIDFromURL(url)
	if !ok {
		return false, nil
	}
	res, err := c.upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrHostUnavailable, err)
	}
	if res.Error.Message != "" {
		return false, fmt.Errorf("%s: %w: %s", op, ErrHostUnavailable, res.Error.Message)
	}
	return res.Result == "ok", nil
}

// Info описание хранилища.
func (c *Cloudinary) Info() Info {
	return Info{
		Mode:         ModeCloudinary,
		CloudName:    c.cloudName,
		MaxFileSize:  c.maxFileSize,
		AllowedTypes: AllowedContentTypes,
	}
}
