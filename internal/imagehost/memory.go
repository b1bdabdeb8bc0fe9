package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/image/webp"

	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// MaxPixels наибольшее число пикселей изображения, которое Memory
// согласится декодировать.
const MaxPixels = 40_000_000

// Memory хранит изображения в памяти процесса. Данные теряются при
// перезапуске.
type Memory struct {
	mu          sync.RWMutex
	images      map[string]StoredImage
	baseURL     string
	maxFileSize int64
}

// StoredImage изображение в памяти.
type StoredImage struct {
	Data        []byte
	ContentType string
	CreatedAt   time.Time
}

// NewMemory создаёт хранилище. baseURL внешний адрес сервера, от него
// строятся ссылки вида <baseURL>/uploads/<id>.
func NewMemory(baseURL string, maxFileSize int64) *Memory {
	return &Memory{
		images:      make(map[string]StoredImage),
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxFileSize: maxFileSize,
	}
}

// Upload уменьшает JPEG и PNG до пределов назначения и сохраняет результат.
// WebP сохраняется как есть.
func (m *Memory) Upload(_ context.Context, kind Kind, file File) (*models.UploadedImage, error) {
	const op = "imagehost.Memory.Upload"

	contentType, err := Validate(file, m.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, width, height, err := fitImage(file.Data, contentType, kind.limits())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id := kind.limits().prefix + "-" + uuid.NewString() + extension(contentType)

	m.mu.Lock()
	m.images[id] = StoredImage{Data: data, ContentType: contentType, CreatedAt: time.Now()}
	m.mu.Unlock()

	return &models.UploadedImage{
		PublicID:     id,
		URL:          m.baseURL + "/uploads/" + id,
		OriginalName: file.Name,
		Size:         int64(len(data)),
		Format:       strings.TrimPrefix(contentType, "image/"),
		Width:        width,
		Height:       height,
		Storage:      ModeMemory,
	}, nil
}

// Get возвращает сохранённое изображение по id.
func (m *Memory) Get(id string) (StoredImage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[id]
	return img, ok
}

// Delete удаляет изображение по ссылке, выданной Upload.
func (m *Memory) Delete(_ context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.HasPrefix(u.Path, "/uploads/") {
		return false, nil
	}
	id := path.Base(u.Path)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.images[id]; !ok {
		return false, nil
	}
	delete(m.images, id)
	return true, nil
}

// Len количество изображений в памяти.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}

// Info описание хранилища.
func (m *Memory) Info() Info {
	return Info{
		Mode:         ModeMemory,
		MaxFileSize:  m.maxFileSize,
		AllowedTypes: AllowedContentTypes,
		StoredImages: m.Len(),
	}
}

func fitImage(data []byte, contentType string, l limits) ([]byte, int, int, error) {
	if contentType == "image/webp" {
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("decode webp: %w", ErrInvalidType)
		}
		if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
			return nil, 0, 0, fmt.Errorf("image %dx%d: %w", cfg.Width, cfg.Height, ErrTooManyPixels)
		}
		return data, cfg.Width, cfg.Height, nil
	}

	// заголовок читается до декодирования: маленький файл может объявить
	// огромные размеры
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image config: %w", ErrInvalidType)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, 0, 0, fmt.Errorf("image %dx%d: %w", cfg.Width, cfg.Height, ErrTooManyPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", ErrInvalidType)
	}
	b := img.Bounds()
	if b.Dx() <= l.width && b.Dy() <= l.height {
		return data, b.Dx(), b.Dy(), nil
	}

	var resized image.Image = imaging.Fit(img, l.width, l.height, imaging.Lanczos)
	format := imaging.JPEG
	if contentType == "image/png" {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, 0, 0, fmt.Errorf("encode image: %w", err)
	}
	rb := resized.Bounds()
	return buf.Bytes(), rb.Dx(), rb.Dy(), nil
}
