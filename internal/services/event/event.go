// Package event содержит бизнес-логику событий клуба: управление из
// админки и публичные выборки для афиши.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	monthlib "github.com/magabrotheeeer/nightclub-events/internal/lib/month"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// ErrInvalidMonth месяц вне диапазона 1..12.
var ErrInvalidMonth = models.NewValidationError("Invalid month")

// Repository описывает контракт хранилища событий.
type Repository interface {
	CreateEvent(ctx context.Context, in models.NewEvent) (*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListUpcomingEvents(ctx context.Context) ([]*models.Event, error)
	ListEventsBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) (*models.Event, error)
}

// Uploader загружает постеры.
type Uploader interface {
	Upload(ctx context.Context, kind imagehost.Kind, file imagehost.File) (*models.UploadedImage, error)
}

// CleanupQueue принимает URL постеров на удаление.
type CleanupQueue interface {
	Enqueue(ctx context.Context, url string) error
}

// Recorder считает загрузки, которые не удались и были пропущены.
type Recorder interface {
	UploadFallback(operation string)
}

// Calendar ответ для публичного календаря.
type Calendar struct {
	Today    []*models.Event `json:"today"`
	Upcoming []*models.Event `json:"upcoming"`
}

// Service реализует операции над событиями.
type Service struct {
	log      *slog.Logger
	repo     Repository
	uploader Uploader
	cleanup  CleanupQueue
	metrics  Recorder
	now      func() time.Time
	loc      *time.Location
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation задаёт часовой пояс клуба для календарных выборок.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, uploader Uploader, cleanup CleanupQueue, metrics Recorder, opts ...Option) *Service {
	s := &Service{
		log:      log,
		repo:     repo,
		uploader: uploader,
		cleanup:  cleanup,
		metrics:  metrics,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create сохраняет событие от имени администратора. Если постер не удалось
// загрузить, событие создаётся без него.
func (s *Service) Create(ctx context.Context, in models.NewEvent, adminID int64, poster *imagehost.File) (*models.Event, error) {
	const op = "services.event.Create"

	in.ApplyDefaults()
	in.CreatedBy = adminID
	if url, ok := s.uploadPoster(ctx, op, poster); ok {
		in.PosterImageURL = &url
	}

	e, err := s.repo.CreateEvent(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("event created", slog.String("op", op), slog.Int64("event_id", e.ID), slog.Int64("admin_id", adminID))
	return e, nil
}

// List возвращает все события для админки.
func (s *Service) List(ctx context.Context) ([]*models.Event, error) {
	const op = "services.event.List"

	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// Get возвращает событие по идентификатору.
func (s *Service) Get(ctx context.Context, id int64) (*models.Event, error) {
	const op = "services.event.Get"

	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// Update применяет частичное обновление. Новый постер заменяет
// poster_image_url, старый уходит в очередь на удаление.
func (s *Service) Update(ctx context.Context, id int64, patch models.EventPatch, poster *imagehost.File) (*models.Event, error) {
	const op = "services.event.Update"

	current, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uploaded, ok := s.uploadPoster(ctx, op, poster)
	if ok {
		patch.PosterImageURL = models.Some(uploaded)
	}

	updated, err := s.repo.UpdateEvent(ctx, id, patch)
	if err != nil {
		// новый постер никуда не привязан
		if ok {
			s.enqueueCleanup(ctx, op, uploaded)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if old := current.PosterImageURL; old != nil && patch.PosterImageURL.Set {
		if updated.PosterImageURL == nil || *updated.PosterImageURL != *old {
			s.enqueueCleanup(ctx, op, *old)
		}
	}
	s.log.Info("event updated", slog.String("op", op), slog.Int64("event_id", id))
	return updated, nil
}

// Delete удаляет событие и ставит его постер в очередь на удаление.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "services.event.Delete"

	if _, err := s.repo.GetEvent(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := s.repo.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if deleted.PosterImageURL != nil {
		s.enqueueCleanup(ctx, op, *deleted.PosterImageURL)
	}
	s.log.Info("event deleted", slog.String("op", op), slog.Int64("event_id", id))
	return nil
}

// Upcoming возвращает активные предстоящие события.
func (s *Service) Upcoming(ctx context.Context) ([]*models.Event, error) {
	const op = "services.event.Upcoming"

	events, err := s.repo.ListUpcomingEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// Today возвращает активные события сегодняшнего дня.
func (s *Service) Today(ctx context.Context) ([]*models.Event, error) {
	const op = "services.event.Today"

	events, err := s.today(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// Calendar собирает события на сегодня и предстоящие, без сегодняшних.
func (s *Service) Calendar(ctx context.Context) (*Calendar, error) {
	const op = "services.event.Calendar"

	today, err := s.today(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	upcoming, err := s.repo.ListUpcomingEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	later := make([]*models.Event, 0, len(upcoming))
	for _, e := range upcoming {
		if !e.IsOn(now, s.loc) {
			later = append(later, e)
		}
	}
	if today == nil {
		today = []*models.Event{}
	}
	return &Calendar{Today: today, Upcoming: later}, nil
}

// today выбирает события текущих суток в часовом поясе клуба.
func (s *Service) today(ctx context.Context) ([]*models.Event, error) {
	from, to := monthlib.Day(s.now(), s.loc)
	return s.repo.ListEventsBetween(ctx, from, to)
}

// ByMonth возвращает события месяца: с первого дня 00:00:00 до последнего
// дня 23:59:59 в часовом поясе клуба.
func (s *Service) ByMonth(ctx context.Context, year, m int) ([]*models.Event, error) {
	const op = "services.event.ByMonth"

	if !monthlib.Valid(m) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidMonth)
	}
	from, to := monthlib.Range(year, time.Month(m), s.loc)

	events, err := s.repo.ListEventsBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (s *Service) uploadPoster(ctx context.Context, op string, poster *imagehost.File) (string, bool) {
	if poster == nil || s.uploader == nil {
		return "", false
	}
	img, err := s.uploader.Upload(ctx, imagehost.KindPoster, *poster)
	if err != nil {
		s.log.Warn("poster upload failed, continuing without poster",
			slog.String("op", op), slog.String("file", poster.Name), sl.Err(err))
		if s.metrics != nil {
			s.metrics.UploadFallback(op)
		}
		return "", false
	}
	return img.URL, true
}

func (s *Service) enqueueCleanup(ctx context.Context, op, url string) {
	if s.cleanup == nil {
		return
	}
	if err := s.cleanup.Enqueue(ctx, url); err != nil {
		s.log.Error("failed to enqueue poster cleanup",
			slog.String("op", op), slog.String("url", url), sl.Err(err))
	}
}
