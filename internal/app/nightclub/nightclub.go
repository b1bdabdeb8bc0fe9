package nightclub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/nightclub-events/internal/cache"
	"github.com/magabrotheeeer/nightclub-events/internal/cleanup"
	"github.com/magabrotheeeer/nightclub-events/internal/config"
	"github.com/magabrotheeeer/nightclub-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/jwt"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/password"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/metrics"
	"github.com/magabrotheeeer/nightclub-events/internal/migrations"
	"github.com/magabrotheeeer/nightclub-events/internal/rabbitmq"
	"github.com/magabrotheeeer/nightclub-events/internal/services/adminauth"
	"github.com/magabrotheeeer/nightclub-events/internal/services/auth"
	"github.com/magabrotheeeer/nightclub-events/internal/services/event"
	"github.com/magabrotheeeer/nightclub-events/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер клуба со всеми ресурсами, которые нужно закрыть при остановке.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	cache   *cache.Cache
	cleanup *cleanup.Worker
	broker  *rabbitmq.Broker
}

// New подключает базу, применяет миграции, выбирает хранилище изображений,
// очередь удаления постеров и лимитер, затем собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.nightclub.New"

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store := imagehost.Select(ctx, cfg, logger)
	memory, _ := store.(*imagehost.Memory)
	images := imagehost.WithMetrics(store, m)

	app := &App{
		logger:  logger,
		db:      db,
		cleanup: cleanup.NewWorker(logger, store, m, cfg.CleanupBuffer),
	}

	var queue cleanup.Queue = app.cleanup
	if cfg.RabbitMQ.URL != "" {
		publisher, err := app.connectBroker(ctx, cfg.RabbitMQ)
		if err != nil {
			logger.Warn("rabbitmq is unavailable, using in-process cleanup queue", sl.Err(err))
		} else {
			queue = publisher
		}
	}

	authLimiter, adminLimiter := app.limiters(ctx, cfg)

	hasher := password.NewHasher(password.ParamsFromConfig(cfg.Password))
	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey)

	router := NewRouter(Deps{
		Log:          logger,
		Config:       cfg,
		Auth:         auth.New(logger, db, hasher, tokens, cfg.UserTokenTTL),
		AdminAuth:    adminauth.New(logger, db, hasher, tokens, cfg.AdminTokenTTL),
		Events:       event.New(logger, db, images, queue, m, event.WithLocation(loc)),
		Tokens:       tokens,
		Images:       images,
		Memory:       memory,
		Metrics:      m,
		AuthLimiter:  authLimiter,
		AdminLimiter: adminLimiter,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// connectBroker публикует задачи удаления в RabbitMQ и запускает их
// потребителя, который удаляет файлы через общий обработчик.
func (a *App) connectBroker(ctx context.Context, cfg config.RabbitMQ) (*rabbitmq.Broker, error) {
	b, err := rabbitmq.Dial(ctx, a.logger, rabbitmq.Options{
		URL:        cfg.URL,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Workers:    cfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	if err := b.Consume(ctx, a.cleanup.Handle); err != nil {
		_ = b.Close()
		return nil, err
	}
	a.broker = b
	a.logger.Info("poster cleanup goes through rabbitmq", slog.String("queue", rabbitmq.PosterDeleteQueue))
	return b, nil
}

// limiters считает попытки входа в redis, если он настроен и отвечает,
// иначе в памяти процесса.
func (a *App) limiters(ctx context.Context, cfg *config.Config) (middlewarectx.Limiter, middlewarectx.Limiter) {
	if cfg.AddressRedis != "" {
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err == nil {
			a.cache = c
			a.logger.Info("rate limits are stored in redis", slog.String("address", cfg.AddressRedis))
			return middlewarectx.NewRedisLimiter(c, cfg.AuthPerMinute), middlewarectx.NewRedisLimiter(c, cfg.AdminPerMinute)
		}
		a.logger.Warn("redis is unavailable, using in-memory rate limits", sl.Err(err))
	}
	return middlewarectx.NewMemoryLimiter(cfg.AuthPerMinute), middlewarectx.NewMemoryLimiter(cfg.AdminPerMinute)
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.broker != nil {
		_ = a.broker.Close()
	}
	a.cleanup.Close()
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
