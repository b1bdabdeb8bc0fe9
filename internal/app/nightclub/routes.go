// Package nightclub собирает HTTP-сервер клуба: маршруты, зависимости и
// фоновые обработчики.
package nightclub

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
	"github.com/magabrotheeeer/nightclub-events/internal/http/cookie"
	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	adminlogin "github.com/magabrotheeeer/nightclub-events/internal/http/handlers/admin/login"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/admin/profile"
	adminsignup "github.com/magabrotheeeer/nightclub-events/internal/http/handlers/admin/signup"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/create"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/feed"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/list"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/month"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/read"
	eventremove "github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/remove"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/event/update"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/health"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/upload/file"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/upload/info"
	uploadremove "github.com/magabrotheeeer/nightclub-events/internal/http/handlers/upload/remove"
	"github.com/magabrotheeeer/nightclub-events/internal/http/handlers/upload/serve"
	"github.com/magabrotheeeer/nightclub-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/metrics"
	"github.com/magabrotheeeer/nightclub-events/internal/services/adminauth"
	"github.com/magabrotheeeer/nightclub-events/internal/services/auth"
	"github.com/magabrotheeeer/nightclub-events/internal/services/event"

	// Регистрация описания API для /docs.
	_ "github.com/magabrotheeeer/nightclub-events/docs"
)

// Области лимитов запросов.
const (
	ScopeAuth  = "auth"
	ScopeAdmin = "admin"
)

// Deps зависимости маршрутов.
type Deps struct {
	Log       *slog.Logger
	Config    *config.Config
	Auth      *auth.Service
	AdminAuth *adminauth.Service
	Events    *event.Service
	Tokens    middlewarectx.TokenParser
	Images    imagehost.Store
	// Memory задан, когда изображения хранятся в памяти процесса.
	Memory       *imagehost.Memory
	Metrics      *metrics.Metrics
	AuthLimiter  middlewarectx.Limiter
	AdminLimiter middlewarectx.Limiter
}

// NewRouter регистрирует все маршруты приложения.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	log := d.Log
	jar := cookie.New(cfg.Cookie)
	limits := form.Limits{MaxFileSize: cfg.MaxFileSize, MaxFiles: cfg.MaxFiles}

	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		d.Metrics.Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   strings.Split(cfg.CORSOrigin, ","),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           int((12 * time.Hour).Seconds()),
		}),
	)

	requireUser := middlewarectx.RequireUser(d.Tokens, log)
	requireAdmin := middlewarectx.RequireAdmin(d.Tokens, log)
	authLimit := middlewarectx.RateLimitMiddleware(log, ScopeAuth, d.AuthLimiter, d.Metrics, middlewarectx.MsgTooManyRequests)
	adminLimit := middlewarectx.RateLimitMiddleware(log, ScopeAdmin, d.AdminLimiter, d.Metrics, middlewarectx.MsgTooManyAdminLogins)
	adminReset := middlewarectx.ResetLimitOnSuccess(log, ScopeAdmin, d.AdminLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", health.New().ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			r.With(authLimit).Post("/signup", signup.New(log, d.Auth, jar, cfg.UserTokenTTL).ServeHTTP)
			r.With(authLimit).Post("/login", login.New(log, d.Auth, jar, cfg.UserTokenTTL).ServeHTTP)
			r.Post("/logout", logout.NewUser(log, jar).ServeHTTP)
			r.With(requireUser).Get("/me", me.New(log).ServeHTTP)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(adminLimit, adminReset).Post("/login", adminlogin.New(log, d.AdminAuth, jar, cfg.AdminTokenTTL).ServeHTTP)
			r.With(adminLimit).Post("/signup", adminsignup.New(log, d.AdminAuth).ServeHTTP)
			r.Post("/logout", logout.NewAdmin(log, jar).ServeHTTP)
			r.With(requireAdmin).Get("/profile", profile.New(log).ServeHTTP)
		})

		r.Route("/events", func(r chi.Router) {
			// Публичная афиша
			r.Get("/calendar", feed.NewCalendar(log, d.Events).ServeHTTP)
			r.Get("/upcoming", feed.NewUpcoming(log, d.Events).ServeHTTP)
			r.Get("/today", feed.NewToday(log, d.Events).ServeHTTP)
			r.Get("/month/{year}/{month}", month.New(log, d.Events).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/", create.New(log, d.Events, limits).ServeHTTP)
				r.Get("/admin/all", list.New(log, d.Events).ServeHTTP)
				r.Get("/admin/{id}", read.New(log, d.Events).ServeHTTP)
				r.Put("/{id}", update.New(log, d.Events, limits).ServeHTTP)
				r.Delete("/{id}", eventremove.New(log, d.Events).ServeHTTP)
			})
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/info", info.New(log, d.Images).ServeHTTP)
			r.Post("/event-poster", file.NewPoster(log, d.Images, limits).ServeHTTP)
			r.Post("/gallery-image", file.NewGalleryImage(log, d.Images, limits).ServeHTTP)
			r.Post("/gallery-images", file.NewGalleryImages(log, d.Images, limits).ServeHTTP)
			r.Delete("/file", uploadremove.New(log, d.Images).ServeHTTP)
		})
	})

	if d.Memory != nil {
		r.Get("/uploads/{id}", serve.New(log, d.Memory).ServeHTTP)
	}

	r.Handle("/metrics", d.Metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
