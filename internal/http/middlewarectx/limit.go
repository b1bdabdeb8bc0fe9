package middlewarectx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
)

// Сообщения при превышении лимита.
const (
	MsgTooManyRequests    = "Too many requests, please try again later."
	MsgTooManyAdminLogins = "Too many admin login attempts, please try again later"
)

const (
	limitWindow = time.Minute
	idleTTL     = 3 * limitWindow
)

// Limiter решает, пропустить ли очередной запрос с ключом key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	// Reset забывает попытки ключа.
	Reset(ctx context.Context, key string) error
}

// LimitRecorder считает отклонённые запросы.
type LimitRecorder interface {
	RateLimited(scope string)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter token bucket на каждый ключ в памяти процесса.
type MemoryLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryLimiter создаёт лимитер на perMinute запросов в минуту с ключа.
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(limitWindow / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

// Allow расходует один токен ключа.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleTTL {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// Reset удаляет состояние ключа.
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.visitors, key)
	return nil
}

// Counter счётчик попыток в общем хранилище, см. cache.Cache.
type Counter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Reset(ctx context.Context, key string) error
}

// RedisLimiter лимит в фиксированном минутном окне, общий для всех
// экземпляров сервиса.
type RedisLimiter struct {
	counter   Counter
	perMinute int
}

// NewRedisLimiter создаёт лимитер поверх счётчика в redis.
func NewRedisLimiter(counter Counter, perMinute int) *RedisLimiter {
	return &RedisLimiter{counter: counter, perMinute: perMinute}
}

// Allow увеличивает счётчик ключа.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.counter.Allow(ctx, key, l.perMinute, limitWindow)
}

// Reset удаляет счётчик ключа.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.counter.Reset(ctx, key)
}

// RateLimitMiddleware ограничивает частоту запросов с одного IP в рамках scope.
// Если лимитер недоступен, запрос пропускается.
func RateLimitMiddleware(log *slog.Logger, scope string, limiter Limiter, rec LimitRecorder, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RateLimit"

			ip := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), limitKey(scope, ip))
			if err != nil {
				log.Error("rate limiter unavailable",
					slog.String("op", op), slog.String("scope", scope), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				log.Warn("too many requests",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("scope", scope),
					slog.String("ip", ip),
				)
				if rec != nil {
					rec.RateLimited(scope)
				}
				w.Header().Set("Retry-After", "60")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ResetLimitOnSuccess сбрасывает попытки IP в scope после ответа 2xx.
// Ставится на вход, чтобы успешный логин не тратил лимит следующих.
func ResetLimitOnSuccess(log *slog.Logger, scope string, limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ResetLimitOnSuccess"

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				return
			}
			if err := limiter.Reset(r.Context(), limitKey(scope, clientIP(r))); err != nil {
				log.Warn("failed to reset rate limit",
					slog.String("op", op), slog.String("scope", scope), sl.Err(err))
			}
		})
	}
}

func limitKey(scope, ip string) string {
	return scope + ":" + ip
}

// clientIP адрес сокета клиента. Заголовки X-Forwarded-For и X-Real-IP не
// учитываются: клиент подставляет в них что угодно.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
