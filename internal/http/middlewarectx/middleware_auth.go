// Package middlewarectx содержит HTTP middleware для проверки токенов сессии
// и ограничения частоты запросов.
//
// RequireUser и RequireAdmin достают токен из cookie (или заголовка
// Authorization: Bearer), проверяют подпись и срок и кладут данные сессии
// в контекст запроса. Отсутствующий или невалидный токен даёт 401, валидный
// токен без type=admin на админском маршруте даёт 403.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nightclub-events/internal/http/cookie"
	"github.com/magabrotheeeer/nightclub-events/internal/http/response"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/jwt"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User ключ для models.SessionUser в контексте
	User Key = "user"
	// Admin ключ для models.SessionAdmin в контексте
	Admin Key = "admin"
)

// Сообщения ответов guard-ов.
const (
	MsgNoUserToken       = "Unauthorized - No token"
	MsgInvalidUserToken  = "Unauthorized - Invalid token"
	MsgNoAdminToken      = "Admin authentication required"
	MsgInvalidAdminToken = "Invalid admin token"
	MsgAdminRequired     = "Admin access required"
)

// TokenParser проверяет токен и возвращает его claims.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// RequireUser пропускает запрос с валидным пользовательским токеном.
func RequireUser(tokens TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireUser"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := cookie.Token(r, cookie.UserToken)
			if token == "" {
				log.Info("missing user token")
				unauthorized(w, r, MsgNoUserToken)
				return
			}

			claims, err := tokens.ParseToken(token)
			if err != nil {
				logParseError(log, "user", err)
				unauthorized(w, r, MsgInvalidUserToken)
				return
			}
			id, err := claims.SubjectID()
			if err != nil {
				log.Info("invalid user token subject", sl.Err(err))
				unauthorized(w, r, MsgInvalidUserToken)
				return
			}

			ctx := WithUser(r.Context(), models.SessionUser{ID: id, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает запрос только с админским токеном.
func RequireAdmin(tokens TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdmin"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := cookie.Token(r, cookie.AdminToken)
			if token == "" {
				log.Info("missing admin token")
				unauthorized(w, r, MsgNoAdminToken)
				return
			}

			claims, err := tokens.ParseToken(token)
			if err != nil {
				logParseError(log, "admin", err)
				unauthorized(w, r, MsgInvalidAdminToken)
				return
			}
			if !claims.IsAdmin() {
				log.Warn("non-admin token on admin route", slog.String("sub", claims.Subject))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(MsgAdminRequired))
				return
			}
			id, err := claims.SubjectID()
			if err != nil {
				log.Info("invalid admin token subject", sl.Err(err))
				unauthorized(w, r, MsgInvalidAdminToken)
				return
			}

			ctx := WithAdmin(r.Context(), models.SessionAdmin{
				ID:       id,
				Username: claims.Username,
				Email:    claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser кладёт пользователя в контекст.
func WithUser(ctx context.Context, u models.SessionUser) context.Context {
	return context.WithValue(ctx, User, u)
}

// WithAdmin кладёт администратора в контекст.
func WithAdmin(ctx context.Context, a models.SessionAdmin) context.Context {
	return context.WithValue(ctx, Admin, a)
}

// UserFromContext возвращает пользователя, положенного RequireUser.
func UserFromContext(ctx context.Context) (models.SessionUser, bool) {
	u, ok := ctx.Value(User).(models.SessionUser)
	return u, ok
}

// AdminFromContext возвращает администратора, положенного RequireAdmin.
func AdminFromContext(ctx context.Context) (models.SessionAdmin, bool) {
	a, ok := ctx.Value(Admin).(models.SessionAdmin)
	return a, ok
}

// logParseError отделяет истёкшие сессии от подделанных токенов.
func logParseError(log *slog.Logger, kind string, err error) {
	if jwt.IsExpired(err) {
		log.Info(kind+" token expired", sl.Err(err))
		return
	}
	log.Warn("invalid "+kind+" token", sl.Err(err))
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(msg))
}
