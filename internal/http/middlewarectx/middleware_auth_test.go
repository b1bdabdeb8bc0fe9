package middlewarectx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nightclub-events/internal/http/cookie"
	"github.com/magabrotheeeer/nightclub-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/jwt"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

const secret = "middleware-secret"

func token(t *testing.T, maker *jwt.MakerImpl, subject string, claims jwt.Claims, ttl time.Duration) string {
	t.Helper()
	tok, err := maker.GenerateToken(subject, claims, ttl)
	require.NoError(t, err)
	return tok
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRequireAdmin(t *testing.T) {
	maker := jwt.NewJWTMaker(secret)
	past := jwt.NewJWTMaker(secret, jwt.WithClock(func() time.Time { return time.Now().Add(-10 * time.Hour) }))
	other := jwt.NewJWTMaker("another-secret")

	adminClaims := jwt.Claims{Username: "dj_boss", Email: "boss@club.com", Type: jwt.TypeAdmin}

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantError  string
		wantCalled bool
	}{
		{
			name:       "токен администратора",
			cookie:     token(t, maker, "5", adminClaims, 8*time.Hour),
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "нет токена",
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.MsgNoAdminToken,
		},
		{
			name:       "пользовательский токен",
			cookie:     token(t, maker, "7", jwt.Claims{Email: "guest@club.com"}, time.Hour),
			wantStatus: http.StatusForbidden,
			wantError:  middlewarectx.MsgAdminRequired,
		},
		{
			name:       "истёкший токен",
			cookie:     token(t, past, "5", adminClaims, 8*time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.MsgInvalidAdminToken,
		},
		{
			name:       "чужая подпись",
			cookie:     token(t, other, "5", adminClaims, 8*time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.MsgInvalidAdminToken,
		},
		{
			name:       "мусор вместо токена",
			cookie:     "not.a.jwt",
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.MsgInvalidAdminToken,
		},
		{
			name:       "нечисловой subject",
			cookie:     token(t, maker, "boss", adminClaims, time.Hour),
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.MsgInvalidAdminToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				admin, ok := middlewarectx.AdminFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, models.SessionAdmin{ID: 5, Username: "dj_boss", Email: "boss@club.com"}, admin)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/profile", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookie.AdminToken, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			middlewarectx.RequireAdmin(maker, sl.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorBody(t, rec))
			}
		})
	}
}

func TestRequireAdmin_UserCookieIsNotEnough(t *testing.T) {
	maker := jwt.NewJWTMaker(secret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  cookie.UserToken,
		Value: token(t, maker, "5", jwt.Claims{Type: jwt.TypeAdmin}, time.Hour),
	})
	rec := httptest.NewRecorder()

	middlewarectx.RequireAdmin(maker, sl.Discard())(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, middlewarectx.MsgNoAdminToken, errorBody(t, rec))
}

func TestRequireUser(t *testing.T) {
	maker := jwt.NewJWTMaker(secret)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
		wantError  string
	}{
		{
			name: "cookie пользователя",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookie.UserToken, Value: token(t, maker, "7", jwt.Claims{Email: "guest@club.com"}, time.Minute)})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "заголовок Authorization",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token(t, maker, "7", jwt.Claims{Email: "guest@club.com"}, time.Minute))
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "нет токена",
			prepare:    func(_ *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.MsgNoUserToken,
		},
		{
			name: "подделанный токен",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: cookie.UserToken, Value: token(t, maker, "7", jwt.Claims{}, time.Minute) + "x"})
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  middlewarectx.MsgInvalidUserToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				user, ok := middlewarectx.UserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, models.SessionUser{ID: 7, Email: "guest@club.com"}, user)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			middlewarectx.RequireUser(maker, sl.Discard())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorBody(t, rec))
			}
		})
	}
}

func TestRequireAuth_LogsExpiredSeparately(t *testing.T) {
	maker := jwt.NewJWTMaker(secret)
	past := jwt.NewJWTMaker(secret, jwt.WithClock(func() time.Time { return time.Now().Add(-10 * time.Hour) }))
	adminClaims := jwt.Claims{Username: "dj_boss", Type: jwt.TypeAdmin}

	tests := []struct {
		name      string
		guard     func(log *slog.Logger) func(http.Handler) http.Handler
		cookie    *http.Cookie
		wantLog   string
		wantLevel string
	}{
		{
			name:      "истёкший пользовательский токен",
			guard:     func(log *slog.Logger) func(http.Handler) http.Handler { return middlewarectx.RequireUser(maker, log) },
			cookie:    &http.Cookie{Name: cookie.UserToken, Value: token(t, past, "7", jwt.Claims{}, time.Hour)},
			wantLog:   "user token expired",
			wantLevel: "level=INFO",
		},
		{
			name:      "подделанный пользовательский токен",
			guard:     func(log *slog.Logger) func(http.Handler) http.Handler { return middlewarectx.RequireUser(maker, log) },
			cookie:    &http.Cookie{Name: cookie.UserToken, Value: token(t, maker, "7", jwt.Claims{}, time.Hour) + "x"},
			wantLog:   "invalid user token",
			wantLevel: "level=WARN",
		},
		{
			name:      "истёкший админский токен",
			guard:     func(log *slog.Logger) func(http.Handler) http.Handler { return middlewarectx.RequireAdmin(maker, log) },
			cookie:    &http.Cookie{Name: cookie.AdminToken, Value: token(t, past, "5", adminClaims, 8*time.Hour)},
			wantLog:   "admin token expired",
			wantLevel: "level=INFO",
		},
		{
			name:      "мусор вместо админского токена",
			guard:     func(log *slog.Logger) func(http.Handler) http.Handler { return middlewarectx.RequireAdmin(maker, log) },
			cookie:    &http.Cookie{Name: cookie.AdminToken, Value: "not.a.jwt"},
			wantLog:   "invalid admin token",
			wantLevel: "level=WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(tt.cookie)
			rec := httptest.NewRecorder()

			tt.guard(log)(http.NotFoundHandler()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, buf.String(), `msg="`+tt.wantLog+`"`)
			assert.Contains(t, buf.String(), tt.wantLevel)
		})
	}
}
