package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
	"github.com/magabrotheeeer/nightclub-events/internal/http/cookie"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Signup(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
		wantCookie bool
	}{
		{
			name: "успешная регистрация",
			body: `{"email":"guest@club.com","password":"password123"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Signup", mock.Anything, "guest@club.com", "password123").
					Return(&models.User{ID: 9, Email: "guest@club.com"}, "tok", nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":9,"email":"guest@club.com"}`,
			wantCookie: true,
		},
		{
			name:       "некорректный JSON",
			body:       `not a json`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid request body"}`,
		},
		{
			name:       "короткий пароль и плохой email",
			body:       `{"email":"guest","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":["field email must be a valid email","field password must be at least 8 characters"]}`,
		},
		{
			name: "email уже занят",
			body: `{"email":"guest@club.com","password":"password123"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Signup", mock.Anything, "guest@club.com", "password123").
					Return(nil, "", fmt.Errorf("services.auth.Signup: %w", models.ErrEmailInUse)).Once()
			},
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"Email already in use"}`,
		},
		{
			name: "внутренняя ошибка",
			body: `{"email":"guest@club.com","password":"password123"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Signup", mock.Anything, "guest@club.com", "password123").
					Return(nil, "", errors.New("dial tcp 10.0.0.1:5432")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			h := New(sl.Discard(), svc, cookie.New(config.Cookie{}), 15*time.Minute)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())

			cookies := rec.Result().Cookies()
			if tt.wantCookie {
				require.Len(t, cookies, 1)
				assert.Equal(t, cookie.UserToken, cookies[0].Name)
				assert.Equal(t, "tok", cookies[0].Value)
				assert.Equal(t, 15*60, cookies[0].MaxAge)
			} else {
				assert.Empty(t, cookies)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestSignupHandler_ResponseHasNoPasswordHash(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Signup", mock.Anything, "guest@club.com", "password123").
		Return(&models.User{ID: 1, Email: "guest@club.com", PasswordHash: "$argon2id$secret"}, "tok", nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"guest@club.com","password":"password123"}`))
	rec := httptest.NewRecorder()
	New(sl.Discard(), svc, cookie.New(config.Cookie{}), time.Minute).ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, rec.Body.String(), "argon2id")
	assert.Len(t, body, 2)
}
