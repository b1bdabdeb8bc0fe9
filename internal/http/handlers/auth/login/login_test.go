package login

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
	"github.com/magabrotheeeer/nightclub-events/internal/http/cookie"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
		wantCookie bool
	}{
		{
			name: "успешный вход",
			body: `{"email":"guest@club.com","password":"password123"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "guest@club.com", "password123").
					Return(&models.User{ID: 3, Email: "guest@club.com"}, "tok", nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":3,"email":"guest@club.com"}`,
			wantCookie: true,
		},
		{
			name:       "нет пароля",
			body:       `{"email":"guest@club.com"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":["field password is a required field"]}`,
		},
		{
			name: "неверные учетные данные",
			body: `{"email":"guest@club.com","password":"wrongpassword"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "guest@club.com", "wrongpassword").
					Return(nil, "", fmt.Errorf("services.auth.Login: %w", models.ErrInvalidCredentials)).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid credentials"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			h := New(sl.Discard(), svc, cookie.New(config.Cookie{}), 15*time.Minute)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantCookie, len(rec.Result().Cookies()) == 1)
			svc.AssertExpectations(t)
		})
	}
}
