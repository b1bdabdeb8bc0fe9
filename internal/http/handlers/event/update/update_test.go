package update

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Update(ctx context.Context, id int64, patch models.EventPatch, poster *imagehost.File) (*models.Event, error) {
	args := m.Called(ctx, id, patch, poster)
	ev, _ := args.Get(0).(*models.Event)
	return ev, args.Error(1)
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "меняется только название",
			id:   "5",
			body: `{"title":"New"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Update", mock.Anything, int64(5), models.EventPatch{Title: models.Some("New")}, (*imagehost.File)(nil)).
					Return(&models.Event{ID: 5, Title: "New"}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"message":"Event updated successfully"`,
		},
		{
			name: "пустая ссылка на постер очищает его",
			id:   "5",
			body: `{"poster_image_url":"","description":null}`,
			setupMock: func(m *ServiceMock) {
				m.On("Update", mock.Anything, int64(5), models.EventPatch{
					Description:    models.Null[string](),
					PosterImageURL: models.Null[string](),
				}, (*imagehost.File)(nil)).Return(&models.Event{ID: 5}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"success":true`,
		},
		{
			name:       "id не число",
			id:         "abc",
			body:       `{"title":"New"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Event ID must be a number"}`,
		},
		{
			name:       "null для обязательного поля",
			id:         "5",
			body:       `{"title":null,"max_capacity":null}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":["field title cannot be null","field max_capacity cannot be null"]}`,
		},
		{
			name:       "неизвестный статус",
			id:         "5",
			body:       `{"status":"closed"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":["field status must be one of [active cancelled sold_out]"]}`,
		},
		{
			name:       "колонка не из списка",
			id:         "5",
			body:       `{"created_by":2}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"field created_by is not allowed"}`,
		},
		{
			name: "событие не найдено",
			id:   "404",
			body: `{"title":"New"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Update", mock.Anything, int64(404), mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("op: %w", models.ErrEventNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Event not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/v1/events/"+tt.id, bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc, form.Limits{MaxFileSize: imagehost.DefaultMaxFileSize, MaxFiles: 10}).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody[0] == '{' {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			svc.AssertExpectations(t)
		})
	}
}
