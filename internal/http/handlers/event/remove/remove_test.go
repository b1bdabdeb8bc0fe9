package remove

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		serviceErr error
		callMock   bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "событие удалено",
			id:         "3",
			callMock:   true,
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"message":"Event deleted successfully"}`,
		},
		{
			name:       "событие не найдено",
			id:         "3",
			callMock:   true,
			serviceErr: fmt.Errorf("op: %w", models.ErrEventNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Event not found"}`,
		},
		{
			name:       "пустой id",
			id:         "",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Event ID must be a number"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callMock {
				svc.On("Delete", mock.Anything, int64(3)).Return(tt.serviceErr).Once()
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/events/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
