package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
	"github.com/magabrotheeeer/nightclub-events/internal/services/event"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Calendar(ctx context.Context) (*event.Calendar, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(*event.Calendar)
	return c, args.Error(1)
}

func (m *ServiceMock) Upcoming(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]*models.Event)
	return events, args.Error(1)
}

func (m *ServiceMock) Today(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]*models.Event)
	return events, args.Error(1)
}

func TestFeedHandlers(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		result     any
		err        error
		handler    func(m *ServiceMock) http.Handler
		wantStatus int
		wantBody   string
	}{
		{
			name:   "календарь",
			method: "Calendar",
			result: &event.Calendar{Today: []*models.Event{}, Upcoming: []*models.Event{{ID: 2, Title: "Soon"}}},
			handler: func(m *ServiceMock) http.Handler {
				return NewCalendar(sl.Discard(), m)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"calendar":{"today":[],"upcoming":[{"id":2,"title":"Soon"`,
		},
		{
			name:   "ближайшие без событий",
			method: "Upcoming",
			result: []*models.Event(nil),
			handler: func(m *ServiceMock) http.Handler {
				return NewUpcoming(sl.Discard(), m)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"events":[]}`,
		},
		{
			name:   "сегодня",
			method: "Today",
			result: []*models.Event{{ID: 1, Title: "Tonight"}},
			handler: func(m *ServiceMock) http.Handler {
				return NewToday(sl.Discard(), m)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"title":"Tonight"`,
		},
		{
			name:   "ошибка хранилища",
			method: "Today",
			result: nil,
			err:    errors.New("db down"),
			handler: func(m *ServiceMock) http.Handler {
				return NewToday(sl.Discard(), m)
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On(tt.method, mock.Anything).Return(tt.result, tt.err).Once()

			rec := httptest.NewRecorder()
			tt.handler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events/feed", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
