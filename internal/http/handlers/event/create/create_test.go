package create

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nightclub-events/internal/http/form"
	"github.com/magabrotheeeer/nightclub-events/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, in models.NewEvent, adminID int64, poster *imagehost.File) (*models.Event, error) {
	args := m.Called(ctx, in, adminID, poster)
	ev, _ := args.Get(0).(*models.Event)
	return ev, args.Error(1)
}

var limits = form.Limits{MaxFileSize: imagehost.DefaultMaxFileSize, MaxFiles: 10}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func withAdmin(req *http.Request) *http.Request {
	return req.WithContext(middlewarectx.WithAdmin(req.Context(), models.SessionAdmin{ID: 7, Username: "dj_boss"}))
}

func TestCreateHandler_JSON(t *testing.T) {
	date := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "событие с умолчаниями",
			body: `{"title":"Techno Night","event_date":"2026-03-14T22:00:00Z","description":""}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, models.NewEvent{
					Title:       "Techno Night",
					EventType:   models.DefaultEventType,
					EventDate:   date,
					MaxCapacity: models.DefaultMaxCapacity,
				}, int64(7), (*imagehost.File)(nil)).Return(&models.Event{ID: 1, Title: "Techno Night"}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"message":"Event created successfully"`,
		},
		{
			name:       "нет названия и даты",
			body:       `{"ticket_price":10}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":["field title is a required field","field event_date is a required field"]}`,
		},
		{
			name:       "отрицательная цена",
			body:       `{"title":"T","event_date":"2026-03-14T22:00:00Z","ticket_price":-1}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":["field ticket_price must be greater than or equal to 0"]}`,
		},
		{
			name:       "некорректная ссылка на постер",
			body:       `{"title":"T","event_date":"2026-03-14T22:00:00Z","poster_image_url":"not a url"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":["field poster_image_url must be a valid url"]}`,
		},
		{
			name:       "неизвестное поле",
			body:       `{"title":"T","event_date":"2026-03-14T22:00:00Z","created_by":1}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"field created_by is not allowed"}`,
		},
		{
			name:       "пустое тело",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Request body is empty"}`,
		},
		{
			name: "ошибка сервиса",
			body: `{"title":"T","event_date":"2026-03-14T22:00:00Z"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, mock.Anything, int64(7), mock.Anything).
					Return(nil, errors.New("db down")).Once()
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

			req := withAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBufferString(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			New(sl.Discard(), svc, limits).ServeHTTP(rec, req)

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

func TestCreateHandler_MultipartWithPoster(t *testing.T) {
	img := pngBytes(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Techno Night"))
	require.NoError(t, mw.WriteField("event_date", "2026-03-14T22:00:00Z"))
	require.NoError(t, mw.WriteField("ticket_price", "15.5"))
	require.NoError(t, mw.WriteField("max_capacity", ""))
	fw, err := mw.CreateFormFile(PosterField, "poster.png")
	require.NoError(t, err)
	_, err = fw.Write(img)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	svc := new(ServiceMock)
	svc.On("Create", mock.Anything,
		mock.MatchedBy(func(in models.NewEvent) bool {
			return in.Title == "Techno Night" && in.TicketPrice == 15.5 && in.MaxCapacity == models.DefaultMaxCapacity
		}),
		int64(7),
		mock.MatchedBy(func(f *imagehost.File) bool {
			return f != nil && f.Name == "poster.png" && bytes.Equal(f.Data, img)
		}),
	).Return(&models.Event{ID: 3}, nil).Once()

	req := withAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/events", &body))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	New(sl.Discard(), svc, limits).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateHandler_MultipartErrors(t *testing.T) {
	tests := []struct {
		name     string
		build    func(mw *multipart.Writer)
		wantBody string
	}{
		{
			name: "цена не число",
			build: func(mw *multipart.Writer) {
				_ = mw.WriteField("title", "T")
				_ = mw.WriteField("ticket_price", "free")
			},
			wantBody: `{"error":"field ticket_price must be a number"}`,
		},
		{
			name: "файл в чужом поле",
			build: func(mw *multipart.Writer) {
				fw, _ := mw.CreateFormFile("image", "x.png")
				_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
			},
			wantBody: `{"error":"Unexpected field name in upload."}`,
		},
		{
			name: "не изображение",
			build: func(mw *multipart.Writer) {
				fw, _ := mw.CreateFormFile(PosterField, "x.txt")
				_, _ = fw.Write([]byte("plain text"))
			},
			wantBody: `{"error":"Invalid file type. Only JPEG, PNG, and WebP images are allowed."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			tt.build(mw)
			require.NoError(t, mw.Close())

			svc := new(ServiceMock)
			req := withAdmin(httptest.NewRequest(http.MethodPost, "/api/v1/events", &body))
			req.Header.Set("Content-Type", mw.FormDataContentType())
			rec := httptest.NewRecorder()
			New(sl.Discard(), svc, limits).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateHandler_NoAdmin(t *testing.T) {
	svc := new(ServiceMock)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	New(sl.Discard(), svc, limits).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Admin authentication required"}`, rec.Body.String())
}
