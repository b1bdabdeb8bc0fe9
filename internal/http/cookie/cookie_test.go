package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
)

func TestJar_Set(t *testing.T) {
	rec := httptest.NewRecorder()
	New(config.Cookie{Secure: true}).Set(rec, AdminToken, "tok", 8*time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, AdminToken, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 8*60*60, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestJar_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	New(config.Cookie{}).Clear(rec, UserToken)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, UserToken, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.False(t, cookies[0].Secure)
}

func TestToken(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{
			name:    "cookie",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: UserToken, Value: "from-cookie"}) },
			want:    "from-cookie",
		},
		{
			name:    "bearer header",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer from-header") },
			want:    "from-header",
		},
		{
			name: "cookie wins over header",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: UserToken, Value: "from-cookie"})
				r.Header.Set("Authorization", "Bearer from-header")
			},
			want: "from-cookie",
		},
		{
			name:    "other cookie ignored",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AdminToken, Value: "admin"}) },
			want:    "",
		},
		{
			name:    "basic auth ignored",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			assert.Equal(t, tt.want, Token(req, UserToken))
		})
	}
}
