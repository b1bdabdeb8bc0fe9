// Package cookie выставляет и сбрасывает cookie с токенами сессии.
package cookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/config"
)

// Имена cookie с токенами.
const (
	UserToken  = "access_token"
	AdminToken = "admin_token"
)

// Jar выставляет cookie с общими настройками.
type Jar struct {
	secure bool
	domain string
}

// New создаёт Jar по настройкам из конфига.
func New(cfg config.Cookie) Jar {
	return Jar{secure: cfg.Secure, domain: cfg.Domain}
}

// Set пишет HttpOnly cookie, живущую ttl.
func (j Jar) Set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет cookie у клиента.
func (j Jar) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   j.domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token достаёт токен из cookie, а при её отсутствии из заголовка
// Authorization: Bearer.
func Token(r *http.Request, name string) string {
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
