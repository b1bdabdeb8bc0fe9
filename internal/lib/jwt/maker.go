// Package jwt реализует выпуск и проверку JWT токенов сессии.
//
// Токены подписываются HS256 общим секретом и живут ограниченное время.
// На стороне сервера они не хранятся, отзыва нет: токен валиден, пока
// подпись верна и не истёк срок.
package jwt

import (
	"errors"
	"time"
)

// ErrInvalidToken возвращается для битой подписи, истёкшего срока,
// неверного алгоритма или некорректного формата токена.
var ErrInvalidToken = errors.New("invalid token")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken подписывает claims с subject и временем жизни ttl.
	GenerateToken(subject string, claims Claims, ttl time.Duration) (string, error)
	// ParseToken проверяет токен и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на HMAC-SHA256.
type MakerImpl struct {
	secretKey []byte
	now       func() time.Time
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник времени. Нужен в тестах на истечение срока.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// NewJWTMaker создаёт MakerImpl на основе секретного ключа.
func NewJWTMaker(secretKey string, opts ...Option) *MakerImpl {
	m := &MakerImpl{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
