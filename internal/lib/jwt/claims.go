package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TypeAdmin значение дискриминатора type у админских токенов.
const TypeAdmin = "admin"

// Claims данные, которые вызывающий кладёт в токен.
type Claims struct {
	Email    string
	Username string
	Type     string
}

// CustomClaims описывает данные, хранящиеся в JWT.
type CustomClaims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Type     string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin сообщает, что токен выпущен для администратора.
func (c *CustomClaims) IsAdmin() bool {
	return c.Type == TypeAdmin
}

// SubjectID возвращает sub как числовой идентификатор.
func (c *CustomClaims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject is not an id", ErrInvalidToken)
	}
	return id, nil
}

// GenerateToken создает JWT токен с заданными claims, подписывая его секретным ключом.
func (j *MakerImpl) GenerateToken(subject string, claims Claims, ttl time.Duration) (string, error) {
	const op = "jwt.GenerateToken"

	now := j.now()
	custom := CustomClaims{
		Email:    claims.Email,
		Username: claims.Username,
		Type:     claims.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, custom).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ParseToken парсит JWT токен, проверяет подпись, алгоритм и срок,
// возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}

// IsExpired сообщает, что ошибка парсинга вызвана истёкшим сроком.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
