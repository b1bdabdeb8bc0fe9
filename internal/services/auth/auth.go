// Package auth содержит регистрацию и вход посетителей сайта.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/jwt"
	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя, занятый email даёт models.ErrEmailInUse.
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	// GetUserByEmail возвращает пользователя или models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUserPasswordHash заменяет хеш пароля пользователя.
	UpdateUserPasswordHash(ctx context.Context, id int64, passwordHash string) error
}

// Hasher хеширует и проверяет пароли.
type Hasher interface {
	GetHash(plain string) (string, error)
	CompareHash(encodedHash, plain string) (bool, error)
	NeedsRehash(encodedHash string) bool
}

// Service отвечает за регистрацию и вход пользователей.
type Service struct {
	log      *slog.Logger
	users    UserRepository
	hasher   Hasher
	tokens   jwt.Maker
	tokenTTL time.Duration
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, users UserRepository, hasher Hasher, tokens jwt.Maker, tokenTTL time.Duration) *Service {
	return &Service{
		log:      log,
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// Signup регистрирует пользователя и сразу выдаёт токен сессии.
func (s *Service) Signup(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "services.auth.Signup"

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrEmailInUse)
	case !errors.Is(err, models.ErrUserNotFound):
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.GetHash(password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Login проверяет email и пароль. Неизвестный email и неверный пароль
// возвращают одну и ту же ошибку models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.hasher.CompareHash(user.PasswordHash, password)
	if err != nil {
		s.log.Error("stored password hash is malformed",
			slog.String("op", op), slog.Int64("user_id", user.ID), sl.Err(err))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	s.rehash(ctx, user, password)

	token, err := s.issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// rehash пересчитывает хеш, созданный со старыми параметрами Argon2.
// Ошибка только логируется: вход уже подтверждён.
func (s *Service) rehash(ctx context.Context, user *models.User, password string) {
	const op = "services.auth.rehash"
	if !s.hasher.NeedsRehash(user.PasswordHash) {
		return
	}
	log := s.log.With(slog.String("op", op), slog.Int64("user_id", user.ID))

	hash, err := s.hasher.GetHash(password)
	if err != nil {
		log.Error("failed to rehash password", sl.Err(err))
		return
	}
	if err := s.users.UpdateUserPasswordHash(ctx, user.ID, hash); err != nil {
		log.Warn("failed to store rehashed password", sl.Err(err))
		return
	}
	user.PasswordHash = hash
	log.Info("password hash upgraded")
}

func (s *Service) issue(user *models.User) (string, error) {
	return s.tokens.GenerateToken(strconv.FormatInt(user.ID, 10), jwt.Claims{Email: user.Email}, s.tokenTTL)
}
