// Package adminauth содержит вход и регистрацию администраторов клуба.
//
// Вход принимает username или email. Отключённый администратор получает
// 403 только после верного пароля. last_login обновляется только при
// успешном входе, ошибка записи вход не прерывает.
package adminauth

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

// AdminRepository описывает контракт хранилища администраторов.
type AdminRepository interface {
	CreateAdmin(ctx context.Context, username, email, passwordHash string) (*models.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	UpdateAdminLastLogin(ctx context.Context, id int64) (time.Time, error)
	UpdateAdminPasswordHash(ctx context.Context, id int64, passwordHash string) error
}

// Hasher хеширует и проверяет пароли.
type Hasher interface {
	GetHash(plain string) (string, error)
	CompareHash(encodedHash, plain string) (bool, error)
	NeedsRehash(encodedHash string) bool
}

// Service реализует аутентификацию администраторов.
type Service struct {
	log      *slog.Logger
	admins   AdminRepository
	hasher   Hasher
	tokens   jwt.Maker
	tokenTTL time.Duration
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, admins AdminRepository, hasher Hasher, tokens jwt.Maker, tokenTTL time.Duration) *Service {
	return &Service{
		log:      log,
		admins:   admins,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// Login проверяет учётные данные администратора и выдаёт токен с type=admin.
func (s *Service) Login(ctx context.Context, login, password string) (*models.Admin, string, error) {
	const op = "services.adminauth.Login"
	log := s.log.With(slog.String("op", op))

	admin, err := s.find(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrAdminNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	ok, err := s.hasher.CompareHash(admin.PasswordHash, password)
	if err != nil {
		log.Error("stored password hash is malformed", slog.Int64("admin_id", admin.ID), sl.Err(err))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if !admin.IsActive {
		log.Warn("disabled admin tried to log in", slog.Int64("admin_id", admin.ID))
		return nil, "", fmt.Errorf("%s: %w", op, models.ErrAdminDisabled)
	}

	s.rehash(ctx, log, admin, password)

	lastLogin, err := s.admins.UpdateAdminLastLogin(ctx, admin.ID)
	if err != nil {
		log.Error("failed to update last login", slog.Int64("admin_id", admin.ID), sl.Err(err))
	} else {
		admin.LastLogin = &lastLogin
	}

	token, err := s.tokens.GenerateToken(strconv.FormatInt(admin.ID, 10), jwt.Claims{
		Email:    admin.Email,
		Username: admin.Username,
		Type:     jwt.TypeAdmin,
	}, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin logged in", slog.Int64("admin_id", admin.ID))
	return admin, token, nil
}

// rehash пересчитывает хеш со старыми параметрами Argon2 после верного пароля.
func (s *Service) rehash(ctx context.Context, log *slog.Logger, admin *models.Admin, password string) {
	if !s.hasher.NeedsRehash(admin.PasswordHash) {
		return
	}
	hash, err := s.hasher.GetHash(password)
	if err != nil {
		log.Error("failed to rehash password", slog.Int64("admin_id", admin.ID), sl.Err(err))
		return
	}
	if err := s.admins.UpdateAdminPasswordHash(ctx, admin.ID, hash); err != nil {
		log.Warn("failed to store rehashed password", slog.Int64("admin_id", admin.ID), sl.Err(err))
		return
	}
	admin.PasswordHash = hash
	log.Info("admin password hash upgraded", slog.Int64("admin_id", admin.ID))
}

// Signup создаёт администратора. Сначала проверяется username, потом email.
func (s *Service) Signup(ctx context.Context, username, email, password string) (*models.Admin, error) {
	const op = "services.adminauth.Signup"

	if err := s.ensureFree(ctx, s.admins.GetAdminByUsername, username, models.ErrUsernameTaken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.ensureFree(ctx, s.admins.GetAdminByEmail, email, models.ErrEmailTaken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.GetHash(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	admin, err := s.admins.CreateAdmin(ctx, username, email, hash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin created", slog.String("op", op), slog.Int64("admin_id", admin.ID))
	return admin, nil
}

func (s *Service) find(ctx context.Context, login string) (*models.Admin, error) {
	admin, err := s.admins.GetAdminByUsername(ctx, login)
	if err == nil || !errors.Is(err, models.ErrAdminNotFound) {
		return admin, err
	}
	return s.admins.GetAdminByEmail(ctx, login)
}

func (s *Service) ensureFree(
	ctx context.Context,
	lookup func(context.Context, string) (*models.Admin, error),
	value string,
	taken error,
) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, models.ErrAdminNotFound):
		return nil
	default:
		return err
	}
}
