package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

const adminColumns = `id, username, email, password_hash, is_active, last_login, created_at`

const constraintAdminUsername = "admin_users_username_key"

func scanAdmin(row interface{ Scan(...any) error }) (*models.Admin, error) {
	a := &models.Admin{}
	var lastLogin sql.NullTime
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash,
		&a.IsActive, &lastLogin, &a.CreatedAt); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return a, nil
}

// CreateAdmin сохраняет администратора. Гонка за уникальность username или
// email переводится в models.ErrUsernameTaken или models.ErrEmailTaken.
func (s *Storage) CreateAdmin(ctx context.Context, username, email, passwordHash string) (*models.Admin, error) {
	const op = "storage.CreateAdmin"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO admin_users (username, email, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING ` + adminColumns
	a, err := scanAdmin(s.DB.QueryRowContext(ctx, query, username, email, passwordHash))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == constraintAdminUsername {
				return nil, fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
			}
			return nil, fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// GetAdminByUsername ищет администратора по username.
func (s *Storage) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return s.getAdmin(ctx, "storage.GetAdminByUsername", "username", username)
}

// GetAdminByEmail ищет администратора по email.
func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return s.getAdmin(ctx, "storage.GetAdminByEmail", "email", email)
}

// column всегда константа из вызывающего кода.
func (s *Storage) getAdmin(ctx context.Context, op, column, value string) (*models.Admin, error) {
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE ` + column + ` = $1`
	a, err := scanAdmin(s.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAdminNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// UpdateAdminLastLogin записывает время входа и возвращает его.
func (s *Storage) UpdateAdminLastLogin(ctx context.Context, id int64) (time.Time, error) {
	const op = "storage.UpdateAdminLastLogin"
	if err := ctxErr(ctx, op); err != nil {
		return time.Time{}, err
	}

	var lastLogin time.Time
	err := s.DB.QueryRowContext(ctx,
		`UPDATE admin_users SET last_login = NOW() WHERE id = $1 RETURNING last_login`, id).
		Scan(&lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("%s: %w", op, models.ErrAdminNotFound)
		}
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return lastLogin, nil
}

// UpdateAdminPasswordHash заменяет хеш пароля администратора.
func (s *Storage) UpdateAdminPasswordHash(ctx context.Context, id int64, passwordHash string) error {
	return s.updatePasswordHash(ctx, "storage.UpdateAdminPasswordHash", "admin_users", id, passwordHash, models.ErrAdminNotFound)
}
