package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/nightclub-events/internal/migrations"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// TestDataFactory создаёт тестовые данные напрямую через SQL.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создаёт фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateAdmin создаёт администратора и возвращает его ID.
func (f *TestDataFactory) CreateAdmin(t *testing.T, username, email string, active bool) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO admin_users (username, email, password_hash, is_active)
		VALUES ($1, $2, 'hash', $3) RETURNING id`, username, email, active).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateEvent создаёт событие и возвращает его ID.
func (f *TestDataFactory) CreateEvent(t *testing.T, title string, date time.Time, status models.EventStatus, createdBy *int64) int64 {
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO events (title, event_date, status, description, created_by)
		VALUES ($1, $2, $3, 'original description', $4) RETURNING id`,
		title, date, string(status), createdBy).Scan(&id)
	require.NoError(t, err)
	return id
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err, "failed to create storage")

	migrationsPath, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}
