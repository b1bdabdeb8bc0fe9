package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sqlupdate"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

var eventColumnList = []string{
	"id", "title", "event_type", "description", "event_date", "dj_artist",
	"ticket_price", "max_capacity", "poster_image_url", "created_by",
	"status", "created_at", "updated_at",
}

var (
	eventColumns       = strings.Join(eventColumnList, ", ")
	eventColumnsJoined = "e." + strings.Join(eventColumnList, ", e.")
)

var eventUpdates = sqlupdate.New("events", "id", models.UpdatableEventColumns,
	sqlupdate.WithTouchColumn("updated_at"),
	sqlupdate.WithReturning(eventColumnList...),
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, withUsername bool) (*models.Event, error) {
	e := &models.Event{}
	var (
		description, djArtist, poster, username sql.NullString
		createdBy                               sql.NullInt64
		status                                  string
	)
	dest := []any{
		&e.ID, &e.Title, &e.EventType, &description, &e.EventDate, &djArtist,
		&e.TicketPrice, &e.MaxCapacity, &poster, &createdBy,
		&status, &e.CreatedAt, &e.UpdatedAt,
	}
	if withUsername {
		dest = append(dest, &username)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	e.Status = models.EventStatus(status)
	e.Description = nullString(description)
	e.DJArtist = nullString(djArtist)
	e.PosterImageURL = nullString(poster)
	e.CreatedByUsername = nullString(username)
	if createdBy.Valid {
		e.CreatedBy = &createdBy.Int64
	}
	return e, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func (s *Storage) queryEvents(ctx context.Context, op string, withUsername bool, query string, args ...any) ([]*models.Event, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows, withUsername)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// CreateEvent сохраняет событие и возвращает его со сгенерированными полями.
func (s *Storage) CreateEvent(ctx context.Context, in models.NewEvent) (*models.Event, error) {
	const op = "storage.CreateEvent"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO events (title, event_type, description, event_date, dj_artist,
			      ticket_price, max_capacity, poster_image_url, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + eventColumns
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query,
		in.Title, in.EventType, in.Description, in.EventDate, in.DJArtist,
		in.TicketPrice, in.MaxCapacity, in.PosterImageURL, in.CreatedBy), false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListEvents возвращает все события с именем автора, новые даты первыми.
func (s *Storage) ListEvents(ctx context.Context) ([]*models.Event, error) {
	const op = "storage.ListEvents"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumnsJoined + `, a.username
			  FROM events e
			  LEFT JOIN admin_users a ON e.created_by = a.id
			  ORDER BY e.event_date DESC`
	return s.queryEvents(ctx, op, true, query)
}

// GetEvent возвращает событие по ID или models.ErrEventNotFound.
func (s *Storage) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	const op = "storage.GetEvent"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumnsJoined + `, a.username
			  FROM events e
			  LEFT JOIN admin_users a ON e.created_by = a.id
			  WHERE e.id = $1`
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListUpcomingEvents возвращает активные события, которые ещё не начались.
func (s *Storage) ListUpcomingEvents(ctx context.Context) ([]*models.Event, error) {
	const op = "storage.ListUpcomingEvents"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE event_date >= NOW() AND status = 'active'
			  ORDER BY event_date ASC`
	return s.queryEvents(ctx, op, false, query)
}

// ListEventsBetween возвращает активные события в интервале [from, to].
func (s *Storage) ListEventsBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	const op = "storage.ListEventsBetween"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + eventColumns + `
			  FROM events
			  WHERE event_date BETWEEN $1 AND $2 AND status = 'active'
			  ORDER BY event_date ASC`
	return s.queryEvents(ctx, op, false, query, from, to)
}

// UpdateEvent применяет частичное обновление. Меняются только заданные в
// патче колонки и updated_at.
func (s *Storage) UpdateEvent(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	const op = "storage.UpdateEvent"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := eventUpdates.Build(id, patch.Assignments())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, args...), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// DeleteEvent удаляет событие и возвращает удалённую строку.
func (s *Storage) DeleteEvent(ctx context.Context, id int64) (*models.Event, error) {
	const op = "storage.DeleteEvent"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `DELETE FROM events WHERE id = $1 RETURNING ` + eventColumns
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}
