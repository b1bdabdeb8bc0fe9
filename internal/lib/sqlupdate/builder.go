// Package sqlupdate строит параметризованные UPDATE-запросы для частичного
// обновления строки по первичному ключу.
//
// Имена колонок попадают в текст запроса, поэтому Builder принимает только
// колонки из заранее заданного списка. Значения всегда идут через
// плейсхолдеры $1..$N в порядке перечисления, идентификатор строки последним.
package sqlupdate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrColumnNotAllowed колонка не входит в список разрешённых.
	ErrColumnNotAllowed = errors.New("column is not allowed")
	// ErrNoFields нечего обновлять.
	ErrNoFields = errors.New("no fields to update")
	// ErrDuplicateColumn колонка указана дважды.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Assignment новое значение одной колонки. Value == nil означает NULL.
type Assignment struct {
	Column string
	Value  any
}

// Builder строит UPDATE для одной таблицы.
type Builder struct {
	table       string
	idColumn    string
	touchColumn string
	returning   string
	allowed     map[string]struct{}
}

// Option настраивает Builder.
type Option func(*Builder)

// WithTouchColumn добавляет в каждый запрос "<column> = NOW()".
func WithTouchColumn(column string) Option {
	return func(b *Builder) {
		b.touchColumn = column
	}
}

// WithReturning добавляет RETURNING с указанным списком колонок.
func WithReturning(columns ...string) Option {
	return func(b *Builder) {
		b.returning = strings.Join(columns, ", ")
	}
}

// New создаёт Builder для таблицы table с ключом idColumn и списком
// разрешённых колонок.
func New(table, idColumn string, allowed []string, opts ...Option) *Builder {
	b := &Builder{
		table:    table,
		idColumn: idColumn,
		allowed:  make(map[string]struct{}, len(allowed)),
	}
	for _, c := range allowed {
		b.allowed[c] = struct{}{}
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build возвращает текст запроса и аргументы.
func (b *Builder) Build(id any, assignments []Assignment) (string, []any, error) {
	const op = "sqlupdate.Build"

	if len(assignments) == 0 && b.touchColumn == "" {
		return "", nil, fmt.Errorf("%s: %w", op, ErrNoFields)
	}

	set := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+1)
	seen := make(map[string]struct{}, len(assignments))

	for _, a := range assignments {
		if _, ok := b.allowed[a.Column]; !ok {
			return "", nil, fmt.Errorf("%s: %w: %q", op, ErrColumnNotAllowed, a.Column)
		}
		if _, dup := seen[a.Column]; dup {
			return "", nil, fmt.Errorf("%s: %w: %q", op, ErrDuplicateColumn, a.Column)
		}
		seen[a.Column] = struct{}{}

		args = append(args, a.Value)
		set = append(set, fmt.Sprintf("%s = $%d", a.Column, len(args)))
	}
	if b.touchColumn != "" {
		set = append(set, b.touchColumn+" = NOW()")
	}
	args = append(args, id)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(set, ", "))
	fmt.Fprintf(&sb, " WHERE %s = $%d", b.idColumn, len(args))
	if b.returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(b.returning)
	}
	return sb.String(), args, nil
}
