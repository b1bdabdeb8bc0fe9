package models

import "errors"

// Категории ошибок. HTTP-слой переводит их в статусы 400/401/403/404/409,
// всё остальное становится 500.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

// Конкретные ошибки оборачивают категорию, errors.Is работает для обеих.
var (
	// ErrInvalidCredentials одинакова для неизвестного логина и неверного пароля.
	ErrInvalidCredentials = wrap(ErrUnauthorized, "Invalid credentials")
	ErrAdminDisabled      = wrap(ErrForbidden, "Admin account is disabled")
	ErrEmailInUse         = wrap(ErrConflict, "Email already in use")
	ErrUsernameTaken      = wrap(ErrConflict, "Username already exists")
	ErrEmailTaken         = wrap(ErrConflict, "Email already exists")
	ErrEventNotFound      = wrap(ErrNotFound, "Event not found")
	ErrUserNotFound       = wrap(ErrNotFound, "User not found")
	ErrAdminNotFound      = wrap(ErrNotFound, "Admin not found")
	ErrFileNotFound       = wrap(ErrNotFound, "File not found or could not be deleted")
	ErrImageNotFound      = wrap(ErrNotFound, "Image not found")
)

// PublicError ошибка с сообщением, которое можно показать клиенту.
type PublicError struct {
	kind error
	msg  string
}

func wrap(kind error, msg string) *PublicError {
	return &PublicError{kind: kind, msg: msg}
}

// NewValidationError создаёт ошибку валидации с сообщением для клиента.
func NewValidationError(msg string) *PublicError {
	return wrap(ErrValidation, msg)
}

func (e *PublicError) Error() string { return e.msg }

// Unwrap возвращает категорию ошибки.
func (e *PublicError) Unwrap() error { return e.kind }

// Message текст для клиента.
func (e *PublicError) Message() string { return e.msg }
