// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов с ошибками. Тело ошибки всегда {"error": "..."}, для ошибок
// валидации {"error": ["...", ...]}.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sl"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// MsgInternal текст ответа для любой непредусмотренной ошибки.
const MsgInternal = "Internal Server Error"

// ErrorResponse структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid credentials"`
}

// ValidationErrorResponse список нарушений валидации.
type ValidationErrorResponse struct {
	Error []string `json:"error" example:"field email must be a valid email"`
}

// MessageResponse ответ с одним сообщением.
type MessageResponse struct {
	Message string `json:"message" example:"Admin logout successful"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Validation возвращает ответ со списком нарушений.
func Validation(msgs []string) ValidationErrorResponse {
	return ValidationErrorResponse{Error: msgs}
}

// NewValidator создаёт валидатор, который называет поля по json-тегам.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError формирует ответ на основе ошибок валидации.
// Каждое нарушение превращается в человеко-читаемый текст.
func ValidationError(errs validator.ValidationErrors) ValidationErrorResponse {
	msgs := make([]string, 0, len(errs))

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case "min":
			if err.Kind() == reflect.String {
				msgs = append(msgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
			}
		case "max":
			if err.Kind() == reflect.String {
				msgs = append(msgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
			}
		case "gte":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than or equal to %s", err.Field(), err.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "numeric":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Validation(msgs)
}

// FromError переводит ошибку слоя сервисов в HTTP-статус и тело ответа.
// Текст непредусмотренных ошибок клиенту не отдаётся.
func FromError(err error) (int, ErrorResponse) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		return status, Error(MsgInternal)
	}

	var pub *models.PublicError
	if errors.As(err, &pub) {
		return status, Error(pub.Message())
	}
	return status, Error(http.StatusText(status))
}

// StatusOf возвращает HTTP-статус для категории ошибки.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError пишет ответ для ошибки. Ошибки 5xx логируются целиком.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, body := FromError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
