// Package form разбирает тела запросов с событиями и изображениями:
// JSON или multipart/form-data с файлами.
package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/nightclub-events/internal/imagehost"
	"github.com/magabrotheeeer/nightclub-events/internal/models"
)

// multipartOverhead запас на текстовые поля сверх файлов.
const multipartOverhead = 1 << 20

var (
	// ErrInvalidBody тело не удалось разобрать.
	ErrInvalidBody = models.NewValidationError("Invalid request body")
	// ErrNoFiles в multi-upload не пришло ни одного файла.
	ErrNoFiles = models.NewValidationError("No files uploaded")
	// ErrUnexpectedField файл пришёл в неожиданном поле или файлов слишком много.
	ErrUnexpectedField = models.NewValidationError("Unexpected field name in upload.")
	// ErrTooLarge тело запроса больше допустимого.
	ErrTooLarge = imagehost.ErrTooLarge
	// ErrInvalidEventID идентификатор события в пути не число.
	ErrInvalidEventID = models.NewValidationError("Event ID must be a number")
)

// Kind тип значения текстового поля формы.
type Kind int

// Типы значений полей формы.
const (
	String Kind = iota
	Float
	Int
)

// Limits ограничения на загружаемые файлы.
type Limits struct {
	MaxFileSize int64
	MaxFiles    int
}

// IsMultipart сообщает, что тело запроса multipart/form-data.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// ParseMultipart читает multipart-тело, ограничивая его размер.
func ParseMultipart(w http.ResponseWriter, r *http.Request, l Limits) error {
	maxBody := l.MaxFileSize*int64(max(l.MaxFiles, 1)) + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrTooLarge
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// Files читает файлы поля field и проверяет каждый. Файлы в других полях
// и файлы сверх maxFiles отклоняются.
func Files(r *http.Request, field string, l Limits) ([]imagehost.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	for name := range r.MultipartForm.File {
		if name != field {
			return nil, ErrUnexpectedField
		}
	}
	headers := r.MultipartForm.File[field]
	if l.MaxFiles > 0 && len(headers) > l.MaxFiles {
		return nil, ErrUnexpectedField
	}

	files := make([]imagehost.File, 0, len(headers))
	for _, h := range headers {
		if h.Size > l.MaxFileSize {
			return nil, imagehost.ErrTooLarge
		}
		f, err := h.Open()
		if err != nil {
			return nil, fmt.Errorf("form.Files: %w", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, l.MaxFileSize+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("form.Files: %w", err)
		}
		file := imagehost.File{Name: h.Filename, Data: data}
		if _, err := imagehost.Validate(file, l.MaxFileSize); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// File читает не более одного файла поля field. nil, если файла нет.
func File(r *http.Request, field string, l Limits) (*imagehost.File, error) {
	l.MaxFiles = 1
	files, err := Files(r, field, l)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

// Decode разбирает тело запроса в dst. JSON читается как есть, текстовые
// поля multipart-формы приводятся к типам из kinds. Пустые числовые поля
// пропускаются. Неизвестные поля отклоняются.
func Decode(r *http.Request, dst any, kinds map[string]Kind) error {
	var body io.Reader = r.Body
	if IsMultipart(r) && r.MultipartForm != nil {
		raw, err := fieldsJSON(r.MultipartForm.Value, kinds)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if field, ok := unknownField(err); ok {
			return models.NewValidationError(fmt.Sprintf("field %s is not allowed", field))
		}
		if errors.Is(err, io.EOF) {
			return models.NewValidationError("Request body is empty")
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

func fieldsJSON(values map[string][]string, kinds map[string]Kind) ([]byte, error) {
	out := make(map[string]any, len(values))
	for name, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v := strings.TrimSpace(vs[0])
		switch kinds[name] {
		case Float:
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, models.NewValidationError(fmt.Sprintf("field %s must be a number", name))
			}
			out[name] = f
		case Int:
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, models.NewValidationError(fmt.Sprintf("field %s must be an integer", name))
			}
			out[name] = n
		default:
			out[name] = vs[0]
		}
	}
	return json.Marshal(out)
}

func unknownField(err error) (string, bool) {
	const prefix = "json: unknown field "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	return strings.Trim(strings.TrimPrefix(msg, prefix), `"`), true
}

// EventID читает положительный идентификатор события из параметра пути id.
func EventID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, ErrInvalidEventID
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidEventID
	}
	return id, nil
}

// BlankToNil заменяет указатели на пустые строки на nil.
func BlankToNil(ptrs ...**string) {
	for _, p := range ptrs {
		if *p != nil && strings.TrimSpace(**p) == "" {
			*p = nil
		}
	}
}

// BlankToNull заменяет пустые строки в патче на явный null.
func BlankToNull(opts ...*models.Optional[string]) {
	for _, o := range opts {
		if o.Set && !o.Null && strings.TrimSpace(o.Value) == "" {
			*o = models.Null[string]()
		}
	}
}
