package models

import (
	"time"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sqlupdate"
)

// EventStatus статус события.
type EventStatus string

// Допустимые статусы события.
const (
	StatusActive    EventStatus = "active"
	StatusCancelled EventStatus = "cancelled"
	StatusSoldOut   EventStatus = "sold_out"
)

// Значения по умолчанию для нового события.
const (
	DefaultEventType   = "party"
	DefaultMaxCapacity = 100
)

// Event событие клуба в том виде, в каком оно хранится в таблице events.
type Event struct {
	ID                int64       `json:"id"`
	Title             string      `json:"title"`
	EventType         string      `json:"event_type"`
	Description       *string     `json:"description"`
	EventDate         time.Time   `json:"event_date"`
	DJArtist          *string     `json:"dj_artist"`
	TicketPrice       float64     `json:"ticket_price"`
	MaxCapacity       int         `json:"max_capacity"`
	PosterImageURL    *string     `json:"poster_image_url"`
	CreatedBy         *int64      `json:"created_by"`
	CreatedByUsername *string     `json:"created_by_username,omitempty"`
	Status            EventStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// IsOn сообщает, приходится ли событие на календарный день t в зоне loc.
func (e Event) IsOn(t time.Time, loc *time.Location) bool {
	y1, m1, d1 := e.EventDate.In(loc).Date()
	y2, m2, d2 := t.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// NewEvent данные для создания события.
type NewEvent struct {
	Title          string    `json:"title" validate:"required,max=255"`
	EventType      string    `json:"event_type" validate:"required"`
	Description    *string   `json:"description,omitempty"`
	EventDate      time.Time `json:"event_date" validate:"required"`
	DJArtist       *string   `json:"dj_artist,omitempty"`
	TicketPrice    float64   `json:"ticket_price" validate:"gte=0"`
	MaxCapacity    int       `json:"max_capacity" validate:"gte=1"`
	PosterImageURL *string   `json:"poster_image_url,omitempty" validate:"omitempty,url"`
	CreatedBy      int64     `json:"-"`
}

// ApplyDefaults заполняет незаданные тип и вместимость.
// Нулевая цена уже является значением по умолчанию.
func (e *NewEvent) ApplyDefaults() {
	if e.EventType == "" {
		e.EventType = DefaultEventType
	}
	if e.MaxCapacity == 0 {
		e.MaxCapacity = DefaultMaxCapacity
	}
}

// Колонки events, которые можно менять частичным обновлением.
const (
	ColTitle          = "title"
	ColEventType      = "event_type"
	ColDescription    = "description"
	ColEventDate      = "event_date"
	ColDJArtist       = "dj_artist"
	ColTicketPrice    = "ticket_price"
	ColMaxCapacity    = "max_capacity"
	ColPosterImageURL = "poster_image_url"
	ColStatus         = "status"
)

// UpdatableEventColumns список разрешённых к обновлению колонок.
var UpdatableEventColumns = []string{
	ColTitle,
	ColEventType,
	ColDescription,
	ColEventDate,
	ColDJArtist,
	ColTicketPrice,
	ColMaxCapacity,
	ColPosterImageURL,
	ColStatus,
}

// EventPatch частичное обновление события. Отсутствующее в запросе поле
// не трогается, явный null записывает NULL.
type EventPatch struct {
	Title          Optional[string]      `json:"title"`
	EventType      Optional[string]      `json:"event_type"`
	Description    Optional[string]      `json:"description"`
	EventDate      Optional[time.Time]   `json:"event_date"`
	DJArtist       Optional[string]      `json:"dj_artist"`
	TicketPrice    Optional[float64]     `json:"ticket_price"`
	MaxCapacity    Optional[int]         `json:"max_capacity"`
	PosterImageURL Optional[string]      `json:"poster_image_url"`
	Status         Optional[EventStatus] `json:"status"`
}

// Assignments перечисляет заданные поля в фиксированном порядке колонок.
func (p EventPatch) Assignments() []sqlupdate.Assignment {
	var out []sqlupdate.Assignment
	add := func(col string, set bool, value any) {
		if set {
			out = append(out, sqlupdate.Assignment{Column: col, Value: value})
		}
	}
	add(ColTitle, p.Title.Set, p.Title.SQLValue())
	add(ColEventType, p.EventType.Set, p.EventType.SQLValue())
	add(ColDescription, p.Description.Set, p.Description.SQLValue())
	add(ColEventDate, p.EventDate.Set, p.EventDate.SQLValue())
	add(ColDJArtist, p.DJArtist.Set, p.DJArtist.SQLValue())
	add(ColTicketPrice, p.TicketPrice.Set, p.TicketPrice.SQLValue())
	add(ColMaxCapacity, p.MaxCapacity.Set, p.MaxCapacity.SQLValue())
	add(ColPosterImageURL, p.PosterImageURL.Set, p.PosterImageURL.SQLValue())
	if p.Status.Set && !p.Status.Null {
		add(ColStatus, true, string(p.Status.Value))
	} else {
		add(ColStatus, p.Status.Set, nil)
	}
	return out
}

// IsEmpty сообщает, что в патче нет ни одного поля.
func (p EventPatch) IsEmpty() bool {
	return len(p.Assignments()) == 0
}

// EventPatchRules значения патча для проверки валидатором. Незаданные поля
// остаются nil и пропускаются правилом omitempty.
type EventPatchRules struct {
	Title          *string  `json:"title" validate:"omitempty,min=1,max=255"`
	EventType      *string  `json:"event_type" validate:"omitempty,min=1"`
	TicketPrice    *float64 `json:"ticket_price" validate:"omitempty,gte=0"`
	MaxCapacity    *int     `json:"max_capacity" validate:"omitempty,gte=1"`
	PosterImageURL *string  `json:"poster_image_url" validate:"omitempty,url"`
	Status         *string  `json:"status" validate:"omitempty,oneof=active cancelled sold_out"`
}

// Rules возвращает значения патча для валидатора.
func (p EventPatch) Rules() EventPatchRules {
	var r EventPatchRules
	r.Title = p.Title.Ptr()
	r.EventType = p.EventType.Ptr()
	r.TicketPrice = p.TicketPrice.Ptr()
	r.MaxCapacity = p.MaxCapacity.Ptr()
	r.PosterImageURL = p.PosterImageURL.Ptr()
	if p.Status.Set && !p.Status.Null {
		s := string(p.Status.Value)
		r.Status = &s
	}
	return r
}

// NullViolations возвращает сообщения о null для колонок с NOT NULL.
func (p EventPatch) NullViolations() []string {
	var out []string
	check := func(col string, null bool) {
		if null {
			out = append(out, "field "+col+" cannot be null")
		}
	}
	check(ColTitle, p.Title.Null)
	check(ColEventType, p.EventType.Null)
	check(ColEventDate, p.EventDate.Null)
	check(ColTicketPrice, p.TicketPrice.Null)
	check(ColMaxCapacity, p.MaxCapacity.Null)
	check(ColStatus, p.Status.Null)
	return out
}

// UploadedImage результат загрузки изображения в хранилище.
type UploadedImage struct {
	PublicID     string `json:"filename"`
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Format       string `json:"mimetype"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Storage      string `json:"storage"`
}
