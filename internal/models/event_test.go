package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nightclub-events/internal/lib/sqlupdate"
)

func TestEventPatch_UnmarshalAndAssignments(t *testing.T) {
	date := time.Date(2026, 12, 31, 22, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		body string
		want []sqlupdate.Assignment
	}{
		{
			name: "only title",
			body: `{"title":"New"}`,
			want: []sqlupdate.Assignment{{Column: ColTitle, Value: "New"}},
		},
		{
			name: "explicit null description",
			body: `{"description":null}`,
			want: []sqlupdate.Assignment{{Column: ColDescription, Value: nil}},
		},
		{
			name: "empty string is a value",
			body: `{"dj_artist":""}`,
			want: []sqlupdate.Assignment{{Column: ColDJArtist, Value: ""}},
		},
		{
			name: "fixed column order",
			body: `{"status":"sold_out","max_capacity":250,"event_date":"2026-12-31T22:00:00Z","title":"NYE"}`,
			want: []sqlupdate.Assignment{
				{Column: ColTitle, Value: "NYE"},
				{Column: ColEventDate, Value: date},
				{Column: ColMaxCapacity, Value: 250},
				{Column: ColStatus, Value: "sold_out"},
			},
		},
		{
			name: "empty object",
			body: `{}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p EventPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.want, p.Assignments())
			assert.Equal(t, tt.want == nil, p.IsEmpty())
		})
	}
}

func TestEventPatch_NullViolations(t *testing.T) {
	var p EventPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":null,"description":null,"status":null}`), &p))

	assert.Equal(t, []string{
		"field title cannot be null",
		"field status cannot be null",
	}, p.NullViolations())
}

func TestEventPatch_Rules(t *testing.T) {
	p := EventPatch{
		Title:    Some("Techno"),
		Status:   Some(StatusCancelled),
		DJArtist: Null[string](),
	}

	r := p.Rules()
	require.NotNil(t, r.Title)
	assert.Equal(t, "Techno", *r.Title)
	require.NotNil(t, r.Status)
	assert.Equal(t, "cancelled", *r.Status)
	assert.Nil(t, r.TicketPrice)
	assert.Nil(t, r.MaxCapacity)
}

func TestOptional_UnmarshalInvalidType(t *testing.T) {
	var p EventPatch
	err := json.Unmarshal([]byte(`{"max_capacity":"lots"}`), &p)
	assert.Error(t, err)
}

func TestNewEvent_ApplyDefaults(t *testing.T) {
	e := NewEvent{Title: "Friday"}
	e.ApplyDefaults()

	assert.Equal(t, DefaultEventType, e.EventType)
	assert.Equal(t, DefaultMaxCapacity, e.MaxCapacity)
	assert.Zero(t, e.TicketPrice)

	e = NewEvent{Title: "Gig", EventType: "concert", MaxCapacity: 40}
	e.ApplyDefaults()
	assert.Equal(t, "concert", e.EventType)
	assert.Equal(t, 40, e.MaxCapacity)
}

func TestEvent_IsOn(t *testing.T) {
	e := Event{EventDate: time.Date(2026, 5, 1, 23, 30, 0, 0, time.UTC)}

	assert.True(t, e.IsOn(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), time.UTC))
	assert.False(t, e.IsOn(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), time.UTC))
}
