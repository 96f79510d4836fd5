package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewEventParams {
	return NewEventParams{
		Title:    "GopherCon Afterparty",
		Location: "Berlin",
		Category: "meetup",
		Date:     time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		Capacity: 3,
	}
}

func TestNewEvent(t *testing.T) {
	t.Run("creator becomes the first attendee", func(t *testing.T) {
		event, err := NewEvent(validParams(), "creator-1")
		require.NoError(t, err)

		assert.Equal(t, "creator-1", event.Creator)
		assert.Equal(t, []string{"creator-1"}, event.Attendees)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.CreatedAt.IsZero())
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		cases := map[string]func(*NewEventParams){
			"title":    func(p *NewEventParams) { p.Title = "" },
			"location": func(p *NewEventParams) { p.Location = "" },
			"category": func(p *NewEventParams) { p.Category = "" },
			"date":     func(p *NewEventParams) { p.Date = time.Time{} },
			"capacity": func(p *NewEventParams) { p.Capacity = 0 },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				params := validParams()
				mutate(&params)

				_, err := NewEvent(params, "creator-1")
				assert.Error(t, err)
			})
		}
	})

	t.Run("rejects missing creator", func(t *testing.T) {
		_, err := NewEvent(validParams(), "")
		assert.Error(t, err)
	})

	t.Run("description and image are optional", func(t *testing.T) {
		params := validParams()
		params.Description = ""
		params.ImageURL = ""

		_, err := NewEvent(params, "creator-1")
		assert.NoError(t, err)
	})
}

func TestEventAddAttendee(t *testing.T) {
	t.Run("fills up to capacity then rejects", func(t *testing.T) {
		event, err := NewEvent(validParams(), "creator-1")
		require.NoError(t, err)

		require.NoError(t, event.AddAttendee("user-2"))
		require.NoError(t, event.AddAttendee("user-3"))

		err = event.AddAttendee("user-4")
		assert.ErrorIs(t, err, ErrEventFull)
		assert.Len(t, event.Attendees, 3)
	})

	t.Run("rejects duplicate join", func(t *testing.T) {
		event, err := NewEvent(validParams(), "creator-1")
		require.NoError(t, err)

		require.NoError(t, event.AddAttendee("user-2"))

		err = event.AddAttendee("user-2")
		assert.ErrorIs(t, err, ErrAlreadyJoined)
	})

	t.Run("creator counts against capacity", func(t *testing.T) {
		params := validParams()
		params.Capacity = 1

		event, err := NewEvent(params, "creator-1")
		require.NoError(t, err)

		err = event.AddAttendee("user-2")
		assert.ErrorIs(t, err, ErrEventFull)
	})
}

func TestEventRemoveAttendee(t *testing.T) {
	t.Run("preserves join order", func(t *testing.T) {
		params := validParams()
		params.Capacity = 5

		event, err := NewEvent(params, "creator-1")
		require.NoError(t, err)

		require.NoError(t, event.AddAttendee("user-2"))
		require.NoError(t, event.AddAttendee("user-3"))
		require.NoError(t, event.AddAttendee("user-4"))

		require.NoError(t, event.RemoveAttendee("user-3"))
		assert.Equal(t, []string{"creator-1", "user-2", "user-4"}, event.Attendees)
	})

	t.Run("rejects leaving when not joined", func(t *testing.T) {
		event, err := NewEvent(validParams(), "creator-1")
		require.NoError(t, err)

		err = event.RemoveAttendee("stranger")
		assert.ErrorIs(t, err, ErrNotJoined)
	})

	t.Run("frees a seat for the next join", func(t *testing.T) {
		params := validParams()
		params.Capacity = 2

		event, err := NewEvent(params, "creator-1")
		require.NoError(t, err)

		require.NoError(t, event.AddAttendee("user-2"))
		require.ErrorIs(t, event.AddAttendee("user-3"), ErrEventFull)

		require.NoError(t, event.RemoveAttendee("user-2"))
		assert.NoError(t, event.AddAttendee("user-3"))
	})
}

func TestEventApplyPatch(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	t.Run("only patched fields change", func(t *testing.T) {
		event, err := NewEvent(validParams(), "creator-1")
		require.NoError(t, err)

		err = event.ApplyPatch(EventPatch{Title: strPtr("Renamed")})
		require.NoError(t, err)

		assert.Equal(t, "Renamed", event.Title)
		assert.Equal(t, "Berlin", event.Location)
		assert.Equal(t, "meetup", event.Category)
	})

	t.Run("patched fields are validated", func(t *testing.T) {
		event, err := NewEvent(validParams(), "creator-1")
		require.NoError(t, err)

		assert.Error(t, event.ApplyPatch(EventPatch{Title: strPtr("")}))
		assert.Error(t, event.ApplyPatch(EventPatch{Capacity: intPtr(0)}))
	})

	t.Run("capacity may shrink below attendee count", func(t *testing.T) {
		params := validParams()
		params.Capacity = 5

		event, err := NewEvent(params, "creator-1")
		require.NoError(t, err)

		require.NoError(t, event.AddAttendee("user-2"))
		require.NoError(t, event.AddAttendee("user-3"))

		// Existing attendees are kept; only future joins see the new limit.
		require.NoError(t, event.ApplyPatch(EventPatch{Capacity: intPtr(1)}))
		assert.Len(t, event.Attendees, 3)
		assert.ErrorIs(t, event.AddAttendee("user-4"), ErrEventFull)
	})

	t.Run("bumps updatedAt", func(t *testing.T) {
		event, err := NewEvent(validParams(), "creator-1")
		require.NoError(t, err)

		before := event.UpdatedAt
		time.Sleep(time.Millisecond)

		require.NoError(t, event.ApplyPatch(EventPatch{Description: strPtr("new")}))
		assert.True(t, event.UpdatedAt.After(before))
	})
}

func TestEventIsCreator(t *testing.T) {
	event, err := NewEvent(validParams(), "creator-1")
	require.NoError(t, err)

	assert.True(t, event.IsCreator("creator-1"))
	assert.False(t, event.IsCreator("user-2"))
	assert.False(t, event.IsCreator(""))
}
