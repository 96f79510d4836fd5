package events

import (
	"time"

	"github.com/calebmori/gatherly/internal/domain"
)

// createEventRequest represents the request to create a new event
type createEventRequest struct {
	Title       string    `json:"title" example:"GopherCon Afterparty" minLength:"1"` // Event title
	Description string    `json:"description,omitempty" example:"Drinks and hallway talks"`
	Location    string    `json:"location" example:"Berlin"`   // Where the event takes place
	Category    string    `json:"category" example:"meetup"`   // Free-form category label
	ImageURL    string    `json:"imageUrl,omitempty"`          // Optional cover image
	Date        time.Time `json:"date" example:"2026-09-01T18:00:00Z"`
	Capacity    int       `json:"capacity" example:"50" minimum:"1"` // Attendee limit
}

// eventResponse represents an event, augmented with the live viewer count
type eventResponse struct {
	ID             string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Location       string    `json:"location"`
	Category       string    `json:"category"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Date           time.Time `json:"date"`
	Capacity       int       `json:"capacity"`
	Creator        string    `json:"creator"`
	Attendees      []string  `json:"attendees"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	CurrentViewers int       `json:"currentViewers"` // Live connections watching this event right now
}

// deleteEventResponse confirms a deletion
type deleteEventResponse struct {
	Message string `json:"message" example:"event deleted"`
	EventID string `json:"eventId"`
}

func newEventResponse(event *domain.Event, currentViewers int) eventResponse {
	return eventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Description:    event.Description,
		Location:       event.Location,
		Category:       event.Category,
		ImageURL:       event.ImageURL,
		Date:           event.Date,
		Capacity:       event.Capacity,
		Creator:        event.Creator,
		Attendees:      event.Attendees,
		CreatedAt:      event.CreatedAt,
		UpdatedAt:      event.UpdatedAt,
		CurrentViewers: currentViewers,
	}
}
