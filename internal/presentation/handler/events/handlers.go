package events

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/infrastructure/auth"
	"github.com/calebmori/gatherly/internal/infrastructure/json"
	"github.com/calebmori/gatherly/internal/infrastructure/ws"
	"github.com/go-chi/chi/v5"
)

// EventPublisher pushes lifecycle notifications onto the broker.
type EventPublisher interface {
	PublishEventCreated(ctx context.Context, event domain.Event) error
	PublishEventUpdated(ctx context.Context, event domain.Event, actorID string) error
	PublishEventDeleted(ctx context.Context, event domain.Event, actorID string) error
	PublishAttendeeJoined(ctx context.Context, event domain.Event, userID string) error
	PublishAttendeeLeft(ctx context.Context, event domain.Event, userID string) error
}

type Handler struct {
	eventRepository domain.EventRepository
	hub             *ws.Hub
	eventPublisher  EventPublisher
}

func NewHandler(
	eventRepository domain.EventRepository,
	hub *ws.Hub,
	eventPublisher EventPublisher,
) *Handler {
	return &Handler{
		eventRepository: eventRepository,
		hub:             hub,
		eventPublisher:  eventPublisher,
	}
}

// ListEventsHandler godoc
// @Summary      List all events
// @Description  Returns every event, sorted by date
// @Tags         events
// @Produce      json
// @Success      200 {array} eventResponse "Events"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Router       /events [get]
func (h *Handler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	all, err := h.eventRepository.GetAll(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	resp := make([]eventResponse, 0, len(all))
	for i := range all {
		resp = append(resp, newEventResponse(&all[i], h.hub.ViewerCount(all[i].ID)))
	}

	json.Write(w, http.StatusOK, resp)
}

// GetEventHandler godoc
// @Summary      Get a single event
// @Description  Returns the event along with how many clients are watching it live
// @Tags         events
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Success      200 {object} eventResponse "Event details"
// @Failure      404 {object} json.ErrorResponse "Event not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Router       /events/{eventId} [get]
func (h *Handler) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event ID is missing"))
		return
	}

	event, err := h.eventRepository.GetByID(r.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		default:
			log.Printf("Failed to find event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	resp := newEventResponse(event, h.hub.ViewerCount(event.ID))

	// Every read pushes the augmented event back into its room so watchers
	// stay in sync with what the reader just saw.
	h.hub.PublishToRoom(event.ID, ws.EventUpdated, resp)

	json.Write(w, http.StatusOK, resp)
}

// CreateEventHandler godoc
// @Summary      Create a new event
// @Description  Creates an event; the caller becomes its creator and first attendee
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body createEventRequest true "Event parameters"
// @Success      201 {object} eventResponse "Event created"
// @Failure      400 {object} json.ErrorResponse "Validation error"
// @Failure      401 {object} json.ErrorResponse "Missing or invalid token"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /events [post]
func (h *Handler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing or invalid authentication")
		return
	}

	event, err := domain.NewEvent(domain.NewEventParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Date:        req.Date,
		Capacity:    req.Capacity,
	}, userID)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	if err := h.eventRepository.Create(ctx, event); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventAlreadyExists):
			json.WriteError(w, http.StatusConflict, err, "Event already exists")
		default:
			log.Printf("Repository error creating event %s: %v", event.ID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	resp := newEventResponse(event, 0)

	h.hub.PublishToAll(ws.EventUpdated, resp)

	if err := h.eventPublisher.PublishEventCreated(ctx, *event); err != nil {
		log.Printf("Error publishing event created: %v", err)
	}

	json.Write(w, http.StatusCreated, resp)
}

// UpdateEventHandler godoc
// @Summary      Update an event
// @Description  Applies a partial update; only the creator may update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Param        request body domain.EventPatch true "Fields to update"
// @Success      200 {object} eventResponse "Updated event"
// @Failure      400 {object} json.ErrorResponse "Validation error"
// @Failure      401 {object} json.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} json.ErrorResponse "Event not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /events/{eventId} [put]
func (h *Handler) UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event ID is missing"))
		return
	}

	var patch domain.EventPatch
	if err := json.Read(r, &patch); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing or invalid authentication")
		return
	}

	ctx := r.Context()
	event, err := h.eventRepository.GetByID(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		default:
			log.Printf("Failed to find event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	// Non-creators get the same 404 as a missing event so they cannot probe
	// which event ids exist.
	if !event.IsCreator(userID) {
		json.WriteNotFoundError(w, "Event not found")
		return
	}

	if err := event.ApplyPatch(patch); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.eventRepository.Update(ctx, event); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		default:
			log.Printf("Repository error updating event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	resp := newEventResponse(event, h.hub.ViewerCount(event.ID))

	h.hub.PublishToRoom(event.ID, ws.EventUpdated, resp)

	if err := h.eventPublisher.PublishEventUpdated(ctx, *event, userID); err != nil {
		log.Printf("Error publishing event updated: %v", err)
	}

	json.Write(w, http.StatusOK, resp)
}

// DeleteEventHandler godoc
// @Summary      Delete an event
// @Description  Permanently deletes an event; only the creator may delete it
// @Tags         events
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Success      200 {object} deleteEventResponse "Event deleted"
// @Failure      401 {object} json.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} json.ErrorResponse "Event not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /events/{eventId} [delete]
func (h *Handler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event ID is missing"))
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing or invalid authentication")
		return
	}

	ctx := r.Context()
	event, err := h.eventRepository.GetByID(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		default:
			log.Printf("Failed to find event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	if !event.IsCreator(userID) {
		json.WriteNotFoundError(w, "Event not found")
		return
	}

	deleted, err := h.eventRepository.Delete(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		default:
			log.Printf("Repository error deleting event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	// Deletion is announced to everyone, not just the room, so list views
	// can drop the event too.
	h.hub.PublishToAll(ws.EventDeleted, ws.EventDeletedPayload{EventID: deleted.ID})

	if err := h.eventPublisher.PublishEventDeleted(ctx, *deleted, userID); err != nil {
		log.Printf("Error publishing event deleted: %v", err)
	}

	json.Write(w, http.StatusOK, deleteEventResponse{
		Message: "event deleted",
		EventID: deleted.ID,
	})
}

// JoinEventHandler godoc
// @Summary      Join an event
// @Description  Adds the caller to the attendee list if there is capacity left
// @Tags         events
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Success      200 {object} eventResponse "Joined event"
// @Failure      400 {object} json.ErrorResponse "Already joined or event full"
// @Failure      401 {object} json.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} json.ErrorResponse "Event not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /events/{eventId}/join [post]
func (h *Handler) JoinEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event ID is missing"))
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing or invalid authentication")
		return
	}

	ctx := r.Context()
	event, err := h.eventRepository.GetByID(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		default:
			log.Printf("Failed to find event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	if err := event.AddAttendee(userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyJoined):
			json.WriteBadRequestError(w, "You already joined this event")
		case errors.Is(err, domain.ErrEventFull):
			json.WriteBadRequestError(w, "Event is full")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	if err := h.eventRepository.Update(ctx, event); err != nil {
		log.Printf("Repository error joining event %s: %v", eventID, err)
		json.WriteInternalError(w, err)
		return
	}

	// Re-read so the broadcast carries what was actually persisted.
	updated, err := h.eventRepository.GetByID(ctx, eventID)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	resp := newEventResponse(updated, h.hub.ViewerCount(updated.ID))

	h.hub.PublishToRoom(updated.ID, ws.EventUpdated, resp)

	if err := h.eventPublisher.PublishAttendeeJoined(ctx, *updated, userID); err != nil {
		log.Printf("Error publishing attendee joined: %v", err)
	}

	json.Write(w, http.StatusOK, resp)
}

// LeaveEventHandler godoc
// @Summary      Leave an event
// @Description  Removes the caller from the attendee list
// @Tags         events
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Success      200 {object} eventResponse "Left event"
// @Failure      400 {object} json.ErrorResponse "Not an attendee"
// @Failure      401 {object} json.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} json.ErrorResponse "Event not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /events/{eventId}/leave [post]
func (h *Handler) LeaveEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event ID is missing"))
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Missing or invalid authentication")
		return
	}

	ctx := r.Context()
	event, err := h.eventRepository.GetByID(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		default:
			log.Printf("Failed to find event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	if err := event.RemoveAttendee(userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotJoined):
			json.WriteBadRequestError(w, "You have not joined this event")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	if err := h.eventRepository.Update(ctx, event); err != nil {
		log.Printf("Repository error leaving event %s: %v", eventID, err)
		json.WriteInternalError(w, err)
		return
	}

	resp := newEventResponse(event, h.hub.ViewerCount(event.ID))

	h.hub.PublishToRoom(event.ID, ws.EventUpdated, resp)

	if err := h.eventPublisher.PublishAttendeeLeft(ctx, *event, userID); err != nil {
		log.Printf("Error publishing attendee left: %v", err)
	}

	json.Write(w, http.StatusOK, resp)
}
