package domain

import (
	"context"
	"errors"
	"time"

	"github.com/calebmori/gatherly/internal/infrastructure/validate"
	"github.com/google/uuid"
)

const (
	maxTitleLength    = 140
	maxCategoryLength = 64
	maxLocationLength = 256
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventAlreadyExists = errors.New("event already exists")
	ErrEventFull          = errors.New("event is full")
	ErrAlreadyJoined      = errors.New("already joined event")
	ErrNotJoined          = errors.New("not joined event")
	ErrNotCreator         = errors.New("caller is not the event creator")
)

// Event is a bookable happening with a hard attendee capacity. The creator
// is always the first attendee and the only user allowed to update or
// delete the event.
type Event struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Location    string    `bson:"location" json:"location"`
	Category    string    `bson:"category" json:"category"`
	ImageURL    string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Date        time.Time `bson:"date" json:"date"`
	Capacity    int       `bson:"capacity" json:"capacity"`
	Creator     string    `bson:"creator" json:"creator"`
	Attendees   []string  `bson:"attendees" json:"attendees"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetAll(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) (*Event, error)
	EnsureIndexes(ctx context.Context) error
}

// EventPatch is the allow-listed update surface for PUT. Nil fields are left
// untouched; id, creator and attendees can never be set through a patch.
type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Category    *string    `json:"category,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
}

type NewEventParams struct {
	Title       string
	Description string
	Location    string
	Category    string
	ImageURL    string
	Date        time.Time
	Capacity    int
}

func NewEvent(params NewEventParams, creatorID string) (*Event, error) {
	if err := validateEventFields(params); err != nil {
		return nil, err
	}
	if creatorID == "" {
		return nil, errors.New("creator is required")
	}

	now := time.Now().UTC()

	return &Event{
		ID:          uuid.NewString(),
		Title:       params.Title,
		Description: params.Description,
		Location:    params.Location,
		Category:    params.Category,
		ImageURL:    params.ImageURL,
		Date:        params.Date,
		Capacity:    params.Capacity,
		Creator:     creatorID,
		Attendees:   []string{creatorID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (e *Event) IsCreator(userID string) bool {
	return e.Creator != "" && e.Creator == userID
}

func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}

// AddAttendee appends userID to the attendee list, enforcing the capacity
// invariant. Duplicate joins are rejected rather than ignored.
func (e *Event) AddAttendee(userID string) error {
	if e.HasAttendee(userID) {
		return ErrAlreadyJoined
	}
	if len(e.Attendees) >= e.Capacity {
		return ErrEventFull
	}

	e.Attendees = append(e.Attendees, userID)
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveAttendee removes userID, keeping the remaining attendees in their
// original join order.
func (e *Event) RemoveAttendee(userID string) error {
	idx := -1
	for i, id := range e.Attendees {
		if id == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotJoined
	}

	e.Attendees = append(e.Attendees[:idx], e.Attendees[idx+1:]...)
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// ApplyPatch overwrites the patched fields. Capacity is not re-validated
// against the current attendee count; the creator may shrink capacity below
// it and only subsequent joins are affected.
func (e *Event) ApplyPatch(patch EventPatch) error {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return err
		}
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Location != nil {
		if err := validateLocation(*patch.Location); err != nil {
			return err
		}
		e.Location = *patch.Location
	}
	if patch.Category != nil {
		if err := validateCategory(*patch.Category); err != nil {
			return err
		}
		e.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		e.ImageURL = *patch.ImageURL
	}
	if patch.Date != nil {
		if patch.Date.IsZero() {
			return errors.New("date: must be a valid timestamp")
		}
		e.Date = *patch.Date
	}
	if patch.Capacity != nil {
		if *patch.Capacity < 1 {
			return errors.New("capacity: must be a positive integer")
		}
		e.Capacity = *patch.Capacity
	}

	e.UpdatedAt = time.Now().UTC()
	return nil
}

func validateEventFields(params NewEventParams) error {
	if err := validateTitle(params.Title); err != nil {
		return err
	}
	if err := validateLocation(params.Location); err != nil {
		return err
	}
	if err := validateCategory(params.Category); err != nil {
		return err
	}
	if params.Date.IsZero() {
		return errors.New("date: must be a valid timestamp")
	}
	if params.Capacity < 1 {
		return errors.New("capacity: must be a positive integer")
	}
	return nil
}

func validateTitle(title string) error {
	return validate.Field("title",
		validate.Required(),
		validate.MaxLength(maxTitleLength),
	)(title)
}

func validateLocation(location string) error {
	return validate.Field("location",
		validate.Required(),
		validate.MaxLength(maxLocationLength),
	)(location)
}

func validateCategory(category string) error {
	return validate.Field("category",
		validate.Required(),
		validate.MaxLength(maxCategoryLength),
	)(category)
}
