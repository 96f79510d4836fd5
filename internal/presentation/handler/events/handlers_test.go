package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/infrastructure/auth"
	"github.com/calebmori/gatherly/internal/infrastructure/ws"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepository struct {
	mu     sync.Mutex
	events map[string]domain.Event
}

func newFakeEventRepository() *fakeEventRepository {
	return &fakeEventRepository{
		events: make(map[string]domain.Event),
	}
}

func (r *fakeEventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[event.ID]; ok {
		return domain.ErrEventAlreadyExists
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &event, nil
}

func (r *fakeEventRepository) GetAll(ctx context.Context) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		all = append(all, event)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return all, nil
}

func (r *fakeEventRepository) Update(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepository) Delete(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	delete(r.events, id)
	return &event, nil
}

func (r *fakeEventRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type fakePublisher struct {
	mu    sync.Mutex
	calls []string
}

func (p *fakePublisher) record(kind string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, kind)
	return nil
}

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakePublisher) PublishEventCreated(ctx context.Context, event domain.Event) error {
	return p.record("created")
}

func (p *fakePublisher) PublishEventUpdated(ctx context.Context, event domain.Event, actorID string) error {
	return p.record("updated")
}

func (p *fakePublisher) PublishEventDeleted(ctx context.Context, event domain.Event, actorID string) error {
	return p.record("deleted")
}

func (p *fakePublisher) PublishAttendeeJoined(ctx context.Context, event domain.Event, userID string) error {
	return p.record("joined")
}

func (p *fakePublisher) PublishAttendeeLeft(ctx context.Context, event domain.Event, userID string) error {
	return p.record("left")
}

type handlerFixture struct {
	repo      *fakeEventRepository
	hub       *ws.Hub
	publisher *fakePublisher
	handler   *Handler
}

func newFixture(t *testing.T) *handlerFixture {
	t.Helper()

	repo := newFakeEventRepository()
	hub := ws.NewHub(nil)
	go hub.Run()
	publisher := &fakePublisher{}

	return &handlerFixture{
		repo:      repo,
		hub:       hub,
		publisher: publisher,
		handler:   NewHandler(repo, hub, publisher),
	}
}

// router mounts the handler the same way the application does. A non-empty
// userID simulates a request that passed the auth middleware.
func (f *handlerFixture) router(userID string) http.Handler {
	r := chi.NewRouter()

	if userID != "" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), userID)))
			})
		})
	}

	r.Route("/api/events", func(r chi.Router) {
		r.Get("/", f.handler.ListEventsHandler)
		r.Get("/{eventId}", f.handler.GetEventHandler)
		r.Post("/", f.handler.CreateEventHandler)
		r.Put("/{eventId}", f.handler.UpdateEventHandler)
		r.Delete("/{eventId}", f.handler.DeleteEventHandler)
		r.Post("/{eventId}/join", f.handler.JoinEventHandler)
		r.Post("/{eventId}/leave", f.handler.LeaveEventHandler)
	})

	return r
}

func (f *handlerFixture) seedEvent(t *testing.T, creator string, capacity int) *domain.Event {
	t.Helper()

	event, err := domain.NewEvent(domain.NewEventParams{
		Title:    "Seeded Event",
		Location: "Berlin",
		Category: "meetup",
		Date:     time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		Capacity: capacity,
	}, creator)
	require.NoError(t, err)
	require.NoError(t, f.repo.Create(context.Background(), event))

	return event
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEvent(t *testing.T, rec *httptest.ResponseRecorder) eventResponse {
	t.Helper()

	var resp eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateEventHandler(t *testing.T) {
	t.Run("creates an event with the caller as first attendee", func(t *testing.T) {
		f := newFixture(t)
		router := f.router("creator-1")

		rec := doJSON(t, router, http.MethodPost, "/api/events", map[string]any{
			"title":    "GopherCon Afterparty",
			"location": "Berlin",
			"category": "meetup",
			"date":     "2026-09-01T18:00:00Z",
			"capacity": 10,
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decodeEvent(t, rec)
		assert.Equal(t, "creator-1", resp.Creator)
		assert.Equal(t, []string{"creator-1"}, resp.Attendees)
		assert.Equal(t, 0, resp.CurrentViewers)
		assert.Equal(t, []string{"created"}, f.publisher.published())
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		f := newFixture(t)
		router := f.router("creator-1")

		rec := doJSON(t, router, http.MethodPost, "/api/events", map[string]any{
			"title": "No date, no location",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.publisher.published())
	})

	t.Run("rejects unauthenticated callers", func(t *testing.T) {
		f := newFixture(t)
		router := f.router("")

		rec := doJSON(t, router, http.MethodPost, "/api/events", map[string]any{
			"title":    "GopherCon Afterparty",
			"location": "Berlin",
			"category": "meetup",
			"date":     "2026-09-01T18:00:00Z",
			"capacity": 10,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetEventHandler(t *testing.T) {
	t.Run("returns the event with its viewer count", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("")

		rec := doJSON(t, router, http.MethodGet, "/api/events/"+event.ID, nil)

		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeEvent(t, rec)
		assert.Equal(t, event.ID, resp.ID)
		assert.Equal(t, 0, resp.CurrentViewers)

		// Reading is side-effect free as far as the store is concerned.
		stored, err := f.repo.GetByID(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, *event, *stored)
	})

	t.Run("rebroadcasts the event to its room", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("")

		watcher := &ws.Client{Message: make(chan *ws.Message, 64), ID: "watcher"}
		f.hub.Register() <- watcher
		f.hub.JoinRoom(watcher, event.ID)

		// Drain the viewer update from the join.
		select {
		case <-watcher.Message:
		case <-time.After(time.Second):
			t.Fatal("expected a viewer update")
		}

		rec := doJSON(t, router, http.MethodGet, "/api/events/"+event.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		select {
		case msg := <-watcher.Message:
			assert.Equal(t, ws.EventUpdated, msg.Event)
			assert.Equal(t, event.ID, msg.Room)
		case <-time.After(time.Second):
			t.Fatal("expected the event to be rebroadcast to its room")
		}

		// The watching connection is counted in the response.
		resp := decodeEvent(t, rec)
		assert.Equal(t, 1, resp.CurrentViewers)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		f := newFixture(t)
		router := f.router("")

		rec := doJSON(t, router, http.MethodGet, "/api/events/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListEventsHandler(t *testing.T) {
	f := newFixture(t)
	f.seedEvent(t, "creator-1", 10)
	f.seedEvent(t, "creator-2", 10)
	router := f.router("")

	rec := doJSON(t, router, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []eventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestUpdateEventHandler(t *testing.T) {
	t.Run("creator can update", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("creator-1")

		rec := doJSON(t, router, http.MethodPut, "/api/events/"+event.ID, map[string]any{
			"title": "Renamed",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeEvent(t, rec)
		assert.Equal(t, "Renamed", resp.Title)
		assert.Equal(t, "Berlin", resp.Location)
		assert.Equal(t, []string{"updated"}, f.publisher.published())

		stored, err := f.repo.GetByID(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.Title)
	})

	t.Run("non-creator gets the same 404 as a missing event", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("intruder")

		rec := doJSON(t, router, http.MethodPut, "/api/events/"+event.ID, map[string]any{
			"title": "Hijacked",
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, f.publisher.published())
	})

	t.Run("invalid patch is a 400", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("creator-1")

		rec := doJSON(t, router, http.MethodPut, "/api/events/"+event.ID, map[string]any{
			"capacity": 0,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("creator-1")

		rec := doJSON(t, router, http.MethodPut, "/api/events/"+event.ID, map[string]any{
			"creator": "intruder",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		stored, err := f.repo.GetByID(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, "creator-1", stored.Creator)
	})
}

func TestDeleteEventHandler(t *testing.T) {
	t.Run("creator can delete", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("creator-1")

		rec := doJSON(t, router, http.MethodDelete, "/api/events/"+event.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		_, err := f.repo.GetByID(context.Background(), event.ID)
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
		assert.Equal(t, []string{"deleted"}, f.publisher.published())
	})

	t.Run("non-creator gets a 404 and the event survives", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)
		router := f.router("intruder")

		rec := doJSON(t, router, http.MethodDelete, "/api/events/"+event.ID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		_, err := f.repo.GetByID(context.Background(), event.ID)
		assert.NoError(t, err)
	})
}

func TestJoinEventHandler(t *testing.T) {
	t.Run("joins until the event fills up", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 2)

		rec := doJSON(t, f.router("user-2"), http.MethodPost, fmt.Sprintf("/api/events/%s/join", event.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeEvent(t, rec)
		assert.Equal(t, []string{"creator-1", "user-2"}, resp.Attendees)

		rec = doJSON(t, f.router("user-3"), http.MethodPost, fmt.Sprintf("/api/events/%s/join", event.ID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		assert.Equal(t, []string{"joined"}, f.publisher.published())
	})

	t.Run("duplicate join is a 400", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 10)

		rec := doJSON(t, f.router("creator-1"), http.MethodPost, fmt.Sprintf("/api/events/%s/join", event.ID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown event is a 404", func(t *testing.T) {
		f := newFixture(t)

		rec := doJSON(t, f.router("user-2"), http.MethodPost, "/api/events/nope/join", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLeaveEventHandler(t *testing.T) {
	t.Run("removes the caller and keeps order", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 5)

		require.Equal(t, http.StatusOK,
			doJSON(t, f.router("user-2"), http.MethodPost, fmt.Sprintf("/api/events/%s/join", event.ID), nil).Code)
		require.Equal(t, http.StatusOK,
			doJSON(t, f.router("user-3"), http.MethodPost, fmt.Sprintf("/api/events/%s/join", event.ID), nil).Code)

		rec := doJSON(t, f.router("user-2"), http.MethodPost, fmt.Sprintf("/api/events/%s/leave", event.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeEvent(t, rec)
		assert.Equal(t, []string{"creator-1", "user-3"}, resp.Attendees)
	})

	t.Run("leaving without joining is a 400", func(t *testing.T) {
		f := newFixture(t)
		event := f.seedEvent(t, "creator-1", 5)

		rec := doJSON(t, f.router("stranger"), http.MethodPost, fmt.Sprintf("/api/events/%s/leave", event.ID), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
