package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/infrastructure/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepository struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *fakeUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *fakeUserRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *fakeUserRepository, *auth.TokenManager) {
	t.Helper()

	repo := newFakeUserRepository()
	tm, err := auth.NewTokenManager("test-secret", time.Hour, "gatherly")
	require.NoError(t, err)

	handler := NewHandler(repo, tm)

	r := chi.NewRouter()
	r.Post("/api/users/signup", handler.SignupHandler)
	r.Post("/api/users/login", handler.LoginHandler)

	return r, repo, tm
}

func doJSON(t *testing.T, router http.Handler, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) authResponse {
	t.Helper()

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSignupHandler(t *testing.T) {
	t.Run("creates an account and returns a usable token", func(t *testing.T) {
		router, _, tm := newTestRouter(t)

		rec := doJSON(t, router, "/api/users/signup", map[string]string{
			"name":     "Ada",
			"email":    "Ada@Example.com",
			"password": "hunter2hunter2",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decodeAuth(t, rec)
		assert.Equal(t, "ada@example.com", resp.User.Email)
		require.NotEmpty(t, resp.Token)

		claims, err := tm.Validate(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
	})

	t.Run("never leaks the password hash", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		rec := doJSON(t, router, "/api/users/signup", map[string]string{
			"name":     "Ada",
			"email":    "ada@example.com",
			"password": "hunter2hunter2",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "argon2id")
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("duplicate email is a 409", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		body := map[string]string{
			"name":     "Ada",
			"email":    "ada@example.com",
			"password": "hunter2hunter2",
		}

		require.Equal(t, http.StatusCreated, doJSON(t, router, "/api/users/signup", body).Code)
		assert.Equal(t, http.StatusConflict, doJSON(t, router, "/api/users/signup", body).Code)
	})

	t.Run("short password is a 400", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		rec := doJSON(t, router, "/api/users/signup", map[string]string{
			"name":     "Ada",
			"email":    "ada@example.com",
			"password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	signup := func(t *testing.T, router http.Handler) {
		t.Helper()
		rec := doJSON(t, router, "/api/users/signup", map[string]string{
			"name":     "Ada",
			"email":    "ada@example.com",
			"password": "hunter2hunter2",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("valid credentials get a token", func(t *testing.T) {
		router, _, tm := newTestRouter(t)
		signup(t, router)

		rec := doJSON(t, router, "/api/users/login", map[string]string{
			"email":    "ADA@example.com",
			"password": "hunter2hunter2",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeAuth(t, rec)
		_, err := tm.Validate(resp.Token)
		assert.NoError(t, err)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		router, _, _ := newTestRouter(t)
		signup(t, router)

		wrongPassword := doJSON(t, router, "/api/users/login", map[string]string{
			"email":    "ada@example.com",
			"password": "wrong password",
		})
		unknownEmail := doJSON(t, router, "/api/users/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "hunter2hunter2",
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		rec := doJSON(t, router, "/api/users/login", map[string]string{
			"email": "ada@example.com",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
