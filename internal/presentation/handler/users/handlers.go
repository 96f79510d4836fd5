package users

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/infrastructure/auth"
	"github.com/calebmori/gatherly/internal/infrastructure/json"
	"github.com/calebmori/gatherly/internal/infrastructure/validate"
)

const minPasswordLength = 8

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Handler struct {
	userRepository domain.UserRepository
	tokenManager   *auth.TokenManager
}

func NewHandler(userRepository domain.UserRepository, tokenManager *auth.TokenManager) *Handler {
	return &Handler{
		userRepository: userRepository,
		tokenManager:   tokenManager,
	}
}

// SignupHandler godoc
// @Summary      Register a new account
// @Description  Creates a user and returns a signed access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body signupRequest true "Account details"
// @Success      201 {object} authResponse "Account created"
// @Failure      400 {object} json.ErrorResponse "Validation error"
// @Failure      409 {object} json.ErrorResponse "Email already registered"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Router       /users/signup [post]
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	validatePassword := validate.Field("password",
		validate.Required(),
		validate.MinLength(minPasswordLength),
	)
	if err := validatePassword(req.Password); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, passwordHash)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	if err := h.userRepository.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			json.WriteError(w, http.StatusConflict, err, "Email is already registered")
		default:
			log.Printf("Repository error creating user: %v", err)
			json.WriteInternalError(w, err)
		}
		return
	}

	token, err := h.tokenManager.Generate(user.ID)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, authResponse{
		User: userResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		Token: token,
	})
}

// LoginHandler godoc
// @Summary      Log in
// @Description  Exchanges email and password for a signed access token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} authResponse "Authenticated"
// @Failure      400 {object} json.ErrorResponse "Validation error"
// @Failure      401 {object} json.ErrorResponse "Invalid credentials"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Router       /users/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if req.Email == "" || req.Password == "" {
		json.WriteValidationError(w, errors.New("email and password are required"))
		return
	}

	ctx := r.Context()
	user, err := h.userRepository.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		switch {
		// Unknown email and wrong password are indistinguishable on purpose.
		case errors.Is(err, domain.ErrUserNotFound):
			json.WriteError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials, "Invalid email or password")
		default:
			log.Printf("Repository error fetching user: %v", err)
			json.WriteInternalError(w, err)
		}
		return
	}

	match, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if !match {
		json.WriteError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials, "Invalid email or password")
		return
	}

	token, err := h.tokenManager.Generate(user.ID)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, authResponse{
		User: userResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		Token: token,
	})
}
