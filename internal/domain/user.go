package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/calebmori/gatherly/internal/infrastructure/validate"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EnsureIndexes(ctx context.Context) error
}

func NewUser(rawName, rawEmail, passwordHash string) (*User, error) {
	validateName := validate.Field("name",
		validate.Required(),
		validate.MinLength(2),
		validate.MaxLength(64),
	)
	if err := validateName(rawName); err != nil {
		return nil, err
	}

	validateEmail := validate.Field("email",
		validate.Required(),
		validate.Email(),
	)
	email := strings.ToLower(strings.TrimSpace(rawEmail))
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	return &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(rawName),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
