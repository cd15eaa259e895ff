package ports

import (
	"context"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

// LoginResult carries everything the handler needs to answer a login.
type LoginResult struct {
	User         *domain.User
	Session      *domain.Session
	Cookie       string
	RedirectPath string // "/{hash}" + role home
}

// CreateUserInput is used by signup and the operator CLI.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     domain.Role
}

// ProfileUpdate holds the optional fields of a profile edit.
type ProfileUpdate struct {
	Name            *string
	Email           *string
	CurrentPassword string
	NewPassword     string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, cookie string) error
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error)
}
