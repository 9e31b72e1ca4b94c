package user

import (
	"net/http"
	"time"

	"github.com/BDorzho/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(apperror.KindConflict, "email already used")
	ErrEmailRequired    = apperror.New(apperror.KindInvalidInput, "email is required")
	ErrNameRequired     = apperror.New(apperror.KindInvalidInput, "name is required")
	ErrPasswordTooShort = apperror.New(apperror.KindInvalidInput, "password is too short")

	// Login failures answer 401 and never reveal whether the email exists.
	ErrInvalidCredentials = &apperror.AppError{
		Kind:    apperror.KindUnauthorized,
		Code:    http.StatusUnauthorized,
		Message: "invalid email or password",
	}
)

// User represents a user in the system.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// UpdateRequest carries the profile fields a user may change. Nil means unchanged.
type UpdateRequest struct {
	Name  *string
	Email *string
}
