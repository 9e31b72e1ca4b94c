package item

import (
	"time"

	"github.com/BDorzho/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(apperror.KindNotFound, "item not found")
	ErrOwnerNotFound       = apperror.New(apperror.KindNotFound, "user not found")
	ErrRequestNotFound     = apperror.New(apperror.KindNotFound, "item request not found")
	ErrNotOwner            = apperror.New(apperror.KindUnauthorized, "only the owner can modify this item")
	ErrEmptyName           = apperror.New(apperror.KindInvalidInput, "name cannot be empty")
	ErrNameTooLong         = apperror.New(apperror.KindInvalidInput, "name must be at most 256 characters")
	ErrEmptyDescription    = apperror.New(apperror.KindInvalidInput, "description cannot be empty")
	ErrNothingToUpdate     = apperror.New(apperror.KindInvalidInput, "no fields to update")
	ErrAvailabilityMissing = apperror.New(apperror.KindInvalidInput, "available is required")
)

const maxNameLength = 256

// Item is a thing a user lends out. Available=false makes it unbookable regardless of calendar state.
type Item struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string // the item request this item answers, if any
	PhotoID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
