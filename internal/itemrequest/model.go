package itemrequest

import (
	"time"

	"github.com/BDorzho/shareit/internal/item"
	"github.com/BDorzho/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(apperror.KindNotFound, "item request not found")
	ErrUserNotFound        = apperror.New(apperror.KindNotFound, "user not found")
	ErrDescriptionRequired = apperror.New(apperror.KindInvalidInput, "description is required")
)

// ItemRequest is a user asking for an item nobody lists yet.
// Items holds the items other users created in answer to it.
type ItemRequest struct {
	ID          string
	RequesterID string
	Description string
	CreatedAt   time.Time
	Items       []*item.Item
}
