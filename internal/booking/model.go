package booking

import (
	"time"

	"github.com/BDorzho/shareit/internal/pkg/apperror"
)

var (
	ErrNotFound                = apperror.New(apperror.KindNotFound, "booking not found")
	ErrItemNotFound            = apperror.New(apperror.KindNotFound, "item not found")
	ErrUserNotFound            = apperror.New(apperror.KindNotFound, "user not found")
	ErrOwnerSelfBooking        = apperror.New(apperror.KindUnauthorized, "owner cannot book their own item")
	ErrItemUnavailable         = apperror.New(apperror.KindInvalidInput, "item is not available for booking")
	ErrInvalidInterval         = apperror.New(apperror.KindInvalidInput, "end time must be after start time")
	ErrIntervalConflict        = apperror.New(apperror.KindConflict, "time slot already booked")
	ErrNotOwner                = apperror.New(apperror.KindUnauthorized, "only the item owner can decide on a booking")
	ErrInvalidStatusTransition = apperror.New(apperror.KindConflict, "booking is not waiting for approval")
	ErrNotAuthorized           = apperror.New(apperror.KindUnauthorized, "booking is visible only to its booker and the item owner")
	ErrInvalidState            = apperror.New(apperror.KindInvalidInput, "unknown state")
	ErrInvalidPage             = apperror.New(apperror.KindInvalidInput, "from must be >= 0 and size must be between 1 and 100")
)

// Status is the persisted approval state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking is a request to use an item over the half-open interval [StartTime, EndTime).
type Booking struct {
	ID          string
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether b intersects [start, end) using half-open semantics,
// so intervals that only touch do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.EndTime.After(start) && b.StartTime.Before(end)
}
