package booking

import (
	"time"

	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/item"
)

// CheckAvailability decides whether bookerID may book it over [start, end) given the
// item's existing bookings. Rules are checked in order and the first violation is returned.
// Rejected bookings never block.
func CheckAvailability(it *item.Item, bookerID string, start, end time.Time, existing []*Booking) error {
	if it == nil {
		return ErrItemNotFound
	}
	if auth.OwnerDecision(bookerID, it.OwnerID).Allowed() {
		return ErrOwnerSelfBooking
	}
	if !it.Available {
		return ErrItemUnavailable
	}
	if !end.After(start) {
		return ErrInvalidInterval
	}
	for _, b := range existing {
		if b.Status == StatusRejected {
			continue
		}
		if b.Overlaps(start, end) {
			return ErrIntervalConflict
		}
	}
	return nil
}
