package itemview

import (
	"time"

	"github.com/BDorzho/shareit/internal/booking"
	"github.com/BDorzho/shareit/internal/comment"
	"github.com/BDorzho/shareit/internal/item"
)

// View is an item as shown to a particular viewer.
// LastBooking and NextBooking are only set when the viewer owns the item.
type View struct {
	Item        *item.Item
	LastBooking *booking.Booking
	NextBooking *booking.Booking
	Comments    []*comment.Comment
}

// Summarize picks the last and next bookings of an item at now.
//
// The last booking is the one with the greatest end among bookings that have already
// started or finished. The next booking is the one with the smallest start among bookings
// starting strictly after the last one ends. Without a last booking there is no next one.
// Status is not considered.
func Summarize(bookings []*booking.Booking, now time.Time) (last, next *booking.Booking) {
	for _, b := range bookings {
		if !(b.StartTime.Before(now) || b.EndTime.Before(now)) {
			continue
		}
		if last == nil || b.EndTime.After(last.EndTime) {
			last = b
		}
	}
	if last == nil {
		return nil, nil
	}

	for _, b := range bookings {
		if !b.StartTime.After(last.EndTime) {
			continue
		}
		if next == nil || b.StartTime.Before(next.StartTime) {
			next = b
		}
	}
	return last, next
}
