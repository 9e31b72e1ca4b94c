package http

import (
	"time"

	"github.com/BDorzho/shareit/internal/booking"
	itemHttp "github.com/BDorzho/shareit/internal/item/http"
	"github.com/BDorzho/shareit/internal/pkg/request"
	userHttp "github.com/BDorzho/shareit/internal/user/http"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	State string `form:"state"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() (booking.State, error) {
	return booking.ParseState(r.State)
}

type BookingResponse struct {
	ID        string           `json:"id"`
	Item      itemHttp.ItemTag `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	StartTime time.Time        `json:"start"`
	EndTime   time.Time        `json:"end"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Item:      itemHttp.ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func NewBookingResponses(bookings []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = NewBookingResponse(b)
	}
	return out
}

// BookingBrief is the short form used inside item views.
type BookingBrief struct {
	ID       string    `json:"id"`
	BookerID string    `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
}

// NewBookingBrief returns nil for a nil booking so absent bookings render as null.
func NewBookingBrief(b *booking.Booking) *BookingBrief {
	if b == nil {
		return nil
	}
	return &BookingBrief{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.StartTime,
		End:      b.EndTime,
		Status:   string(b.Status),
	}
}

type CreateBookingRequest struct {
	ItemID    string     `json:"item_id" binding:"required,uuid"`
	StartTime *time.Time `json:"start" binding:"required"`
	EndTime   *time.Time `json:"end" binding:"required"`
}

// Validate performs custom validation for CreateBookingRequest.
func (r *CreateBookingRequest) Validate() error {
	if !r.EndTime.After(*r.StartTime) {
		return booking.ErrInvalidInterval
	}
	return nil
}

// DecideBookingRequest carries the owner's decision from the query string.
type DecideBookingRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}
