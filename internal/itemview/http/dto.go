package http

import (
	"time"

	bookingHttp "github.com/BDorzho/shareit/internal/booking/http"
	"github.com/BDorzho/shareit/internal/comment"
	itemHttp "github.com/BDorzho/shareit/internal/item/http"
	"github.com/BDorzho/shareit/internal/itemview"
)

type CommentResponse struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created"`
}

func NewCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		CreatedAt:  c.CreatedAt,
	}
}

// ItemViewResponse is an item with its comments and, for the owner, its last and next bookings.
type ItemViewResponse struct {
	itemHttp.ItemResponse
	LastBooking *bookingHttp.BookingBrief `json:"last_booking"`
	NextBooking *bookingHttp.BookingBrief `json:"next_booking"`
	Comments    []CommentResponse         `json:"comments"`
}

func NewItemViewResponse(v *itemview.View) ItemViewResponse {
	comments := make([]CommentResponse, len(v.Comments))
	for i, c := range v.Comments {
		comments[i] = NewCommentResponse(c)
	}
	return ItemViewResponse{
		ItemResponse: itemHttp.NewResponse(v.Item),
		LastBooking:  bookingHttp.NewBookingBrief(v.LastBooking),
		NextBooking:  bookingHttp.NewBookingBrief(v.NextBooking),
		Comments:     comments,
	}
}

type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
