package http

import (
	"time"

	itemHttp "github.com/BDorzho/shareit/internal/item/http"
	"github.com/BDorzho/shareit/internal/itemrequest"
)

type ItemRequestResponse struct {
	ID          string                  `json:"id"`
	RequesterID string                  `json:"requester_id"`
	Description string                  `json:"description"`
	CreatedAt   time.Time               `json:"created"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewResponse(r *itemrequest.ItemRequest) ItemRequestResponse {
	return ItemRequestResponse{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		Items:       itemHttp.NewResponses(r.Items),
	}
}

func NewResponses(list []*itemrequest.ItemRequest) []ItemRequestResponse {
	out := make([]ItemRequestResponse, len(list))
	for i, r := range list {
		out[i] = NewResponse(r)
	}
	return out
}

type CreateRequest struct {
	Description string `json:"description" binding:"required"`
}
