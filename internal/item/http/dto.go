package http

import (
	"time"

	"github.com/BDorzho/shareit/internal/file"
	"github.com/BDorzho/shareit/internal/item"
	"github.com/BDorzho/shareit/internal/pkg/request"
)

type ItemResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	RequestID   *string   `json:"request_id"`
	PhotoID     *string   `json:"photo_id"`
	PhotoURL    *string   `json:"photo_url"`
	ThumbURL    *string   `json:"thumbnail_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemTag is a brief representation of an item.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewResponse(it *item.Item) ItemResponse {
	resp := ItemResponse{
		ID:          it.ID,
		OwnerID:     it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		PhotoID:     it.PhotoID,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
	if it.PhotoID != nil {
		photo, thumb := file.FileURL(*it.PhotoID), file.ThumbnailURL(*it.PhotoID)
		resp.PhotoURL, resp.ThumbURL = &photo, &thumb
	}
	return resp
}

func NewResponses(items []*item.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewResponse(it)
	}
	return out
}

type CreateRequest struct {
	Name        string  `json:"name" binding:"required,max=256"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

// Validate performs custom validation for CreateRequest.
func (r *CreateRequest) Validate() error {
	return nil
}

type UpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=256"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// Validate performs custom validation for UpdateRequest.
func (r *UpdateRequest) Validate() error {
	if r.Name == nil && r.Description == nil && r.Available == nil {
		return item.ErrNothingToUpdate
	}
	return nil
}

// SearchRequest defines query parameters for GET /items/search.
type SearchRequest struct {
	request.ListParams
	Text string `form:"text"`
}
