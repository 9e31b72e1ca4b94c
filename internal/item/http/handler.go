package http

import (
	"context"
	"net/http"

	"github.com/BDorzho/shareit/internal/auth"
	filehttp "github.com/BDorzho/shareit/internal/file/http"
	"github.com/BDorzho/shareit/internal/item"
	"github.com/BDorzho/shareit/internal/pkg/request"
	"github.com/BDorzho/shareit/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

var photoTypes = []string{"image/jpeg", "image/png", "image/gif"}

type Handler struct {
	service       item.Service
	fileHandler   *filehttp.Handler
	maxPhotoBytes int64
}

func NewHandler(service item.Service, fileHandler *filehttp.Handler, maxPhotoBytes int64) *Handler {
	return &Handler{
		service:       service,
		fileHandler:   fileHandler,
		maxPhotoBytes: maxPhotoBytes,
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	it, err := h.service.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(it))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	it, err := h.service.Update(c.Request.Context(), auth.GetUserID(c), uri.ID, item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(it))
}

// Search lists available items whose name or description contains the text.
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.Search(c.Request.Context(), req.Text, req.From, req.Size)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewResponses(items), req.From, req.Size, total))
}

// UploadPhoto replaces the item's photo. Only the owner may upload.
func (h *Handler) UploadPhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	actorID := auth.GetUserID(c)
	it, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !auth.OwnerDecision(actorID, it.OwnerID).Allowed() {
		response.Error(c, item.ErrNotOwner)
		return
	}

	h.fileHandler.HandleFileUpload(c, filehttp.FileUploadConfig{
		MaxSizeBytes: h.maxPhotoBytes,
		AllowedTypes: photoTypes,
		AfterUpload: func(ctx context.Context, fileID string) error {
			return h.service.SetPhoto(ctx, actorID, it.ID, fileID)
		},
	})
}
