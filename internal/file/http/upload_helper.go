package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/file"
	"github.com/BDorzho/shareit/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// FileUploadConfig defines how HandleFileUpload treats one kind of upload.
type FileUploadConfig struct {
	FormFieldName string                                         // default: "file"
	MaxSizeBytes  int64                                          // 0 = no limit
	AllowedTypes  []string                                       // empty = allow all
	AfterUpload   func(ctx context.Context, fileID string) error // attaches the file to its owner entity
}

// HandleFileUpload stores the multipart file and runs the AfterUpload hook.
// A failing hook removes the stored file again.
func (h *Handler) HandleFileUpload(c *gin.Context, config FileUploadConfig) {
	fieldName := config.FormFieldName
	if fieldName == "" {
		fieldName = "file"
	}

	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		response.BadRequest(c, fieldName+" is required", err)
		return
	}
	if config.MaxSizeBytes > 0 && fileHeader.Size > config.MaxSizeBytes {
		response.Error(c, file.ErrTooLarge)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot read "+fieldName, err)
		return
	}
	defer src.Close()

	ctx := c.Request.Context()
	f, err := h.fileService.Upload(ctx, file.UploadInput{
		UserID:       auth.GetUserID(c),
		Filename:     fileHeader.Filename,
		Content:      src,
		MaxSizeBytes: config.MaxSizeBytes,
		AllowedTypes: config.AllowedTypes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if config.AfterUpload != nil {
		if err := config.AfterUpload(ctx, f.ID); err != nil {
			if delErr := h.fileService.Delete(ctx, f.ID); delErr != nil {
				slog.WarnContext(ctx, "rollback of uploaded file failed", "file_id", f.ID, "error", delErr)
			}
			response.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, NewUploadResponse(f))
}

func NewUploadResponse(f *file.File) FileUploadResponse {
	resp := FileUploadResponse{
		FileID: f.ID,
		URL:    file.FileURL(f.ID),
	}
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		resp.ThumbnailURL = &t
	}
	return resp
}
