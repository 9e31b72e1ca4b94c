package http

import (
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/BDorzho/shareit/internal/file"
	"github.com/BDorzho/shareit/internal/pkg/request"
	"github.com/BDorzho/shareit/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	fileService file.Service
}

func NewHandler(fileService file.Service) *Handler {
	return &Handler{
		fileService: fileService,
	}
}

func inline(filename string) string {
	return mime.FormatMediaType("inline", map[string]string{"filename": filename})
}

// ServeFile streams the original upload.
func (h *Handler) ServeFile(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, info, err := h.fileService.Download(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", info.ContentType)
	c.Header("Content-Disposition", inline(info.Filename))
	h.stream(c, uri.ID, stream)
}

// ServeThumbnail streams the JPEG thumbnail of an image upload.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	stream, info, err := h.fileService.DownloadThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", inline(info.Filename+"_thumb.jpg"))
	h.stream(c, uri.ID, stream)
}

func (h *Handler) stream(c *gin.Context, fileID string, r io.Reader) {
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		// headers are already sent
		slog.WarnContext(c.Request.Context(), "file stream interrupted", "file_id", fileID, "error", err)
	}
}
