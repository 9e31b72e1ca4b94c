package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers item write and search routes. Item reads live with the item view.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	items := g.Group("/items")
	items.Use(authMiddleware)
	{
		items.POST("", h.Create)
		items.GET("/search", h.Search)
		items.PATCH("/:id", h.Update)
		items.POST("/:id/photo", h.UploadPhoto)
	}
}
