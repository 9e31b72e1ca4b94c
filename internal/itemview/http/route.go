package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	items := g.Group("/items")
	items.Use(authMiddleware)
	{
		items.GET("", h.ListOwned)
		items.GET("/:id", h.Get)
		items.POST("/:id/comment", h.AddComment)
	}
}
