package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers booking routes. createGuards run before Create only (rate limiting).
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc, createGuards ...gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", append(createGuards, h.Create)...)
		bookings.GET("", h.ListMine)
		bookings.GET("/owner", h.ListOwned)
		bookings.GET("/:id", h.Get)
		bookings.PATCH("/:id", h.Decide)
	}
}
