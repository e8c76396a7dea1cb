package http

import "github.com/gin-gonic/gin"

// Register registers the recommendation routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.Generate)
	rg.GET("/recommendations", h.List)
}
