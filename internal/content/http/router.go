package http

import "github.com/gin-gonic/gin"

// Register registers the content routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/contents", h.CreateContent)
	rg.GET("/contents", h.ListContents)
	rg.GET("/contents/:id", h.GetContent)
	rg.DELETE("/contents/:id", h.DeleteContent)
}
