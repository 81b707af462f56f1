package http

import "github.com/gin-gonic/gin"

// Register mounts the catalog routes. rg should carry the optional token
// middleware so owner flags can be computed.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
	rg.GET("/providers", h.ListProviders)
	rg.GET("/providers/stream", h.StreamProviders)
	rg.GET("/providers/:id", h.GetProvider)
	rg.GET("/providers/:id/contact", h.GetContact)
}
