package http

import "github.com/gin-gonic/gin"

// Register mounts partner onboarding and the partner console. Every console
// route sits behind RequirePartner.
func (h *Handler) Register(public, authed *gin.RouterGroup, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	public.POST("/partners/register", limit, h.RegisterAccount)
	authed.POST("/partners", limit, h.RegisterExisting)

	partner := authed.Group("/partner", h.RequirePartner())
	{
		partner.GET("/dashboard", h.GetDashboard)
		partner.GET("/ws", h.ConsoleSocket)
		partner.GET("/leads", h.ListLeads)
		partner.PATCH("/leads/:orderId", limit, h.UpdateLead)
		partner.PUT("/settings", limit, h.UpdateSettings)
		partner.POST("/status/toggle", limit, h.ToggleStatus)
		partner.POST("/image", limit, h.UploadImage)
		partner.GET("/earnings.xlsx", h.DownloadEarnings)
	}
}
