package http

import "github.com/gin-gonic/gin"

// Register mounts the account routes on public and the session routes on
// authed, which must already carry the token middleware.
func (h *Handler) Register(public, authed *gin.RouterGroup, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	a := public.Group("/auth")
	a.POST("/signup", limit, h.Signup)
	a.POST("/login", limit, h.Login)
	a.POST("/login/federated", limit, h.LoginFederated)
	a.POST("/partner-login", limit, h.PartnerLogin)

	authed.POST("/session", h.OpenSession)
	authed.GET("/session", h.GetSession)
	authed.DELETE("/session", h.CloseSession)

	authed.GET("/me", h.GetProfile)
	authed.PUT("/me", h.UpdateProfile)
	authed.GET("/me/stream", h.StreamProfile)
}
