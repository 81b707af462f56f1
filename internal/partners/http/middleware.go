package http

import (
	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
)

// RequirePartner re-validates the caller's role on every request and stores
// the owned provider id. Any lookup failure denies access.
func (h *Handler) RequirePartner() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := auth.UserFirebaseUID(c)

		role, err := h.roles.Revalidate(c.Request.Context(), uid)
		if err != nil {
			logger.FromContext(c.Request.Context()).Error("partner gate failed closed", "uid", uid, "error", err)
			c.Error(toAppError(err))
			c.Abort()
			return
		}
		if !role.IsPartner {
			c.Error(toAppError(domain.ErrNotPartner))
			c.Abort()
			return
		}

		c.Set(ctxProviderID, role.ProviderID)
		c.Next()
	}
}
