package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/validation"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
	}
	return p, ok
}

// OpenSession starts the caller's session
func (h *Handler) OpenSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	s, err := h.sessions.Open(c.Request.Context(), p)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, s)
}

// GetSession returns the current session snapshot
func (h *Handler) GetSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	s, err := h.sessions.Current(c.Request.Context(), p)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, s)
}

// CloseSession logs the caller out everywhere
func (h *Handler) CloseSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.sessions.Close(c.Request.Context(), p.UID); err != nil {
		c.Error(toAppError(err))
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, transient, err := h.sessions.Profile(c.Request.Context(), p)
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "transient": transient})
}

// UpdateProfile merges name and phone into the profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}

	user, err := h.sessions.UpdateProfile(c.Request.Context(), p, domain.ProfileUpdate{Name: req.Name, Phone: req.Phone})
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// StreamProfile pushes the profile on every change until logout
func (h *Handler) StreamProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	sessionTopic := realtime.SessionTopic(p.UID)
	sub, err := h.events.Subscribe(c.Request.Context(), realtime.UserTopic(p.UID), sessionTopic)
	if err != nil {
		c.Error(toAppError(err))
		return
	}
	defer sub.Close()

	realtime.Stream(c, sub, func(ctx context.Context) (any, error) {
		user, transient, err := h.sessions.Profile(ctx, p)
		if err != nil {
			return nil, err
		}
		return gin.H{"user": user, "transient": transient}, nil
	}, sessionTopic)
}
