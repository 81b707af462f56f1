package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// ListProviders returns providers by ?category= narrowed by ?q=
func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.catalog.Search(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"providers": providers, "count": len(providers)})
}

// StreamProviders pushes the filtered list after every provider change
func (h *Handler) StreamProviders(c *gin.Context) {
	category, q := c.Query("category"), c.Query("q")

	// reject an unknown category before switching to event-stream
	if _, err := h.catalog.Search(c.Request.Context(), category, q); err != nil {
		c.Error(toAppError(err))
		return
	}

	topics := []string{realtime.TopicProviders}
	closeTopic := ""
	if uid := auth.UserFirebaseUID(c); uid != "" {
		closeTopic = realtime.SessionTopic(uid)
		topics = append(topics, closeTopic)
	}

	sub, err := h.events.Subscribe(c.Request.Context(), topics...)
	if err != nil {
		c.Error(toAppError(err))
		return
	}
	defer sub.Close()

	realtime.Stream(c, sub, func(ctx context.Context) (any, error) {
		providers, err := h.catalog.Search(ctx, category, q)
		if err != nil {
			return nil, err
		}
		return gin.H{"providers": providers, "count": len(providers)}, nil
	}, closeTopic)
}

// GetProvider returns one provider and counts the view
func (h *Handler) GetProvider(c *gin.Context) {
	p, err := h.catalog.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	uid := auth.UserFirebaseUID(c)
	c.JSON(http.StatusOK, detailResponse{
		Provider: p,
		IsOwner:  p.IsOwner(uid),
		CanBook:  p.CanBook(uid),
	})
}

// GetContact returns the WhatsApp and Maps links of a provider
func (h *Handler) GetContact(c *gin.Context) {
	links, err := h.catalog.Contact(c.Request.Context(), c.Param("id"), auth.UserFirebaseUID(c))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, contactResponse{WhatsAppURL: links.WhatsAppURL, MapsURL: links.MapsURL})
}
