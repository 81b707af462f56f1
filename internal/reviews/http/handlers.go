package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/auth"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
	"github.com/durgapur-services/marketplace-backend/internal/platform/validation"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
	"github.com/durgapur-services/marketplace-backend/internal/reviews/domain"
	"github.com/durgapur-services/marketplace-backend/internal/reviews/service"
)

type Reviews interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*domain.Review, error)
	List(ctx context.Context, providerID string) ([]domain.Review, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (*realtime.Subscription, error)
}

type Handler struct {
	reviews Reviews
	events  Subscriber
}

func New(reviews Reviews, events Subscriber) *Handler {
	return &Handler{reviews: reviews, events: events}
}

type submitRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Register mounts the public listing routes on public and submission on
// authed.
func (h *Handler) Register(public, authed *gin.RouterGroup, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	public.GET("/providers/:id/reviews", h.List)
	public.GET("/providers/:id/reviews/stream", h.Stream)
	authed.POST("/providers/:id/reviews", limit, h.Submit)
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyComment):
		return apperror.New(http.StatusBadRequest, "Please write a comment", err)
	case errors.Is(err, domain.ErrInvalidRating):
		return apperror.New(http.StatusBadRequest, "Rating must be between 1 and 5", err)
	case errors.Is(err, domain.ErrNoPriorBooking):
		return apperror.New(http.StatusForbidden, "You must book this service before leaving a review.", err)
	case errors.Is(err, catalogdomain.ErrOwnerAction):
		return apperror.New(http.StatusForbidden, "You cannot review your own service.", err)
	case errors.Is(err, catalogdomain.ErrProviderNotFound):
		return apperror.New(http.StatusNotFound, "Provider not found", err)
	default:
		return apperror.Internal(err)
	}
}

// Submit posts a review for the provider
func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(validation.BindError(err))
		return
	}

	p, _ := auth.PrincipalFrom(c)
	review, err := h.reviews.Submit(c.Request.Context(), service.SubmitRequest{
		ProviderID:  c.Param("id"),
		UserID:      p.UID,
		DisplayName: p.DisplayName,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// List returns the provider's reviews, newest first
func (h *Handler) List(c *gin.Context) {
	reviews, err := h.reviews.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// Stream pushes the review list after each new review
func (h *Handler) Stream(c *gin.Context) {
	providerID := c.Param("id")

	topics := []string{realtime.ReviewsTopic(providerID)}
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
		reviews, err := h.reviews.List(ctx, providerID)
		if err != nil {
			return nil, err
		}
		return gin.H{"reviews": reviews, "count": len(reviews)}, nil
	}, closeTopic)
}
