package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/durgapur-services/marketplace-backend/internal/auth"
	"github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	"github.com/durgapur-services/marketplace-backend/internal/booking/service"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/apperror"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type Booking interface {
	Book(ctx context.Context, req service.BookRequest) (*service.BookResult, error)
	OrderHistory(ctx context.Context, userID string) ([]domain.Order, float64, error)
}

type Handler struct {
	booking Booking
}

func New(booking Booking) *Handler {
	return &Handler{booking: booking}
}

// Register mounts the booking routes on an authenticated group.
func (h *Handler) Register(authed *gin.RouterGroup, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	authed.POST("/providers/:id/bookings", limit, h.Book)
	authed.GET("/me/orders", h.ListMyOrders)
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, catalogdomain.ErrProviderNotFound):
		return apperror.New(http.StatusNotFound, "Provider not found", err)
	case errors.Is(err, catalogdomain.ErrOwnerAction):
		return apperror.New(http.StatusForbidden, "You cannot book your own service.", err)
	case errors.Is(err, catalogdomain.ErrProviderOffline):
		return apperror.New(http.StatusConflict, "This provider is currently offline.", err)
	case errors.Is(err, domain.ErrBookingInProgress):
		return apperror.New(http.StatusConflict, "This booking is already being processed.", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperror.New(http.StatusServiceUnavailable, "Payment was interrupted. Please try again.", err).
			With("state", domain.CheckoutInput)
	default:
		return apperror.New(http.StatusInternalServerError, "Booking failed. Please try again.", err).
			With("state", domain.CheckoutInput)
	}
}

// Book confirms a checkout for the provider
func (h *Handler) Book(c *gin.Context) {
	p, _ := auth.PrincipalFrom(c)

	res, err := h.booking.Book(c.Request.Context(), service.BookRequest{
		ProviderID:     c.Param("id"),
		UserID:         p.UID,
		UserEmail:      p.Email,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)),
	})
	if err != nil {
		c.Error(toAppError(err))
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// ListMyOrders returns the caller's order history
func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, total, err := h.booking.OrderHistory(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total_spent": total, "count": len(orders)})
}
