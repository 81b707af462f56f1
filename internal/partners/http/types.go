package http

import (
	"context"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/service"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

const ctxProviderID = "provider_id"

// maxImageBytes caps photo uploads before decoding.
const maxImageBytes = 5 << 20

type Console interface {
	Dashboard(ctx context.Context, providerID string) (*service.Dashboard, error)
	Leads(ctx context.Context, providerID string) ([]bookingdomain.Order, error)
	TransitionLead(ctx context.Context, providerID, orderID string, to bookingdomain.OrderStatus) (*bookingdomain.Order, error)
	SaveSettings(ctx context.Context, providerID string, u catalogdomain.ProviderUpdate) (*catalogdomain.Provider, error)
	ToggleStatus(ctx context.Context, providerID string) (*catalogdomain.Provider, error)
	ReplaceImage(ctx context.Context, providerID string, raw []byte) (string, error)
	ExportEarnings(ctx context.Context, providerID string) (*service.EarningsExport, error)
}

type Registration interface {
	Register(ctx context.Context, req service.RegisterRequest) (*catalogdomain.Provider, error)
	RegisterExisting(ctx context.Context, uid, email string, b service.Business) (*catalogdomain.Provider, error)
}

// RoleGate resolves the caller's role without the cache.
type RoleGate interface {
	Revalidate(ctx context.Context, uid string) (domain.Role, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (*realtime.Subscription, error)
}

type Handler struct {
	console      Console
	registration Registration
	roles        RoleGate
	events       Subscriber
}

func New(console Console, registration Registration, roles RoleGate, events Subscriber) *Handler {
	return &Handler{
		console:      console,
		registration: registration,
		roles:        roles,
		events:       events,
	}
}

func providerID(c *gin.Context) string {
	return c.GetString(ctxProviderID)
}

type businessRequest struct {
	Name        string  `json:"name" form:"name" binding:"required,min=2"`
	Phone       string  `json:"phone" form:"phone" binding:"required,phone"`
	Category    string  `json:"category" form:"category" binding:"required,category"`
	SubCategory string  `json:"sub_category" form:"sub_category"`
	Price       float64 `json:"price" form:"price" binding:"gte=0"`
	Address     string  `json:"address" form:"address" binding:"required"`
}

func (r businessRequest) toBusiness() service.Business {
	return service.Business{
		Name:        r.Name,
		Phone:       r.Phone,
		Category:    catalogdomain.Category(r.Category),
		SubCategory: r.SubCategory,
		Price:       r.Price,
		Address:     r.Address,
	}
}

type registerRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	businessRequest
}

// settingsRequest replaces the whole profile, so price must be sent even
// when unchanged; an absent price would otherwise store 0.
type settingsRequest struct {
	Name        string   `json:"name" binding:"required,min=2"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Category    string   `json:"category" binding:"required,category"`
	SubCategory string   `json:"sub_category"`
	Address     string   `json:"address"`
}

type leadRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}
