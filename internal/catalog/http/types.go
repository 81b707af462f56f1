package http

import (
	"context"

	"github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/contact"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

type Catalog interface {
	Categories() []domain.Category
	Search(ctx context.Context, category, q string) ([]domain.Provider, error)
	Detail(ctx context.Context, id string) (*domain.Provider, error)
	Contact(ctx context.Context, id, callerUID string) (*contact.Links, error)
}

type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (*realtime.Subscription, error)
}

type Handler struct {
	catalog Catalog
	events  Subscriber
}

func New(catalog Catalog, events Subscriber) *Handler {
	return &Handler{catalog: catalog, events: events}
}

type detailResponse struct {
	Provider *domain.Provider `json:"provider"`
	IsOwner  bool             `json:"is_owner"`
	CanBook  bool             `json:"can_book"`
}

type contactResponse struct {
	WhatsAppURL string `json:"whatsapp_url"`
	MapsURL     string `json:"maps_url"`
}
