package service

import (
	"context"

	"github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/contact"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
)

// ProviderReader is the read side of the provider repository.
type ProviderReader interface {
	List(ctx context.Context, category domain.Category) ([]domain.Provider, error)
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
}

// ViewCounter buffers detail-page views.
type ViewCounter interface {
	Incr(ctx context.Context, id string) error
}

// CatalogService handles provider search and detail lookups
type CatalogService struct {
	providers ProviderReader
	views     ViewCounter
	city      string
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(providers ProviderReader, views ViewCounter, city string) *CatalogService {
	return &CatalogService{
		providers: providers,
		views:     views,
		city:      city,
	}
}

// Categories lists the service categories
func (s *CatalogService) Categories() []domain.Category {
	return domain.Categories
}

// Search filters by category in the store and by free text in process.
func (s *CatalogService) Search(ctx context.Context, category, q string) ([]domain.Provider, error) {
	filter, err := domain.ParseFilter(category)
	if err != nil {
		return nil, err
	}

	providers, err := s.providers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.Filter(providers, q), nil
}

// Detail fetches one provider and counts the view. A failed count is
// logged and does not fail the lookup.
func (s *CatalogService) Detail(ctx context.Context, id string) (*domain.Provider, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.views != nil {
		if err := s.views.Incr(ctx, id); err != nil {
			logger.FromContext(ctx).Warn("view not counted", "provider_id", id, "error", err)
		}
	}
	return p, nil
}

// Contact builds the deep links for provider id. Owners cannot message
// themselves.
func (s *CatalogService) Contact(ctx context.Context, id, callerUID string) (*contact.Links, error) {
	p, err := s.providers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsOwner(callerUID) {
		return nil, domain.ErrOwnerAction
	}

	wa, err := contact.WhatsAppURL(p.Phone, p.Name, string(p.Category))
	if err != nil {
		return nil, domain.ErrNoPhone
	}
	return &contact.Links{
		WhatsAppURL: wa,
		MapsURL:     contact.MapsURL(p.Address, s.city),
	}, nil
}
