package service

import (
	"context"
	"fmt"

	bookingdomain "github.com/durgapur-services/marketplace-backend/internal/booking/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
	reviewsdomain "github.com/durgapur-services/marketplace-backend/internal/reviews/domain"
)

type ProviderStore interface {
	GetByID(ctx context.Context, id string) (*catalogdomain.Provider, error)
	Update(ctx context.Context, id string, u catalogdomain.ProviderUpdate) (*catalogdomain.Provider, error)
	SetStatus(ctx context.Context, id string, status catalogdomain.ProviderStatus) (*catalogdomain.Provider, error)
	SetImage(ctx context.Context, id, url string) error
}

type OrderStore interface {
	GetByID(ctx context.Context, id string) (*bookingdomain.Order, error)
	ListByProvider(ctx context.Context, providerID string) ([]bookingdomain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to bookingdomain.OrderStatus) (*bookingdomain.Order, error)
}

type ReviewLister interface {
	ListByProvider(ctx context.Context, providerID string) ([]reviewsdomain.Review, error)
}

type PendingViews interface {
	Pending(ctx context.Context, id string) (int64, error)
}

// UserNameSync writes the display name onto the owner's profile.
type UserNameSync interface {
	UpdateName(ctx context.Context, uid, name string) error
}

// Dashboard is everything the partner console shows.
type Dashboard struct {
	Provider *catalogdomain.Provider `json:"provider"`
	Stats    domain.Stats            `json:"stats"`
	Orders   []bookingdomain.Order   `json:"orders"`
	Reviews  []reviewsdomain.Review  `json:"reviews"`
}

// ConsoleService handles the partner console
type ConsoleService struct {
	providers ProviderStore
	orders    OrderStore
	reviews   ReviewLister
	views     PendingViews
	users     UserNameSync
	images    *RegistrationService
	bus       realtime.Publisher
}

// NewConsoleService creates a new ConsoleService
func NewConsoleService(providers ProviderStore, orders OrderStore, reviews ReviewLister, views PendingViews, users UserNameSync, images *RegistrationService, bus realtime.Publisher) *ConsoleService {
	return &ConsoleService{
		providers: providers,
		orders:    orders,
		reviews:   reviews,
		views:     views,
		users:     users,
		images:    images,
		bus:       bus,
	}
}

// Dashboard loads the provider with its orders, reviews and derived stats.
func (s *ConsoleService) Dashboard(ctx context.Context, providerID string) (*Dashboard, error) {
	p, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	var pending int64
	if s.views != nil {
		if pending, err = s.views.Pending(ctx, providerID); err != nil {
			logger.FromContext(ctx).Warn("pending views unavailable", "provider_id", providerID, "error", err)
			pending = 0
		}
	}

	return &Dashboard{
		Provider: p,
		Stats:    domain.ComputeStats(p, orders, reviews, pending),
		Orders:   orders,
		Reviews:  reviews,
	}, nil
}

// Leads returns the provider's orders, newest first.
func (s *ConsoleService) Leads(ctx context.Context, providerID string) ([]bookingdomain.Order, error) {
	return s.orders.ListByProvider(ctx, providerID)
}

// TransitionLead moves an order of providerID one step forward along
// Paid -> Accepted -> Completed.
func (s *ConsoleService) TransitionLead(ctx context.Context, providerID, orderID string, to bookingdomain.OrderStatus) (*bookingdomain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ProviderID != providerID {
		return nil, bookingdomain.ErrOrderNotOwned
	}
	if !bookingdomain.CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", bookingdomain.ErrInvalidTransition, o.Status, to)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, o.Status, to)
	if err != nil {
		return nil, err
	}

	realtime.PublishAll(ctx, s.bus, realtime.KindUpdated, orderID,
		realtime.ProviderOrdersTopic(providerID), realtime.UserOrdersTopic(o.UserID))
	return updated, nil
}

// SaveSettings updates the provider and then copies the name onto the
// owner's profile. The two writes are not atomic; a failed name sync is
// returned after the provider is already saved.
func (s *ConsoleService) SaveSettings(ctx context.Context, providerID string, u catalogdomain.ProviderUpdate) (*catalogdomain.Provider, error) {
	p, err := s.providers.Update(ctx, providerID, u)
	if err != nil {
		return nil, err
	}
	realtime.PublishAll(ctx, s.bus, realtime.KindUpdated, p.ID, realtime.TopicProviders, realtime.ProviderTopic(p.ID))

	if err := s.users.UpdateName(ctx, p.AdminUID, p.Name); err != nil {
		return p, fmt.Errorf("failed to sync profile name: %w", err)
	}
	realtime.PublishAll(ctx, s.bus, realtime.KindUpdated, p.AdminUID, realtime.UserTopic(p.AdminUID))
	return p, nil
}

// ToggleStatus flips the provider between online and offline.
func (s *ConsoleService) ToggleStatus(ctx context.Context, providerID string) (*catalogdomain.Provider, error) {
	current, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	p, err := s.providers.SetStatus(ctx, providerID, current.Status.Toggle())
	if err != nil {
		return nil, err
	}
	realtime.PublishAll(ctx, s.bus, realtime.KindUpdated, p.ID, realtime.TopicProviders, realtime.ProviderTopic(p.ID))
	return p, nil
}

// ReplaceImage normalises and uploads a new provider photo.
func (s *ConsoleService) ReplaceImage(ctx context.Context, providerID string, raw []byte) (string, error) {
	p, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return "", err
	}
	url, err := s.images.uploadImage(ctx, p.AdminUID, raw)
	if err != nil {
		return "", err
	}
	if err := s.providers.SetImage(ctx, providerID, url); err != nil {
		return "", err
	}
	realtime.PublishAll(ctx, s.bus, realtime.KindUpdated, providerID, realtime.TopicProviders, realtime.ProviderTopic(providerID))
	return url, nil
}
