package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
	"github.com/durgapur-services/marketplace-backend/internal/storage/blob"
)

// AccountManager creates and removes identity-provider accounts.
type AccountManager interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
}

type ProviderCreator interface {
	Create(ctx context.Context, d catalogdomain.ProviderDraft) (*catalogdomain.Provider, error)
}

// RoleInvalidator drops a cached role claim.
type RoleInvalidator interface {
	Invalidate(ctx context.Context, uid string) error
}

// Business holds the provider fields entered at registration.
type Business struct {
	Name        string
	Phone       string
	Category    catalogdomain.Category
	SubCategory string
	Price       float64
	Address     string
	Image       []byte // raw upload, optional
}

// RegisterRequest creates a new account together with its business.
type RegisterRequest struct {
	Email    string
	Password string
	Business Business
}

// RegistrationService creates partner accounts and business profiles
type RegistrationService struct {
	accounts    AccountManager
	providers   ProviderCreator
	images      blob.Store
	roles       RoleInvalidator
	bus         realtime.Publisher
	imageLimits blob.ImageLimits
	placeholder string
	now         func() time.Time
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(accounts AccountManager, providers ProviderCreator, images blob.Store, roles RoleInvalidator, bus realtime.Publisher, imageLimits blob.ImageLimits, placeholder string) *RegistrationService {
	return &RegistrationService{
		accounts:    accounts,
		providers:   providers,
		images:      images,
		roles:       roles,
		bus:         bus,
		imageLimits: imageLimits,
		placeholder: placeholder,
		now:         time.Now,
	}
}

// Register creates the account, uploads the photo and inserts the provider.
// When any step after account creation fails the account is deleted again.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*catalogdomain.Provider, error) {
	email := strings.TrimSpace(req.Email)
	uid, err := s.accounts.CreateAccount(ctx, email, req.Password, req.Business.Name)
	if err != nil {
		return nil, err
	}

	p, err := s.RegisterExisting(ctx, uid, email, req.Business)
	if err != nil {
		if delErr := s.accounts.DeleteAccount(context.WithoutCancel(ctx), uid); delErr != nil {
			logger.FromContext(ctx).Error("orphaned partner account", "uid", uid, "error", delErr)
		}
		return nil, err
	}
	return p, nil
}

// RegisterExisting adds a business profile to an existing account.
func (s *RegistrationService) RegisterExisting(ctx context.Context, uid, email string, b Business) (*catalogdomain.Provider, error) {
	image := s.placeholder
	if len(b.Image) > 0 {
		url, err := s.uploadImage(ctx, uid, b.Image)
		if err != nil {
			return nil, err
		}
		image = url
	}

	p, err := s.providers.Create(ctx, catalogdomain.ProviderDraft{
		AdminUID:    uid,
		AdminEmail:  email,
		Name:        strings.TrimSpace(b.Name),
		Phone:       strings.TrimSpace(b.Phone),
		Category:    b.Category,
		SubCategory: strings.TrimSpace(b.SubCategory),
		Price:       b.Price,
		Address:     strings.TrimSpace(b.Address),
		Image:       image,
	})
	if err != nil {
		return nil, err
	}

	if s.roles != nil {
		if err := s.roles.Invalidate(ctx, uid); err != nil {
			logger.FromContext(ctx).Warn("role cache not invalidated", "uid", uid, "error", err)
		}
	}
	logger.FromContext(ctx).Info("partner registered", "uid", uid, "provider_id", p.ID)
	realtime.PublishAll(ctx, s.bus, realtime.KindCreated, p.ID, realtime.TopicProviders, realtime.SessionTopic(uid))
	return p, nil
}

func (s *RegistrationService) uploadImage(ctx context.Context, uid string, raw []byte) (string, error) {
	data, err := blob.Normalize(raw, s.imageLimits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	url, err := s.images.Put(ctx, blob.ProviderImageKey(uid, s.now()), data, blob.ImageContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload provider image: %w", err)
	}
	return url, nil
}
