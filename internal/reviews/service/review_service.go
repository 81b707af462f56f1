package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	authdomain "github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
	"github.com/durgapur-services/marketplace-backend/internal/reviews/domain"
)

type ProviderStore interface {
	GetByID(ctx context.Context, id string) (*catalogdomain.Provider, error)
	RecomputeRating(ctx context.Context, id string) error
}

type BookingChecker interface {
	ExistsForUserProvider(ctx context.Context, userID, providerID string) (bool, error)
}

type ReviewStore interface {
	Create(ctx context.Context, rv *domain.Review) error
	ListByProvider(ctx context.Context, providerID string) ([]domain.Review, error)
}

type UserReader interface {
	GetByUID(ctx context.Context, uid string) (*authdomain.User, error)
}

// SubmitRequest is a review from an authenticated customer.
type SubmitRequest struct {
	ProviderID  string
	UserID      string
	DisplayName string // from the ID token
	Rating      int
	Comment     string
}

// ReviewService handles review submission and listing
type ReviewService struct {
	providers ProviderStore
	bookings  BookingChecker
	reviews   ReviewStore
	users     UserReader
	bus       realtime.Publisher
}

// NewReviewService creates a new ReviewService
func NewReviewService(providers ProviderStore, bookings BookingChecker, reviews ReviewStore, users UserReader, bus realtime.Publisher) *ReviewService {
	return &ReviewService{
		providers: providers,
		bookings:  bookings,
		reviews:   reviews,
		users:     users,
		bus:       bus,
	}
}

// Submit writes a review once the customer has booked the provider. The
// reviewer name is read at this moment and stored with the review.
func (s *ReviewService) Submit(ctx context.Context, req SubmitRequest) (*domain.Review, error) {
	log := logger.FromContext(ctx)

	if err := domain.Validate(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	p, err := s.providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if p.IsOwner(req.UserID) {
		return nil, catalogdomain.ErrOwnerAction
	}

	booked, err := s.bookings.ExistsForUserProvider(ctx, req.UserID, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, domain.ErrNoPriorBooking
	}

	profileName := ""
	user, err := s.users.GetByUID(ctx, req.UserID)
	switch {
	case err == nil:
		profileName = user.Name
	case errors.Is(err, authdomain.ErrUserNotFound):
	default:
		log.Warn("reviewer profile unavailable, using token name", "uid", req.UserID, "error", err)
	}

	rv := &domain.Review{
		ID:         uuid.NewString(),
		ProviderID: req.ProviderID,
		UserID:     req.UserID,
		UserName:   domain.SnapshotName(profileName, req.DisplayName),
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	if err := s.providers.RecomputeRating(ctx, req.ProviderID); err != nil {
		log.Warn("rating not recomputed", "provider_id", req.ProviderID, "error", err)
	}

	realtime.PublishAll(ctx, s.bus, realtime.KindCreated, rv.ID,
		realtime.ReviewsTopic(req.ProviderID), realtime.ProviderTopic(req.ProviderID), realtime.TopicProviders)

	return rv, nil
}

// List returns a provider's reviews, newest first
func (s *ReviewService) List(ctx context.Context, providerID string) ([]domain.Review, error) {
	return s.reviews.ListByProvider(ctx, providerID)
}
