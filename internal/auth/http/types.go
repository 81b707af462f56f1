package http

import (
	"context"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	"github.com/durgapur-services/marketplace-backend/internal/auth/service"
	partnersdomain "github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

type Identity interface {
	Signup(ctx context.Context, req service.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.SignInResult, error)
	LoginFederated(ctx context.Context, providerID, idToken, accessToken string) (*domain.SignInResult, error)
	PartnerLogin(ctx context.Context, email, password string) (*domain.SignInResult, partnersdomain.Role, error)
}

type Sessions interface {
	Open(ctx context.Context, p domain.Principal) (*domain.Session, error)
	Current(ctx context.Context, p domain.Principal) (*domain.Session, error)
	Close(ctx context.Context, uid string) error
	Profile(ctx context.Context, p domain.Principal) (*domain.User, bool, error)
	UpdateProfile(ctx context.Context, p domain.Principal, u domain.ProfileUpdate) (*domain.User, error)
}

// Subscriber is implemented by realtime.Bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topics ...string) (*realtime.Subscription, error)
}

type Handler struct {
	identity Identity
	sessions Sessions
	events   Subscriber
}

func New(identity Identity, sessions Sessions, events Subscriber) *Handler {
	return &Handler{
		identity: identity,
		sessions: sessions,
		events:   events,
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,phone"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type federatedLoginRequest struct {
	ProviderID  string `json:"provider_id"`
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
}

type profileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2"`
	Phone *string `json:"phone" binding:"omitempty,phone"`
}
