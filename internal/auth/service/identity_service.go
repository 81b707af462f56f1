package service

import (
	"context"
	"errors"
	"strings"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	partnersdomain "github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
)

type AccountManager interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
}

// SignIn is implemented by the identity toolkit client.
type SignIn interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.SignInResult, error)
	SignInWithIdp(ctx context.Context, providerID, idToken, accessToken string) (*domain.SignInResult, error)
}

type UserCreator interface {
	Create(ctx context.Context, user *domain.User) error
}

type RoleRevalidator interface {
	Revalidate(ctx context.Context, uid string) (partnersdomain.Role, error)
}

// SignupRequest holds the customer signup fields
type SignupRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// IdentityService handles account creation and sign-in
type IdentityService struct {
	accounts AccountManager
	signIn   SignIn
	users    UserCreator
	roles    RoleRevalidator
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(accounts AccountManager, signIn SignIn, users UserCreator, roles RoleRevalidator) *IdentityService {
	return &IdentityService{
		accounts: accounts,
		signIn:   signIn,
		users:    users,
		roles:    roles,
	}
}

// Signup creates the Firebase account and its profile row. The account is
// deleted again when the row cannot be written.
func (s *IdentityService) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	uid, err := s.accounts.CreateAccount(ctx, email, req.Password, name)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UID:   uid,
		Name:  name,
		Email: email,
		Phone: strings.TrimSpace(req.Phone),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if delErr := s.accounts.DeleteAccount(context.WithoutCancel(ctx), uid); delErr != nil {
			logger.FromContext(ctx).Error("orphaned account after signup failure", "uid", uid, "error", delErr)
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("user signed up", "uid", uid)
	return user, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	return s.signIn.SignInWithPassword(ctx, strings.TrimSpace(email), password)
}

func (s *IdentityService) LoginFederated(ctx context.Context, providerID, idToken, accessToken string) (*domain.SignInResult, error) {
	if providerID == "" {
		providerID = "google.com"
	}
	return s.signIn.SignInWithIdp(ctx, providerID, idToken, accessToken)
}

// PartnerLogin signs in and then requires the account to own a provider.
// The role is resolved fresh, never from cache.
func (s *IdentityService) PartnerLogin(ctx context.Context, email, password string) (*domain.SignInResult, partnersdomain.Role, error) {
	res, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, partnersdomain.Role{}, err
	}

	role, err := s.roles.Revalidate(ctx, res.UID)
	if err != nil {
		return nil, partnersdomain.Role{}, err
	}
	if !role.IsPartner {
		return nil, role, partnersdomain.ErrNotPartner
	}
	return res, role, nil
}

// IsCredentialError reports whether err is a rejected sign-in.
func IsCredentialError(err error) bool {
	return errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrFederatedLogin)
}
