package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	partnersdomain "github.com/durgapur-services/marketplace-backend/internal/partners/domain"
)

type MockAccounts struct{ mock.Mock }

func (m *MockAccounts) CreateAccount(ctx context.Context, email, password, displayName string) (string, error) {
	args := m.Called(ctx, email, password, displayName)
	return args.String(0), args.Error(1)
}

func (m *MockAccounts) DeleteAccount(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *MockAccounts) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type MockSignIn struct{ mock.Mock }

func (m *MockSignIn) SignInWithPassword(ctx context.Context, email, password string) (*domain.SignInResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignInResult), args.Error(1)
}

func (m *MockSignIn) SignInWithIdp(ctx context.Context, providerID, idToken, accessToken string) (*domain.SignInResult, error) {
	args := m.Called(ctx, providerID, idToken, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignInResult), args.Error(1)
}

type MockUsers struct{ mock.Mock }

func (m *MockUsers) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUsers) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUsers) Upsert(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockRoles struct{ mock.Mock }

func (m *MockRoles) Resolve(ctx context.Context, uid string) (partnersdomain.Role, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(partnersdomain.Role), args.Error(1)
}

func (m *MockRoles) Revalidate(ctx context.Context, uid string) (partnersdomain.Role, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(partnersdomain.Role), args.Error(1)
}

func (m *MockRoles) Invalidate(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

type MockProviderContact struct{ mock.Mock }

func (m *MockProviderContact) UpdateContact(ctx context.Context, id, name, phone string) error {
	return m.Called(ctx, id, name, phone).Error(0)
}

type recordingBus struct {
	mu     sync.Mutex
	topics []string
	kinds  []string
}

func (b *recordingBus) Publish(_ context.Context, topic, kind, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, topic)
	b.kinds = append(b.kinds, kind)
	return nil
}
