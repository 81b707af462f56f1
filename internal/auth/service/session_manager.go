package service

import (
	"context"
	"errors"
	"strings"

	"github.com/durgapur-services/marketplace-backend/internal/auth/domain"
	partnersdomain "github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
	"github.com/durgapur-services/marketplace-backend/internal/realtime"
)

type UserStore interface {
	GetByUID(ctx context.Context, uid string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}

type RoleSource interface {
	Resolve(ctx context.Context, uid string) (partnersdomain.Role, error)
	Invalidate(ctx context.Context, uid string) error
}

type TokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// ProviderContact receives profile name and phone changes of a partner.
type ProviderContact interface {
	UpdateContact(ctx context.Context, id, name, phone string) error
}

// SessionManager owns the per-principal session: profile, cached role and
// the auth-state events that end live streams on logout.
type SessionManager struct {
	users     UserStore
	roles     RoleSource
	revoker   TokenRevoker
	providers ProviderContact
	bus       realtime.Publisher
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(users UserStore, roles RoleSource, revoker TokenRevoker, providers ProviderContact, bus realtime.Publisher) *SessionManager {
	return &SessionManager{
		users:     users,
		roles:     roles,
		revoker:   revoker,
		providers: providers,
		bus:       bus,
	}
}

// Open resolves the profile and role for p and announces the session.
func (m *SessionManager) Open(ctx context.Context, p domain.Principal) (*domain.Session, error) {
	s, err := m.Current(ctx, p)
	if err != nil {
		return nil, err
	}
	realtime.PublishAll(ctx, m.bus, realtime.KindOpened, p.UID, realtime.SessionTopic(p.UID))
	return s, nil
}

// Current returns the session snapshot. A role lookup failure degrades to
// the customer role instead of failing the snapshot.
func (m *SessionManager) Current(ctx context.Context, p domain.Principal) (*domain.Session, error) {
	user, transient, err := m.Profile(ctx, p)
	if err != nil {
		return nil, err
	}

	s := &domain.Session{
		Principal: p,
		User:      *user,
		Transient: transient,
		Role:      domain.RoleCustomer,
	}

	role, err := m.roles.Resolve(ctx, p.UID)
	if err != nil {
		logger.FromContext(ctx).Warn("role unavailable, showing customer view", "uid", p.UID, "error", err)
		s.RoleDegraded = true
		return s, nil
	}
	if role.IsPartner {
		s.Role = domain.RolePartner
		s.ProviderID = role.ProviderID
	}
	return s, nil
}

// Close revokes the principal's refresh tokens, drops the cached role and
// publishes the closed event.
func (m *SessionManager) Close(ctx context.Context, uid string) error {
	if m.revoker != nil {
		if err := m.revoker.RevokeRefreshTokens(ctx, uid); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
	}
	if err := m.roles.Invalidate(ctx, uid); err != nil {
		logger.FromContext(ctx).Warn("role cache not cleared on logout", "uid", uid, "error", err)
	}
	realtime.PublishAll(ctx, m.bus, realtime.KindClosed, uid, realtime.SessionTopic(uid))
	return nil
}

// Profile returns the stored user, or a transient one synthesised from the
// token when no row exists yet.
func (m *SessionManager) Profile(ctx context.Context, p domain.Principal) (*domain.User, bool, error) {
	user, err := m.users.GetByUID(ctx, p.UID)
	if errors.Is(err, domain.ErrUserNotFound) {
		u := domain.TransientUser(p)
		return &u, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

// UpdateProfile merges u into the user row, creating it when the profile
// was transient, and copies name and phone onto the partner's provider.
func (m *SessionManager) UpdateProfile(ctx context.Context, p domain.Principal, u domain.ProfileUpdate) (*domain.User, error) {
	current, transient, err := m.Profile(ctx, p)
	if err != nil {
		return nil, err
	}

	user := &domain.User{UID: p.UID, Email: p.Email}
	if u.Name != nil {
		user.Name = strings.TrimSpace(*u.Name)
	}
	if u.Phone != nil {
		user.Phone = strings.TrimSpace(*u.Phone)
	}
	if transient && user.Name == "" {
		user.Name = current.Name
	}

	if err := m.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	realtime.PublishAll(ctx, m.bus, realtime.KindUpdated, p.UID, realtime.UserTopic(p.UID))

	m.syncProvider(ctx, p.UID, user.Name, user.Phone)
	return user, nil
}

func (m *SessionManager) syncProvider(ctx context.Context, uid, name, phone string) {
	if m.providers == nil {
		return
	}
	role, err := m.roles.Resolve(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Warn("provider contact not synced", "uid", uid, "error", err)
		return
	}
	if !role.IsPartner {
		return
	}
	if err := m.providers.UpdateContact(ctx, role.ProviderID, name, phone); err != nil {
		logger.FromContext(ctx).Warn("provider contact not synced", "uid", uid, "provider_id", role.ProviderID, "error", err)
		return
	}
	realtime.PublishAll(ctx, m.bus, realtime.KindUpdated, role.ProviderID, realtime.TopicProviders, realtime.ProviderTopic(role.ProviderID))
}
