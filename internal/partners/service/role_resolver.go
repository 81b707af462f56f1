package service

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/durgapur-services/marketplace-backend/internal/catalog/domain"
	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
	"github.com/durgapur-services/marketplace-backend/internal/platform/logger"
)

type OwnerLookup interface {
	GetByAdminUID(ctx context.Context, uid string) (*catalogdomain.Provider, error)
}

type RoleCache interface {
	Get(ctx context.Context, uid string) (domain.Role, bool, error)
	Set(ctx context.Context, uid string, role domain.Role) error
	Delete(ctx context.Context, uid string) error
}

// RoleResolver decides whether a principal is a partner: one owning a
// provider. Results are cached per principal.
type RoleResolver struct {
	providers OwnerLookup
	cache     RoleCache
}

// NewRoleResolver creates a new RoleResolver. cache may be nil.
func NewRoleResolver(providers OwnerLookup, cache RoleCache) *RoleResolver {
	return &RoleResolver{providers: providers, cache: cache}
}

// Resolve returns the cached role, resolving it on a miss. Store failures
// return ErrRoleUnavailable; callers choose whether to fail open or closed.
func (r *RoleResolver) Resolve(ctx context.Context, uid string) (domain.Role, error) {
	if r.cache != nil {
		role, found, err := r.cache.Get(ctx, uid)
		if err != nil {
			logger.FromContext(ctx).Warn("role cache read failed", "uid", uid, "error", err)
		} else if found {
			return role, nil
		}
	}
	return r.Revalidate(ctx, uid)
}

// Revalidate resolves the role from the provider store, bypassing and then
// refreshing the cache.
func (r *RoleResolver) Revalidate(ctx context.Context, uid string) (domain.Role, error) {
	var role domain.Role

	p, err := r.providers.GetByAdminUID(ctx, uid)
	switch {
	case err == nil:
		role = domain.Role{IsPartner: true, ProviderID: p.ID}
	case errors.Is(err, catalogdomain.ErrProviderNotFound):
		role = domain.Role{}
	default:
		return domain.Role{}, fmt.Errorf("%w: %v", domain.ErrRoleUnavailable, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, uid, role); err != nil {
			logger.FromContext(ctx).Warn("role cache write failed", "uid", uid, "error", err)
		}
	}
	return role, nil
}

// Invalidate drops the cached role of uid.
func (r *RoleResolver) Invalidate(ctx context.Context, uid string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Delete(ctx, uid)
}
