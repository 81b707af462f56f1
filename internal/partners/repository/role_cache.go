package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/durgapur-services/marketplace-backend/internal/partners/domain"
)

const roleKeyPrefix = "session:role:"

// RoleCache holds resolved role claims per principal.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{client: client, ttl: ttl}
}

// Get returns the cached role and whether one was found.
func (c *RoleCache) Get(ctx context.Context, uid string) (domain.Role, bool, error) {
	raw, err := c.client.Get(ctx, roleKeyPrefix+uid).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Role{}, false, nil
	}
	if err != nil {
		return domain.Role{}, false, fmt.Errorf("failed to read cached role: %w", err)
	}

	var role domain.Role
	if err := json.Unmarshal(raw, &role); err != nil {
		return domain.Role{}, false, nil
	}
	return role, true, nil
}

func (c *RoleCache) Set(ctx context.Context, uid string, role domain.Role) error {
	data, err := json.Marshal(role)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, roleKeyPrefix+uid, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache role: %w", err)
	}
	return nil
}

func (c *RoleCache) Delete(ctx context.Context, uid string) error {
	return c.client.Del(ctx, roleKeyPrefix+uid).Err()
}
