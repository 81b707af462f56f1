package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/durgapur-services/marketplace-backend/internal/booking/domain"
)

const (
	idempotencyPrefix = "booking:idem:"
	processingMarker  = "processing"
)

// IdempotencyStore remembers booking attempts by (user, key). A claim in
// flight lives for pendingTTL so a lost Complete does not pin the key; a
// completed key lives for ttl.
type IdempotencyStore struct {
	client     *redis.Client
	ttl        time.Duration
	pendingTTL time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl, pendingTTL time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl, pendingTTL: pendingTTL}
}

func idempotencyKey(userID, key string) string {
	return idempotencyPrefix + userID + ":" + key
}

// Begin claims key for userID. It returns the order id of a finished
// attempt, or "" when the caller now owns the key. An attempt still in
// flight yields ErrBookingInProgress.
func (s *IdempotencyStore) Begin(ctx context.Context, userID, key string) (string, error) {
	k := idempotencyKey(userID, key)
	ok, err := s.client.SetNX(ctx, k, processingMarker, s.pendingTTL).Result()
	if err != nil {
		return "", fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if ok {
		return "", nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Begin(ctx, userID, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if val == processingMarker {
		return "", domain.ErrBookingInProgress
	}
	return val, nil
}

// Complete records the order created for key.
func (s *IdempotencyStore) Complete(ctx context.Context, userID, key, orderID string) error {
	if err := s.client.Set(ctx, idempotencyKey(userID, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

// Release frees key after a failed attempt so it can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, userID, key string) error {
	return s.client.Del(ctx, idempotencyKey(userID, key)).Err()
}
