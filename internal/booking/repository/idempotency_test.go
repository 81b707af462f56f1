package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/durgapur-services/marketplace-backend/internal/booking/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestIdempotencyStore_Lifecycle(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewIdempotencyStore(client, time.Hour, time.Minute)
	ctx := context.Background()

	orderID, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.Empty(t, orderID)
	assert.Equal(t, time.Minute, mr.TTL("booking:idem:u1:k1"))

	_, err = store.Begin(ctx, "u1", "k1")
	assert.ErrorIs(t, err, domain.ErrBookingInProgress)

	// other users do not share keys
	orderID, err = store.Begin(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.Empty(t, orderID)

	require.NoError(t, store.Complete(ctx, "u1", "k1", "o1"))
	orderID, err = store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.Equal(t, "o1", orderID)

	assert.Equal(t, time.Hour, mr.TTL("booking:idem:u1:k1"))
}

func TestIdempotencyStore_ReleaseAllowsRetry(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewIdempotencyStore(client, time.Hour, time.Minute)
	ctx := context.Background()

	_, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "u1", "k1"))

	orderID, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.Empty(t, orderID)
}

func TestIdempotencyStore_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewIdempotencyStore(client, 24*time.Hour, time.Minute)
	ctx := context.Background()

	// an abandoned claim frees up after the pending window, not the full day
	_, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	orderID, err := store.Begin(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.Empty(t, orderID)
}
