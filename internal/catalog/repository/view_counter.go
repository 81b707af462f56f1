package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	viewKeyPrefix = "providers:views:"      // buffered count per provider
	viewDirtyKey  = "providers:views:dirty" // set of provider ids with buffered views
)

// ViewCounter buffers provider detail views in Redis until Drain moves
// them into Postgres.
type ViewCounter struct {
	client *redis.Client
}

func NewViewCounter(client *redis.Client) *ViewCounter {
	return &ViewCounter{client: client}
}

// Incr records one view of provider id.
func (v *ViewCounter) Incr(ctx context.Context, id string) error {
	_, err := v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, viewKeyPrefix+id)
		pipe.SAdd(ctx, viewDirtyKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to count view: %w", err)
	}
	return nil
}

// Pending returns the buffered, not yet flushed views of id.
func (v *ViewCounter) Pending(ctx context.Context, id string) (int64, error) {
	n, err := v.client.Get(ctx, viewKeyPrefix+id).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read pending views: %w", err)
	}
	return n, nil
}

// Drain removes and returns every buffered count. An id is dropped from the
// dirty set before its counter is read, so a concurrent Incr re-marks it.
func (v *ViewCounter) Drain(ctx context.Context) (map[string]int64, error) {
	ids, err := v.client.SMembers(ctx, viewDirtyKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list dirty counters: %w", err)
	}

	out := make(map[string]int64, len(ids))
	for _, id := range ids {
		if err := v.client.SRem(ctx, viewDirtyKey, id).Err(); err != nil {
			return out, fmt.Errorf("failed to unmark %s: %w", id, err)
		}
		raw, err := v.client.GetDel(ctx, viewKeyPrefix+id).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("failed to drain %s: %w", id, err)
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		out[id] = n
	}
	return out, nil
}

// Restore puts n views back after a failed flush.
func (v *ViewCounter) Restore(ctx context.Context, id string, n int64) error {
	_, err := v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, viewKeyPrefix+id, n)
		pipe.SAdd(ctx, viewDirtyKey, id)
		return nil
	})
	return err
}
