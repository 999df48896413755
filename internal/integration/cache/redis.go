// Package cache implements the report cache on Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/expense-ledger/backend/internal/application/adapter"
)

// redisReportCache implements adapter.ReportCache on a Redis client. Each
// payload lives under report:{owner}:{key}; a per-owner set tracks the live
// keys so InvalidateOwner can drop them all without a SCAN.
type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache creates a new Redis-backed report cache.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) adapter.ReportCache {
	return &redisReportCache{
		client: client,
		ttl:    ttl,
	}
}

func payloadKey(ownerID uuid.UUID, key string) string {
	return fmt.Sprintf("report:%s:%s", ownerID, key)
}

func ownerSetKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("report:%s:keys", ownerID)
}

// GetJSON retrieves and unmarshals the cached payload.
func (c *redisReportCache) GetJSON(ctx context.Context, ownerID uuid.UUID, key string, v any) error {
	data, err := c.client.Get(ctx, payloadKey(ownerID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return adapter.ErrCacheMiss
		}
		return fmt.Errorf("report cache get: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("report cache decode: %w", err)
	}
	return nil
}

// SetJSON stores the payload under the cache TTL and registers the key in the
// owner's tracking set.
func (c *redisReportCache) SetJSON(ctx context.Context, ownerID uuid.UUID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("report cache encode: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, payloadKey(ownerID, key), data, c.ttl)
	pipe.SAdd(ctx, ownerSetKey(ownerID), key)
	// The tracking set outlives payloads slightly so a crashed invalidation
	// never strands keys forever.
	pipe.Expire(ctx, ownerSetKey(ownerID), c.ttl*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("report cache set: %w", err)
	}
	return nil
}

// InvalidateOwner drops every cached report for the owner.
func (c *redisReportCache) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) error {
	keys, err := c.client.SMembers(ctx, ownerSetKey(ownerID)).Result()
	if err != nil {
		return fmt.Errorf("report cache invalidate: %w", err)
	}

	toDelete := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		toDelete = append(toDelete, payloadKey(ownerID, key))
	}
	toDelete = append(toDelete, ownerSetKey(ownerID))

	if err := c.client.Del(ctx, toDelete...).Err(); err != nil {
		return fmt.Errorf("report cache invalidate: %w", err)
	}
	return nil
}
