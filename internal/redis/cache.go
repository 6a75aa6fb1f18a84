package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakmed/clinic-ops/internal/analytics"
)

const snapshotKey = "analytics:snapshot"

// SnapshotCache keeps the latest dashboard snapshot in Redis so that
// repeated dashboard loads inside the TTL do not rescan the clinic
// tables. It implements analytics.Cache.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// GetSnapshot returns the cached snapshot, or (nil, nil) on a miss.
func (c *SnapshotCache) GetSnapshot(ctx context.Context) (*analytics.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached snapshot: %w", err)
	}

	var snap analytics.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt entry behaves like a miss; the next write
		// replaces it.
		return nil, nil
	}

	return &snap, nil
}

func (c *SnapshotCache) SetSnapshot(ctx context.Context, snap *analytics.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached snapshot: %w", err)
	}

	return nil
}
