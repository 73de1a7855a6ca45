package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// SnapshotCache implements domain.SnapshotCache using one JSON value per
// marketplace at key "snapshot:{market}". Entries expire after the
// configured TTL so a dead marketplace cannot feed the engine stale prices
// forever.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotCache creates a SnapshotCache backed by the given Client.
func NewSnapshotCache(c *Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{rdb: c.Underlying(), ttl: ttl}
}

func snapshotKey(market domain.Market) string {
	return "snapshot:" + string(market)
}

// Set stores the snapshot with the cache TTL.
func (sc *SnapshotCache) Set(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot %s: %w", snap.Market, err)
	}
	if err := sc.rdb.Set(ctx, snapshotKey(snap.Market), data, sc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot %s: %w", snap.Market, err)
	}
	return nil
}

// Get retrieves the cached snapshot for a marketplace. It returns
// domain.ErrNotFound when the key is missing or expired.
func (sc *SnapshotCache) Get(ctx context.Context, market domain.Market) (domain.Snapshot, error) {
	data, err := sc.rdb.Get(ctx, snapshotKey(market)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Snapshot{}, domain.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("redis: get snapshot %s: %w", market, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("redis: decode snapshot %s: %w", market, err)
	}
	return snap, nil
}

// Compile-time interface check.
var _ domain.SnapshotCache = (*SnapshotCache)(nil)
