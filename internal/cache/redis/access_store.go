package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// AccessStore implements domain.AccessStore on Redis keys with native TTLs:
// "access:{userID}" holds the grant and Redis expires it on its own, so the
// store needs no sweeper goroutine.
type AccessStore struct {
	rdb *redis.Client
}

// NewAccessStore creates an AccessStore backed by the given Client.
func NewAccessStore(c *Client) *AccessStore {
	return &AccessStore{rdb: c.Underlying()}
}

func accessKey(userID int64) string {
	return "access:" + strconv.FormatInt(userID, 10)
}

// Grant gives the user access for ttl from now, replacing any prior grant.
func (as *AccessStore) Grant(ctx context.Context, userID int64, ttl time.Duration) error {
	if err := as.rdb.Set(ctx, accessKey(userID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis: grant access %d: %w", userID, err)
	}
	return nil
}

// Remaining returns how long the user's access is still valid, or
// domain.ErrNoAccess when the grant is missing or expired.
func (as *AccessStore) Remaining(ctx context.Context, userID int64) (time.Duration, error) {
	ttl, err := as.rdb.TTL(ctx, accessKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrNoAccess
		}
		return 0, fmt.Errorf("redis: access ttl %d: %w", userID, err)
	}
	// TTL returns -2 for missing keys and -1 for keys without expiry; a
	// grant without expiry should not exist, so treat both as no access.
	if ttl < 0 {
		return 0, domain.ErrNoAccess
	}
	return ttl, nil
}

// Revoke removes the user's grant, if any.
func (as *AccessStore) Revoke(ctx context.Context, userID int64) error {
	if err := as.rdb.Del(ctx, accessKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis: revoke access %d: %w", userID, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.AccessStore = (*AccessStore)(nil)
