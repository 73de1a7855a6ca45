// Package memory provides in-process fallbacks for the cache interfaces,
// used when Redis is disabled in the configuration.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// AccessStore implements domain.AccessStore with a mutex-guarded map of
// expiry deadlines. Grants are lost on restart, which is acceptable for the
// single-process deployment this fallback targets.
type AccessStore struct {
	mu     sync.Mutex
	grants map[int64]time.Time
	now    func() time.Time
}

// NewAccessStore creates an empty in-memory AccessStore.
func NewAccessStore() *AccessStore {
	return &AccessStore{
		grants: make(map[int64]time.Time),
		now:    time.Now,
	}
}

// Grant gives the user access for ttl from now, replacing any prior grant.
func (as *AccessStore) Grant(_ context.Context, userID int64, ttl time.Duration) error {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.grants[userID] = as.now().Add(ttl)
	return nil
}

// Remaining returns how long the user's access is still valid, or
// domain.ErrNoAccess when the grant is missing or expired. Expired grants
// are removed on read.
func (as *AccessStore) Remaining(_ context.Context, userID int64) (time.Duration, error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	deadline, ok := as.grants[userID]
	if !ok {
		return 0, domain.ErrNoAccess
	}
	left := deadline.Sub(as.now())
	if left <= 0 {
		delete(as.grants, userID)
		return 0, domain.ErrNoAccess
	}
	return left, nil
}

// Revoke removes the user's grant, if any.
func (as *AccessStore) Revoke(_ context.Context, userID int64) error {
	as.mu.Lock()
	defer as.mu.Unlock()
	delete(as.grants, userID)
	return nil
}

// Compile-time interface check.
var _ domain.AccessStore = (*AccessStore)(nil)
