package domain

import (
	"context"
	"time"
)

// AccessStore keeps per-user access expiry timestamps for the chat front end.
// It is an explicit keyed store owned by the presentation layer; entries
// expire on their own and Remaining returns ErrNoAccess afterwards.
type AccessStore interface {
	// Grant gives the user access for ttl from now, replacing any prior grant.
	Grant(ctx context.Context, userID int64, ttl time.Duration) error
	// Remaining returns how long the user's access is still valid.
	// It returns ErrNoAccess when the grant is missing or expired.
	Remaining(ctx context.Context, userID int64) (time.Duration, error)
	// Revoke removes the user's grant, if any.
	Revoke(ctx context.Context, userID int64) error
}
