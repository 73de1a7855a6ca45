package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// AccessService manages time-limited user access grants. Every /start renews
// the grant for the configured duration.
type AccessService struct {
	store  domain.AccessStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewAccessService creates an AccessService granting access for ttl per
// activation.
func NewAccessService(store domain.AccessStore, ttl time.Duration, logger *slog.Logger) *AccessService {
	return &AccessService{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Grant gives the user a fresh access window and returns its duration.
func (s *AccessService) Grant(ctx context.Context, userID int64) (time.Duration, error) {
	if err := s.store.Grant(ctx, userID, s.ttl); err != nil {
		return 0, fmt.Errorf("access_service: grant %d: %w", userID, err)
	}
	s.logger.InfoContext(ctx, "access_service: access granted",
		slog.Int64("user_id", userID),
		slog.Duration("ttl", s.ttl),
	)
	return s.ttl, nil
}

// Remaining returns how long the user's access window is still open, or
// domain.ErrNoAccess when it is missing or expired.
func (s *AccessService) Remaining(ctx context.Context, userID int64) (time.Duration, error) {
	left, err := s.store.Remaining(ctx, userID)
	if err != nil {
		return 0, err
	}
	return left, nil
}

// Check reports whether the user currently has access.
func (s *AccessService) Check(ctx context.Context, userID int64) error {
	_, err := s.store.Remaining(ctx, userID)
	return err
}
