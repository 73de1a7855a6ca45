package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

func TestAccessStoreGrantAndRemaining(t *testing.T) {
	ctx := context.Background()
	store := NewAccessStore()

	if _, err := store.Remaining(ctx, 42); !errors.Is(err, domain.ErrNoAccess) {
		t.Fatalf("remaining before grant: got %v, want ErrNoAccess", err)
	}

	if err := store.Grant(ctx, 42, 24*time.Hour); err != nil {
		t.Fatalf("grant: %v", err)
	}

	left, err := store.Remaining(ctx, 42)
	if err != nil {
		t.Fatalf("remaining after grant: %v", err)
	}
	if left <= 23*time.Hour || left > 24*time.Hour {
		t.Fatalf("remaining = %v, want just under 24h", left)
	}
}

func TestAccessStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewAccessStore()

	base := time.Now()
	store.now = func() time.Time { return base }

	if err := store.Grant(ctx, 7, time.Hour); err != nil {
		t.Fatalf("grant: %v", err)
	}

	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := store.Remaining(ctx, 7); !errors.Is(err, domain.ErrNoAccess) {
		t.Fatalf("remaining after expiry: got %v, want ErrNoAccess", err)
	}
}

func TestAccessStoreRevoke(t *testing.T) {
	ctx := context.Background()
	store := NewAccessStore()

	if err := store.Grant(ctx, 9, time.Hour); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := store.Revoke(ctx, 9); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.Remaining(ctx, 9); !errors.Is(err, domain.ErrNoAccess) {
		t.Fatalf("remaining after revoke: got %v, want ErrNoAccess", err)
	}
}

func TestAccessStoreRegrantReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewAccessStore()

	base := time.Now()
	store.now = func() time.Time { return base }

	if err := store.Grant(ctx, 3, time.Minute); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := store.Grant(ctx, 3, time.Hour); err != nil {
		t.Fatalf("regrant: %v", err)
	}

	left, err := store.Remaining(ctx, 3)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if left != time.Hour {
		t.Fatalf("remaining = %v, want 1h", left)
	}
}
