package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/cache/memory"
	"github.com/Giftartbot/gift-art-bot/internal/cache/redis"
	"github.com/Giftartbot/gift-art-bot/internal/config"
	"github.com/Giftartbot/gift-art-bot/internal/domain"
	"github.com/Giftartbot/gift-art-bot/internal/notify"
	"github.com/Giftartbot/gift-art-bot/internal/platform/portals"
	"github.com/Giftartbot/gift-art-bot/internal/platform/telegram"
	"github.com/Giftartbot/gift-art-bot/internal/platform/tonnel"
)

// Dependencies bundles every domain-level dependency the application modes
// need. Wire constructs it and the returned cleanup releases resources.
type Dependencies struct {
	Sources       []domain.ListingSource
	SnapshotCache domain.SnapshotCache // nil when Redis is disabled
	SignalBus     domain.SignalBus     // nil when Redis is disabled
	AccessStore   domain.AccessStore
	Telegram      *telegram.Client // nil when no bot token is configured
	Notifier      *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them with a cleanup function.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Sources: []domain.ListingSource{
			tonnel.NewClient(cfg.Tonnel.BaseURL, time.Duration(cfg.Tonnel.TimeoutSec)*time.Second),
			portals.NewClient(cfg.Portals.BaseURL, time.Duration(cfg.Portals.TimeoutSec)*time.Second),
		},
	}

	// Redis backs the snapshot cache, access grants and the signal bus.
	// Without it access grants live in process memory and snapshot fallback
	// and the WebSocket feed are unavailable.
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		snapshotTTL := 10 * time.Minute
		if cfg.Redis.SnapshotTTLSec > 0 {
			snapshotTTL = time.Duration(cfg.Redis.SnapshotTTLSec) * time.Second
		}
		deps.SnapshotCache = redis.NewSnapshotCache(redisClient, snapshotTTL)
		deps.SignalBus = redis.NewSignalBus(redisClient)
		deps.AccessStore = redis.NewAccessStore(redisClient)
	} else {
		deps.AccessStore = memory.NewAccessStore()
	}

	if cfg.Telegram.Token != "" {
		deps.Telegram = telegram.NewClient(
			cfg.Telegram.Token,
			time.Duration(cfg.Telegram.PollTimeoutSec)*time.Second,
		)
	}

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		chatID, err := strconv.ParseInt(cfg.Notify.TelegramChatID, 10, 64)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: notify telegram chat id %q: %w", cfg.Notify.TelegramChatID, err)
		}
		senders = append(senders, notify.NewTelegramSender(
			telegram.NewClient(cfg.Notify.TelegramToken, 0),
			chatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
