// Package bot implements the Telegram chat front end: long-polling update
// loop, command dispatch, band keyboard and result formatting.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
	"github.com/Giftartbot/gift-art-bot/internal/platform/telegram"
	"github.com/Giftartbot/gift-art-bot/internal/service"
)

// api is the slice of the Telegram client the bot uses, split out so tests
// can fake it.
type api interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.ReplyKeyboardMarkup) error
}

// Bot drives one Telegram bot account: it polls for updates and answers
// /start, /status, /analyze and band button presses.
type Bot struct {
	tg          api
	analysis    *service.AnalysisService
	access      *service.AccessService
	bands       []domain.PriceBand
	pollTimeout time.Duration
	logger      *slog.Logger
}

// New creates a Bot.
func New(
	tg *telegram.Client,
	analysis *service.AnalysisService,
	access *service.AccessService,
	bands []domain.PriceBand,
	pollTimeout time.Duration,
	logger *slog.Logger,
) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &Bot{
		tg:          tg,
		analysis:    analysis,
		access:      access,
		bands:       bands,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// Run polls for updates until the context is cancelled. Poll errors are
// logged and retried after a short backoff.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.InfoContext(ctx, "bot: update loop started")

	var offset int64
	for {
		updates, err := b.tg.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.WarnContext(ctx, "bot: get updates failed",
				slog.String("error", err.Error()),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			if upd.Message == nil || upd.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, upd.Message)
		}
	}
}

// handleMessage dispatches one incoming message. Reply failures are logged,
// never propagated; the loop must survive any single bad interaction.
func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID
	userID := msg.From.ID

	switch {
	case text == "/start":
		b.handleStart(ctx, chatID, userID, msg.From.FirstName)
	case text == "/status":
		b.handleStatus(ctx, chatID, userID)
	case text == "/analyze":
		b.handleAnalyze(ctx, chatID, userID)
	default:
		if band, ok := BandFromLabel(text, b.bands); ok {
			b.handleScan(ctx, chatID, userID, band)
			return
		}
		b.reply(ctx, chatID, "Unknown command. Use /analyze to scan for arbitrage or /status to check your access.", nil)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64, firstName string) {
	ttl, err := b.access.Grant(ctx, userID)
	if err != nil {
		b.logger.ErrorContext(ctx, "bot: grant failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		b.reply(ctx, chatID, "Something went wrong, please try again.", nil)
		return
	}

	greeting := "Hi"
	if firstName != "" {
		greeting = "Hi, " + firstName
	}
	text := greeting + "! You have access for " + FormatRemaining(ttl) + ".\n" +
		"Use /analyze to scan Tonnel and Portals for gift arbitrage."
	b.reply(ctx, chatID, text, BandKeyboard(b.bands))
}

func (b *Bot) handleStatus(ctx context.Context, chatID, userID int64) {
	left, err := b.access.Remaining(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoAccess) {
			b.reply(ctx, chatID, "Your access has expired. Send /start to renew it.", nil)
			return
		}
		b.logger.ErrorContext(ctx, "bot: status failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		b.reply(ctx, chatID, "Something went wrong, please try again.", nil)
		return
	}
	b.reply(ctx, chatID, "Access active: "+FormatRemaining(left)+" remaining.", nil)
}

func (b *Bot) handleAnalyze(ctx context.Context, chatID, userID int64) {
	if !b.requireAccess(ctx, chatID, userID) {
		return
	}
	b.reply(ctx, chatID, "Pick a price band:", BandKeyboard(b.bands))
}

func (b *Bot) handleScan(ctx context.Context, chatID, userID int64, band domain.PriceBand) {
	if !b.requireAccess(ctx, chatID, userID) {
		return
	}

	result, err := b.analysis.Scan(ctx, band)
	if err != nil {
		b.logger.ErrorContext(ctx, "bot: scan failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		b.reply(ctx, chatID, "Scan failed, please try again in a moment.", nil)
		return
	}
	b.reply(ctx, chatID, FormatScanResult(result, ResultLimit), nil)
}

// requireAccess checks the user's access window and tells them to /start
// when it is missing. Returns true when the user may proceed.
func (b *Bot) requireAccess(ctx context.Context, chatID, userID int64) bool {
	err := b.access.Check(ctx, userID)
	if err == nil {
		return true
	}
	if errors.Is(err, domain.ErrNoAccess) {
		b.reply(ctx, chatID, "Your access has expired. Send /start to renew it.", nil)
		return false
	}
	b.logger.ErrorContext(ctx, "bot: access check failed",
		slog.Int64("user_id", userID),
		slog.String("error", err.Error()),
	)
	b.reply(ctx, chatID, "Something went wrong, please try again.", nil)
	return false
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, keyboard *telegram.ReplyKeyboardMarkup) {
	if err := b.tg.SendMessage(ctx, chatID, text, keyboard); err != nil {
		b.logger.WarnContext(ctx, "bot: send message failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}
