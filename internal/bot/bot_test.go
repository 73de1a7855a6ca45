package bot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/cache/memory"
	"github.com/Giftartbot/gift-art-bot/internal/domain"
	"github.com/Giftartbot/gift-art-bot/internal/platform/telegram"
	"github.com/Giftartbot/gift-art-bot/internal/service"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *telegram.ReplyKeyboardMarkup
}

type fakeAPI struct {
	sent []sentMessage
}

func (f *fakeAPI) GetUpdates(context.Context, int64, time.Duration) ([]telegram.Update, error) {
	return nil, nil
}

func (f *fakeAPI) SendMessage(_ context.Context, chatID int64, text string, keyboard *telegram.ReplyKeyboardMarkup) error {
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, keyboard: keyboard})
	return nil
}

type fakeSource struct {
	market   domain.Market
	listings []domain.Listing
}

func (f *fakeSource) Fetch(context.Context) ([]domain.Listing, error) { return f.listings, nil }
func (f *fakeSource) Market() domain.Market                           { return f.market }

func testBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tonnel := &fakeSource{
		market: domain.MarketTonnel,
		listings: []domain.Listing{
			{Name: "Lava Lamp", Price: 5.0, Market: domain.MarketTonnel},
		},
	}
	portals := &fakeSource{
		market: domain.MarketPortals,
		listings: []domain.Listing{
			{Name: "Lava Lamp", Price: 6.0, Market: domain.MarketPortals},
		},
	}

	markets := service.NewMarketService([]domain.ListingSource{tonnel, portals}, nil, logger)
	analysis := service.NewAnalysisService(markets, nil, service.AnalysisConfig{MinProfit: 0.3, SellFeeRate: 0.05}, logger)
	access := service.NewAccessService(memory.NewAccessStore(), 24*time.Hour, logger)

	tg := &fakeAPI{}
	b := &Bot{
		tg:          tg,
		analysis:    analysis,
		access:      access,
		bands:       []domain.PriceBand{{Min: 1, Max: 10}, {Min: 10, Max: 20}, {Min: 20}},
		pollTimeout: time.Second,
		logger:      logger,
	}
	return b, tg
}

func msg(userID, chatID int64, text string) *telegram.Message {
	return &telegram.Message{
		From: &telegram.User{ID: userID, FirstName: "Ada"},
		Chat: telegram.Chat{ID: chatID},
		Text: text,
	}
}

func TestStartGrantsAccessAndShowsKeyboard(t *testing.T) {
	b, tg := testBot(t)
	ctx := context.Background()

	b.handleMessage(ctx, msg(1, 100, "/start"))

	if len(tg.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(tg.sent))
	}
	reply := tg.sent[0]
	if !strings.Contains(reply.text, "Ada") || !strings.Contains(reply.text, "24 h 0 min") {
		t.Fatalf("start reply = %q", reply.text)
	}
	if reply.keyboard == nil {
		t.Fatal("start reply has no keyboard")
	}

	if err := b.access.Check(ctx, 1); err != nil {
		t.Fatalf("access after /start: %v", err)
	}
}

func TestStatusWithoutAccess(t *testing.T) {
	b, tg := testBot(t)

	b.handleMessage(context.Background(), msg(2, 200, "/status"))

	if len(tg.sent) != 1 || !strings.Contains(tg.sent[0].text, "/start") {
		t.Fatalf("status reply = %+v, want renewal hint", tg.sent)
	}
}

func TestBandPressRunsScan(t *testing.T) {
	b, tg := testBot(t)
	ctx := context.Background()

	b.handleMessage(ctx, msg(3, 300, "/start"))
	tg.sent = nil

	b.handleMessage(ctx, msg(3, 300, "1-10 TON"))

	if len(tg.sent) != 1 {
		t.Fatalf("sent = %d messages, want 1", len(tg.sent))
	}
	text := tg.sent[0].text
	if !strings.Contains(text, "Lava Lamp") || !strings.Contains(text, "0.70 TON") {
		t.Fatalf("scan reply = %q", text)
	}
}

func TestScanRequiresAccess(t *testing.T) {
	b, tg := testBot(t)

	b.handleMessage(context.Background(), msg(4, 400, "1-10 TON"))

	if len(tg.sent) != 1 || !strings.Contains(tg.sent[0].text, "expired") {
		t.Fatalf("gated reply = %+v, want access prompt", tg.sent)
	}
}

func TestUnknownCommand(t *testing.T) {
	b, tg := testBot(t)

	b.handleMessage(context.Background(), msg(5, 500, "hello there"))

	if len(tg.sent) != 1 || !strings.Contains(tg.sent[0].text, "Unknown command") {
		t.Fatalf("reply = %+v, want unknown-command hint", tg.sent)
	}
}
