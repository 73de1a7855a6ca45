package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/Giftartbot/gift-art-bot/internal/platform/telegram"
)

// TelegramSender pushes notifications to a fixed chat through the same Bot
// API client the chat front end uses.
type TelegramSender struct {
	client *telegram.Client
	chatID int64
}

// NewTelegramSender creates a TelegramSender delivering to chatID.
func NewTelegramSender(client *telegram.Client, chatID int64) *TelegramSender {
	return &TelegramSender{client: client, chatID: chatID}
}

// Send posts the notification with the title in bold. Title and message are
// HTML-escaped since the client sends with HTML parse mode.
func (t *TelegramSender) Send(ctx context.Context, title, message string) error {
	text := fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(message))
	if err := t.client.SendMessage(ctx, t.chatID, text, nil); err != nil {
		return fmt.Errorf("notify: telegram send: %w", err)
	}
	return nil
}

// Name returns the sender identifier.
func (t *TelegramSender) Name() string {
	return "telegram"
}
