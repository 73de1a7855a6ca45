// Package notify fans scan alerts out to the configured channels. Watch mode
// pushes a summary after every periodic scan that finds opportunities; the
// event filter lets operators mute event types they do not care about.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// Event types emitted by the watch loop.
const (
	EventScan  = "scan"
	EventError = "error"
)

// Sender delivers one notification on one channel.
type Sender interface {
	Send(ctx context.Context, title, message string) error
	Name() string
}

// Notifier dispatches notifications to every registered sender. An empty
// allowed-events list lets everything through.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier delivering to the given senders, forwarding
// only the listed event types (all types when events is empty).
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// NotifyScan pushes a summary of a scan that found opportunities. Empty scans
// are skipped so the channel does not fill with noise.
func (n *Notifier) NotifyScan(ctx context.Context, result domain.ScanResult) error {
	if len(result.Opportunities) == 0 {
		return nil
	}

	top := result.Opportunities
	if len(top) > 5 {
		top = top[:5]
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d opportunities (tonnel %d gifts, portals %d gifts)\n",
		len(result.Opportunities), result.TonnelItems, result.PortalsItems)
	for _, opp := range top {
		fmt.Fprintf(&sb, "%s: buy %s %.2f, sell %s %.2f, profit %.2f TON\n",
			opp.ItemName, opp.BuyMarket, opp.BuyPrice, opp.SellMarket, opp.SellPrice, opp.Profit)
	}

	return n.Notify(ctx, EventScan, "Gift arbitrage found", sb.String())
}

// Notify sends a notification to all senders if the event type passes the
// filter.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) error {
	if len(n.events) > 0 && !n.events[event] {
		n.logger.DebugContext(ctx, "event filtered out",
			slog.String("event", event),
		)
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// dispatch delivers to every sender; one failing sender does not block the
// rest. Failures are combined into a single error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
