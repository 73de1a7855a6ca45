package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// ResultLimit caps how many opportunities one chat message shows.
const ResultLimit = 10

// FormatScanResult renders a scan result as a Telegram HTML message,
// truncated to limit opportunities.
func FormatScanResult(result domain.ScanResult, limit int) string {
	var sb strings.Builder

	sb.WriteString("<b>Arbitrage scan</b>\n")
	fmt.Fprintf(&sb, "Band: %s | Tonnel: %d gifts | Portals: %d gifts\n\n",
		bandText(result.Band), result.TonnelItems, result.PortalsItems)

	if len(result.Opportunities) == 0 {
		sb.WriteString("No opportunities found right now. Try again in a few minutes.")
		return sb.String()
	}

	shown := result.Opportunities
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	for i, opp := range shown {
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n", i+1, html.EscapeString(opp.ItemName))
		fmt.Fprintf(&sb, "   Buy on %s at %.2f TON, sell on %s at %.2f TON\n",
			opp.BuyMarket, opp.BuyPrice, opp.SellMarket, opp.SellPrice)
		fmt.Fprintf(&sb, "   Profit after fees: <b>%.2f TON</b>\n", opp.Profit)
	}

	if len(result.Opportunities) > len(shown) {
		fmt.Fprintf(&sb, "\n...and %d more", len(result.Opportunities)-len(shown))
	}
	return sb.String()
}

// FormatRemaining renders an access window as "23 h 59 min".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%d h %d min", h, m)
}

func bandText(band domain.PriceBand) string {
	if band.Min == 0 && !band.Bounded() {
		return "all prices"
	}
	return BandLabel(band)
}
