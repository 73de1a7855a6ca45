package portals

import (
	"strings"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// APIGift is one gift listing as returned by the Portals API. Unlike Tonnel,
// Portals returns numeric prices directly.
type APIGift struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// ToDomainListing converts the API shape into a domain Listing. The second
// return value is false for malformed entries, which the caller must drop.
func (g APIGift) ToDomainListing() (domain.Listing, bool) {
	title := strings.TrimSpace(g.Title)
	if title == "" || g.Price < 0 {
		return domain.Listing{}, false
	}
	return domain.Listing{
		Name:   title,
		Price:  g.Price,
		Market: domain.MarketPortals,
	}, true
}
