package tonnel

import (
	"strconv"
	"strings"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// giftsResponse is the envelope returned by the Tonnel gifts endpoint.
type giftsResponse struct {
	Gifts []APIGift `json:"gifts"`
}

// APIGift is one gift listing as returned by the Tonnel API. Prices arrive
// as strings, sometimes with a trailing "TON" suffix.
type APIGift struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ToDomainListing converts the API shape into a domain Listing. The second
// return value is false for malformed entries (empty name, unparsable or
// negative price), which the caller must drop.
func (g APIGift) ToDomainListing() (domain.Listing, bool) {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return domain.Listing{}, false
	}
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(g.Price), "TON"))
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		return domain.Listing{}, false
	}
	return domain.Listing{
		Name:   name,
		Price:  price,
		Market: domain.MarketTonnel,
	}, true
}
