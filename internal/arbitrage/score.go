package arbitrage

import (
	"github.com/shopspring/decimal"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// candidate pairs an opportunity with its exact decimal profit so the
// threshold comparison is not subject to float64 representation error.
type candidate struct {
	opp    domain.Opportunity
	profit decimal.Decimal
}

// score evaluates a single trade direction: buy on buy.Market, sell on
// sell.Market. The sell side is charged sellFee, the buy side buyFee
// (default 0). Profit is rounded half away from zero to 2 decimal places
// before any threshold comparison.
func score(buy, sell domain.Listing, sellFee, buyFee float64) candidate {
	one := decimal.NewFromInt(1)
	sellNet := decimal.NewFromFloat(sell.Price).Mul(one.Sub(decimal.NewFromFloat(sellFee)))
	buyGross := decimal.NewFromFloat(buy.Price).Mul(one.Add(decimal.NewFromFloat(buyFee)))
	profit := sellNet.Sub(buyGross).Round(2)

	return candidate{
		opp: domain.Opportunity{
			ItemName:   buy.Name,
			BuyMarket:  buy.Market,
			BuyPrice:   buy.Price,
			SellMarket: sell.Market,
			SellPrice:  sell.Price,
			Profit:     profit.InexactFloat64(),
		},
		profit: profit,
	}
}
