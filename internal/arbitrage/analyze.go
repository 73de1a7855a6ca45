package arbitrage

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// Default thresholds, in TON. Callers normally take these from config.
const (
	DefaultMinProfit   = 0.3
	DefaultSellFeeRate = 0.05
)

// Params configures a single analysis call.
type Params struct {
	// Band constrains the acceptable buy price, edges inclusive.
	// Band.Max <= 0 means no upper bound.
	Band domain.PriceBand
	// MinProfit is the strict lower bound on rounded profit: an opportunity
	// qualifies only when profit > MinProfit.
	MinProfit float64
	// SellFeeRate is the fractional cut the sell-side marketplace takes.
	SellFeeRate float64
	// BuyFeeRate is an optional buy-side surcharge folded into the effective
	// buy price. Zero reproduces the no-buy-fee model.
	BuyFeeRate float64
}

func (p Params) validate() error {
	if p.Band.Min < 0 {
		return fmt.Errorf("arbitrage: band min %.2f is negative: %w", p.Band.Min, domain.ErrInvalidArgument)
	}
	if p.Band.Bounded() && p.Band.Max < p.Band.Min {
		return fmt.Errorf("arbitrage: band max %.2f below min %.2f: %w", p.Band.Max, p.Band.Min, domain.ErrInvalidArgument)
	}
	if p.MinProfit < 0 {
		return fmt.Errorf("arbitrage: min profit %.2f is negative: %w", p.MinProfit, domain.ErrInvalidArgument)
	}
	if p.SellFeeRate < 0 || p.SellFeeRate >= 1 {
		return fmt.Errorf("arbitrage: sell fee rate %.4f outside [0,1): %w", p.SellFeeRate, domain.ErrInvalidArgument)
	}
	if p.BuyFeeRate < 0 || p.BuyFeeRate >= 1 {
		return fmt.Errorf("arbitrage: buy fee rate %.4f outside [0,1): %w", p.BuyFeeRate, domain.ErrInvalidArgument)
	}
	return nil
}

// Analyze matches the two listing sets, scores both trade directions for
// every shared gift, filters by price band and profit threshold, and returns
// opportunities ranked by profit descending (gift name ascending on ties).
//
// The full ranked list is returned; truncation is the caller's concern.
// Empty or partial inputs are the designed degraded mode and produce a
// shorter or empty result, never an error. Only contract violations in
// params fail, wrapping domain.ErrInvalidArgument.
func Analyze(marketA, marketB []domain.Listing, p Params) ([]domain.Opportunity, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	snapA := Normalize(marketFor(marketA, domain.MarketTonnel), marketA)
	snapB := Normalize(marketFor(marketB, domain.MarketPortals), marketB)

	names := Match(snapA, snapB)
	if len(names) == 0 {
		return []domain.Opportunity{}, nil
	}

	minProfit := decimal.NewFromFloat(p.MinProfit)
	out := make([]domain.Opportunity, 0, len(names))
	for _, name := range names {
		la, lb := snapA.Items[name], snapB.Items[name]
		for _, cand := range []candidate{
			score(la, lb, p.SellFeeRate, p.BuyFeeRate),
			score(lb, la, p.SellFeeRate, p.BuyFeeRate),
		} {
			if !p.Band.Contains(cand.opp.BuyPrice) {
				continue
			}
			if !cand.profit.GreaterThan(minProfit) {
				continue
			}
			out = append(out, cand.opp)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Profit != out[j].Profit {
			return out[i].Profit > out[j].Profit
		}
		return out[i].ItemName < out[j].ItemName
	})
	return out, nil
}

// marketFor returns the market tag carried by the listings themselves,
// falling back to the given default for empty input.
func marketFor(listings []domain.Listing, fallback domain.Market) domain.Market {
	if len(listings) > 0 && listings[0].Market != "" {
		return listings[0].Market
	}
	return fallback
}
