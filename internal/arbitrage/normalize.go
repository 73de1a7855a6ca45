// Package arbitrage implements the cross-market arbitrage engine: it
// normalizes raw listing sets from two marketplaces, matches gifts listed on
// both, scores fee-adjusted profit in each trade direction, and returns a
// filtered, deterministically ranked list of opportunities.
//
// The engine is pure and stateless: it performs only in-memory work on the
// snapshots it is given and never fetches, retries, or persists anything.
package arbitrage

import (
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// Normalize converts a marketplace's raw listing sequence into a name-keyed
// snapshot. When the same gift name appears more than once the first listing
// wins; later duplicates are dropped. Empty input yields an empty snapshot.
func Normalize(market domain.Market, listings []domain.Listing) domain.Snapshot {
	items := make(map[string]domain.Listing, len(listings))
	for _, l := range listings {
		if _, ok := items[l.Name]; ok {
			continue
		}
		items[l.Name] = l
	}
	return domain.Snapshot{
		Market:  market,
		TakenAt: time.Now().UTC(),
		Items:   items,
	}
}
