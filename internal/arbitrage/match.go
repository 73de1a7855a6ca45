package arbitrage

import (
	"sort"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// Match returns the gift names listed on both marketplaces, sorted ascending
// so downstream evaluation order is deterministic. Names present on only one
// side are excluded; they have no counter-side and cannot form an arbitrage.
func Match(a, b domain.Snapshot) []string {
	if len(a.Items) == 0 || len(b.Items) == 0 {
		return nil
	}
	// Iterate the smaller side.
	small, large := a, b
	if len(b.Items) < len(a.Items) {
		small, large = b, a
	}
	names := make([]string, 0, len(small.Items))
	for name := range small.Items {
		if _, ok := large.Items[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
