// Package domain defines the core types and interfaces shared by every layer
// of the gift arbitrage bot: marketplace listings, snapshots, opportunities,
// and the contracts for listing sources, caches, and access bookkeeping.
package domain

import (
	"context"
	"time"
)

// Market identifies one of the monitored gift marketplaces.
type Market string

const (
	MarketTonnel  Market = "tonnel"
	MarketPortals Market = "portals"
)

// String returns the marketplace identifier.
func (m Market) String() string { return string(m) }

// Listing is one gift offer on one marketplace at fetch time. Name is unique
// per marketplace within a snapshot; Price is in TON.
type Listing struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Market Market  `json:"market"`
}

// Snapshot is the full set of listings from one marketplace at one fetch,
// keyed by gift name for O(1) lookups.
type Snapshot struct {
	Market  Market             `json:"market"`
	TakenAt time.Time          `json:"taken_at"`
	Items   map[string]Listing `json:"items"`
}

// Len returns the number of distinct gift names in the snapshot.
func (s Snapshot) Len() int { return len(s.Items) }

// Listings flattens the snapshot back into a listing slice. Order is
// unspecified.
func (s Snapshot) Listings() []Listing {
	out := make([]Listing, 0, len(s.Items))
	for _, l := range s.Items {
		out = append(out, l)
	}
	return out
}

// PriceBand is the caller-chosen inclusive buy-price range. Max <= 0 means
// the band has no upper bound.
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls inside the band, edges included.
func (b PriceBand) Contains(price float64) bool {
	if price < b.Min {
		return false
	}
	if b.Max > 0 && price > b.Max {
		return false
	}
	return true
}

// Bounded reports whether the band has an upper bound.
func (b PriceBand) Bounded() bool { return b.Max > 0 }

// ListingSource supplies the current listings of one marketplace. Implementors
// must drop malformed entries (empty name, unparsable or negative price)
// before returning; the arbitrage engine assumes clean input.
type ListingSource interface {
	// Fetch returns the marketplace's current listings.
	Fetch(ctx context.Context) ([]Listing, error)
	// Market returns the marketplace this source scrapes.
	Market() Market
}
