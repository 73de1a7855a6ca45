// Package service wires the arbitrage engine to marketplace clients, caches
// and the signal bus.
package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Giftartbot/gift-art-bot/internal/arbitrage"
	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// MarketService fetches current listings from every configured marketplace.
// Fetches run concurrently; a marketplace that fails falls back to its last
// cached snapshot, and to an empty listing set when no snapshot is cached.
// A scan therefore degrades instead of failing when one side is down.
type MarketService struct {
	sources []domain.ListingSource
	cache   domain.SnapshotCache
	logger  *slog.Logger
}

// NewMarketService creates a MarketService. cache may be nil, in which case
// failed fetches degrade straight to an empty listing set.
func NewMarketService(sources []domain.ListingSource, cache domain.SnapshotCache, logger *slog.Logger) *MarketService {
	return &MarketService{
		sources: sources,
		cache:   cache,
		logger:  logger,
	}
}

// FetchAll retrieves listings from every source concurrently and returns them
// keyed by marketplace. Every configured market has an entry in the result,
// possibly empty.
func (s *MarketService) FetchAll(ctx context.Context) (map[domain.Market][]domain.Listing, error) {
	var mu sync.Mutex
	out := make(map[domain.Market][]domain.Listing, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range s.sources {
		src := src
		g.Go(func() error {
			listings := s.fetchOne(gctx, src)
			mu.Lock()
			out[src.Market()] = listings
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetchOne fetches from a single source with snapshot-cache fallback.
func (s *MarketService) fetchOne(ctx context.Context, src domain.ListingSource) []domain.Listing {
	market := src.Market()

	listings, err := src.Fetch(ctx)
	if err == nil {
		s.logger.InfoContext(ctx, "market_service: fetched listings",
			slog.String("market", market.String()),
			slog.Int("count", len(listings)),
		)
		if s.cache != nil {
			snap := arbitrage.Normalize(market, listings)
			if cacheErr := s.cache.Set(ctx, snap); cacheErr != nil {
				s.logger.WarnContext(ctx, "market_service: snapshot cache set failed",
					slog.String("market", market.String()),
					slog.String("error", cacheErr.Error()),
				)
			}
		}
		return listings
	}

	s.logger.WarnContext(ctx, "market_service: fetch failed",
		slog.String("market", market.String()),
		slog.String("error", err.Error()),
	)

	if s.cache != nil {
		snap, cacheErr := s.cache.Get(ctx, market)
		if cacheErr == nil {
			s.logger.InfoContext(ctx, "market_service: using cached snapshot",
				slog.String("market", market.String()),
				slog.Int("count", snap.Len()),
				slog.Time("taken_at", snap.TakenAt),
			)
			return snap.Listings()
		}
	}

	return []domain.Listing{}
}
