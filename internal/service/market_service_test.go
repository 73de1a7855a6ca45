package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Giftartbot/gift-art-bot/internal/arbitrage"
	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	market   domain.Market
	listings []domain.Listing
	err      error
}

func (f *fakeSource) Fetch(context.Context) ([]domain.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func (f *fakeSource) Market() domain.Market { return f.market }

type fakeSnapshotCache struct {
	mu    sync.Mutex
	snaps map[domain.Market]domain.Snapshot
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{snaps: make(map[domain.Market]domain.Snapshot)}
}

func (f *fakeSnapshotCache) Set(_ context.Context, snap domain.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps[snap.Market] = snap
	return nil
}

func (f *fakeSnapshotCache) Get(_ context.Context, market domain.Market) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snaps[market]
	if !ok {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

func TestFetchAllBothMarkets(t *testing.T) {
	tonnel := &fakeSource{
		market: domain.MarketTonnel,
		listings: []domain.Listing{
			{Name: "Lava Lamp", Price: 5.0, Market: domain.MarketTonnel},
		},
	}
	portals := &fakeSource{
		market: domain.MarketPortals,
		listings: []domain.Listing{
			{Name: "Lava Lamp", Price: 6.0, Market: domain.MarketPortals},
			{Name: "Snoop Dogg", Price: 3.0, Market: domain.MarketPortals},
		},
	}

	svc := NewMarketService([]domain.ListingSource{tonnel, portals}, nil, testLogger())

	got, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(got[domain.MarketTonnel]) != 1 {
		t.Fatalf("tonnel listings = %d, want 1", len(got[domain.MarketTonnel]))
	}
	if len(got[domain.MarketPortals]) != 2 {
		t.Fatalf("portals listings = %d, want 2", len(got[domain.MarketPortals]))
	}
}

func TestFetchAllFailedSourceDegradesToEmpty(t *testing.T) {
	tonnel := &fakeSource{market: domain.MarketTonnel, err: errors.New("timeout")}
	portals := &fakeSource{
		market: domain.MarketPortals,
		listings: []domain.Listing{
			{Name: "Plush Pepe", Price: 900.0, Market: domain.MarketPortals},
		},
	}

	svc := NewMarketService([]domain.ListingSource{tonnel, portals}, nil, testLogger())

	got, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if listings, ok := got[domain.MarketTonnel]; !ok || len(listings) != 0 {
		t.Fatalf("tonnel = %v (present %v), want empty entry", listings, ok)
	}
	if len(got[domain.MarketPortals]) != 1 {
		t.Fatalf("portals listings = %d, want 1", len(got[domain.MarketPortals]))
	}
}

func TestFetchAllFallsBackToCachedSnapshot(t *testing.T) {
	cache := newFakeSnapshotCache()
	stale := arbitrage.Normalize(domain.MarketTonnel, []domain.Listing{
		{Name: "Lava Lamp", Price: 5.0, Market: domain.MarketTonnel},
		{Name: "Lol Pop", Price: 1.2, Market: domain.MarketTonnel},
	})
	if err := cache.Set(context.Background(), stale); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	tonnel := &fakeSource{market: domain.MarketTonnel, err: errors.New("503")}
	svc := NewMarketService([]domain.ListingSource{tonnel}, cache, testLogger())

	got, err := svc.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(got[domain.MarketTonnel]) != 2 {
		t.Fatalf("tonnel listings = %d, want 2 from cached snapshot", len(got[domain.MarketTonnel]))
	}
}

func TestFetchAllWritesSnapshotCache(t *testing.T) {
	cache := newFakeSnapshotCache()
	tonnel := &fakeSource{
		market: domain.MarketTonnel,
		listings: []domain.Listing{
			{Name: "Lava Lamp", Price: 5.0, Market: domain.MarketTonnel},
		},
	}
	svc := NewMarketService([]domain.ListingSource{tonnel}, cache, testLogger())

	if _, err := svc.FetchAll(context.Background()); err != nil {
		t.Fatalf("fetch all: %v", err)
	}

	snap, err := cache.Get(context.Background(), domain.MarketTonnel)
	if err != nil {
		t.Fatalf("cached snapshot: %v", err)
	}
	if snap.Len() != 1 {
		t.Fatalf("cached snapshot len = %d, want 1", snap.Len())
	}
}
