package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
	"github.com/Giftartbot/gift-art-bot/internal/service"
)

type fakeSource struct {
	market   domain.Market
	listings []domain.Listing
}

func (f *fakeSource) Fetch(context.Context) ([]domain.Listing, error) { return f.listings, nil }
func (f *fakeSource) Market() domain.Market                           { return f.market }

func testHandler() *OpportunitiesHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tonnel := &fakeSource{
		market: domain.MarketTonnel,
		listings: []domain.Listing{
			{Name: "Lava Lamp", Price: 5.0, Market: domain.MarketTonnel},
			{Name: "Lol Pop", Price: 1.0, Market: domain.MarketTonnel},
		},
	}
	portals := &fakeSource{
		market: domain.MarketPortals,
		listings: []domain.Listing{
			{Name: "Lava Lamp", Price: 6.0, Market: domain.MarketPortals},
			{Name: "Lol Pop", Price: 3.0, Market: domain.MarketPortals},
		},
	}
	markets := service.NewMarketService([]domain.ListingSource{tonnel, portals}, nil, logger)
	analysis := service.NewAnalysisService(markets, nil, service.AnalysisConfig{MinProfit: 0.3, SellFeeRate: 0.05}, logger)
	return NewOpportunitiesHandler(analysis, logger)
}

func TestListOpportunities(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?min=1&max=10", nil)
	rec := httptest.NewRecorder()
	h.ListOpportunities(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		ScanID        string               `json:"scan_id"`
		Total         int                  `json:"total"`
		Opportunities []domain.Opportunity `json:"opportunities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ScanID == "" {
		t.Fatal("scan_id is empty")
	}
	if body.Total != 2 || len(body.Opportunities) != 2 {
		t.Fatalf("total = %d, opportunities = %d, want 2/2", body.Total, len(body.Opportunities))
	}
	if body.Opportunities[0].ItemName != "Lol Pop" {
		t.Fatalf("top opportunity = %q, want Lol Pop", body.Opportunities[0].ItemName)
	}
}

func TestListOpportunitiesLimit(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?min=1&max=10&limit=1", nil)
	rec := httptest.NewRecorder()
	h.ListOpportunities(rec, req)

	var body struct {
		Total         int                  `json:"total"`
		Opportunities []domain.Opportunity `json:"opportunities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 2 || len(body.Opportunities) != 1 {
		t.Fatalf("total = %d, opportunities = %d, want total 2 truncated to 1", body.Total, len(body.Opportunities))
	}
}

func TestListOpportunitiesInvalidBand(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/opportunities?min=10&max=5", nil)
	rec := httptest.NewRecorder()
	h.ListOpportunities(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
