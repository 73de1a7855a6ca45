package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Giftartbot/gift-art-bot/internal/arbitrage"
	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// ScanEventChannel is the signal bus channel scan results are published on.
const ScanEventChannel = "arb"

// AnalysisConfig holds the tunable parameters for the profit model.
type AnalysisConfig struct {
	MinProfit   float64
	SellFeeRate float64
	BuyFeeRate  float64
}

// AnalysisService runs cross-marketplace scans: fetch both sides, run the
// arbitrage engine, publish the result on the signal bus.
type AnalysisService struct {
	markets *MarketService
	bus     domain.SignalBus
	cfg     AnalysisConfig
	logger  *slog.Logger
}

// NewAnalysisService creates an AnalysisService. bus may be nil when nothing
// subscribes to scan events.
func NewAnalysisService(markets *MarketService, bus domain.SignalBus, cfg AnalysisConfig, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		markets: markets,
		bus:     bus,
		cfg:     cfg,
		logger:  logger,
	}
}

// Scan performs one full analysis run over the given price band and returns
// the ranked result. Marketplace outages degrade the scan rather than fail
// it; only invalid parameters produce an error.
func (s *AnalysisService) Scan(ctx context.Context, band domain.PriceBand) (domain.ScanResult, error) {
	listings, err := s.markets.FetchAll(ctx)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("analysis_service: fetch listings: %w", err)
	}

	tonnel := listings[domain.MarketTonnel]
	portals := listings[domain.MarketPortals]

	opps, err := arbitrage.Analyze(tonnel, portals, arbitrage.Params{
		Band:        band,
		MinProfit:   s.cfg.MinProfit,
		SellFeeRate: s.cfg.SellFeeRate,
		BuyFeeRate:  s.cfg.BuyFeeRate,
	})
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("analysis_service: analyze: %w", err)
	}

	result := domain.ScanResult{
		ScanID:        uuid.NewString(),
		Band:          band,
		TonnelItems:   len(tonnel),
		PortalsItems:  len(portals),
		Opportunities: opps,
		ScannedAt:     time.Now().UTC(),
	}

	s.logger.InfoContext(ctx, "analysis_service: scan complete",
		slog.String("scan_id", result.ScanID),
		slog.Int("tonnel_items", result.TonnelItems),
		slog.Int("portals_items", result.PortalsItems),
		slog.Int("opportunities", len(opps)),
	)

	s.publish(ctx, result)
	return result, nil
}

// publish pushes the scan result to the signal bus. Publish failures are
// logged and swallowed; the scan itself already succeeded.
func (s *AnalysisService) publish(ctx context.Context, result domain.ScanResult) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.logger.WarnContext(ctx, "analysis_service: marshal scan result failed",
			slog.String("scan_id", result.ScanID),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.bus.Publish(ctx, ScanEventChannel, payload); err != nil {
		s.logger.WarnContext(ctx, "analysis_service: publish scan result failed",
			slog.String("scan_id", result.ScanID),
			slog.String("error", err.Error()),
		)
	}
}
