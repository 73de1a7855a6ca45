package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Giftartbot/gift-art-bot/internal/bot"
	"github.com/Giftartbot/gift-art-bot/internal/config"
	"github.com/Giftartbot/gift-art-bot/internal/domain"
	"github.com/Giftartbot/gift-art-bot/internal/notify"
	"github.com/Giftartbot/gift-art-bot/internal/server"
	"github.com/Giftartbot/gift-art-bot/internal/server/handler"
	"github.com/Giftartbot/gift-art-bot/internal/server/ws"
	"github.com/Giftartbot/gift-art-bot/internal/service"
)

// services bundles the service layer built on top of the wired dependencies.
type services struct {
	analysis *service.AnalysisService
	access   *service.AccessService
}

func (a *App) buildServices(deps *Dependencies) *services {
	markets := service.NewMarketService(deps.Sources, deps.SnapshotCache, a.logger)
	analysis := service.NewAnalysisService(markets, deps.SignalBus, service.AnalysisConfig{
		MinProfit:   a.cfg.Arbitrage.MinProfit,
		SellFeeRate: a.cfg.Arbitrage.SellFeeRate,
		BuyFeeRate:  a.cfg.Arbitrage.BuyFeeRate,
	}, a.logger)
	access := service.NewAccessService(
		deps.AccessStore,
		time.Duration(a.cfg.Access.DurationHours)*time.Hour,
		a.logger,
	)
	return &services{analysis: analysis, access: access}
}

func bandsFromConfig(bands []config.BandConfig) []domain.PriceBand {
	out := make([]domain.PriceBand, 0, len(bands))
	for _, b := range bands {
		out = append(out, domain.PriceBand{Min: b.Min, Max: b.Max})
	}
	return out
}

// BotMode runs the Telegram chat front end, plus the HTTP server if enabled.
func (a *App) BotMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting bot mode")

	if deps.Telegram == nil {
		return fmt.Errorf("bot mode: telegram token not configured")
	}

	svcs := a.buildServices(deps)
	g, ctx := errgroup.WithContext(ctx)

	chatBot := bot.New(
		deps.Telegram,
		svcs.analysis,
		svcs.access,
		bandsFromConfig(a.cfg.Arbitrage.Bands),
		time.Duration(a.cfg.Telegram.PollTimeoutSec)*time.Second,
		a.logger,
	)
	g.Go(func() error {
		return chatBot.Run(ctx)
	})

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps, svcs)
	}

	return g.Wait()
}

// ScanMode runs a single scan over the configured watch band, pushes
// notifications, and exits.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	svcs := a.buildServices(deps)
	band := domain.PriceBand{Min: a.cfg.Watch.Band.Min, Max: a.cfg.Watch.Band.Max}

	result, err := svcs.analysis.Scan(ctx, band)
	if err != nil {
		return fmt.Errorf("scan mode: %w", err)
	}

	for _, opp := range result.Opportunities {
		a.logger.InfoContext(ctx, "opportunity",
			slog.String("item", opp.ItemName),
			slog.String("buy_market", opp.BuyMarket.String()),
			slog.Float64("buy_price", opp.BuyPrice),
			slog.String("sell_market", opp.SellMarket.String()),
			slog.Float64("sell_price", opp.SellPrice),
			slog.Float64("profit", opp.Profit),
		)
	}

	if err := deps.Notifier.NotifyScan(ctx, result); err != nil {
		a.logger.WarnContext(ctx, "scan mode: notify failed",
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// WatchMode scans periodically and pushes notifications when opportunities
// appear. The HTTP server runs alongside if enabled.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting watch mode",
		slog.Duration("interval", a.cfg.Watch.Interval.Duration),
	)

	svcs := a.buildServices(deps)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.watchLoop(ctx, deps.Notifier, svcs)
	})

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps, svcs)
	}

	return g.Wait()
}

// FullMode runs the chat front end and the watch loop together, plus the
// HTTP server if enabled.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	if deps.Telegram == nil {
		return fmt.Errorf("full mode: telegram token not configured")
	}

	svcs := a.buildServices(deps)
	g, ctx := errgroup.WithContext(ctx)

	chatBot := bot.New(
		deps.Telegram,
		svcs.analysis,
		svcs.access,
		bandsFromConfig(a.cfg.Arbitrage.Bands),
		time.Duration(a.cfg.Telegram.PollTimeoutSec)*time.Second,
		a.logger,
	)
	g.Go(func() error {
		return chatBot.Run(ctx)
	})

	g.Go(func() error {
		return a.watchLoop(ctx, deps.Notifier, svcs)
	})

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps, svcs)
	}

	return g.Wait()
}

// watchLoop scans on the configured interval until the context is cancelled.
// Scan failures are logged; the loop keeps going.
func (a *App) watchLoop(ctx context.Context, notifier *notify.Notifier, svcs *services) error {
	band := domain.PriceBand{Min: a.cfg.Watch.Band.Min, Max: a.cfg.Watch.Band.Max}

	runOnce := func() {
		result, err := svcs.analysis.Scan(ctx, band)
		if err != nil {
			a.logger.ErrorContext(ctx, "watch: scan failed",
				slog.String("error", err.Error()),
			)
			if nerr := notifier.Notify(ctx, notify.EventError, "Scan failed", err.Error()); nerr != nil {
				a.logger.WarnContext(ctx, "watch: notify failed",
					slog.String("error", nerr.Error()),
				)
			}
			return
		}
		if err := notifier.NotifyScan(ctx, result); err != nil {
			a.logger.WarnContext(ctx, "watch: notify failed",
				slog.String("error", err.Error()),
			)
		}
	}

	runOnce()
	ticker := time.NewTicker(a.cfg.Watch.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			runOnce()
		}
	}
}

// startHTTPServer adds the HTTP server and, when the signal bus is wired,
// the WebSocket hub to the given errgroup. The server shuts down gracefully
// on context cancellation.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, svcs *services) {
	markets := make([]domain.Market, 0, len(deps.Sources))
	for _, src := range deps.Sources {
		markets = append(markets, src.Market())
	}

	var hub *ws.Hub
	if deps.SignalBus != nil {
		hub = ws.NewHub(deps.SignalBus, service.ScanEventChannel, a.cfg.Mode, a.logger)
		g.Go(func() error {
			return hub.Run(ctx)
		})
	}

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health:        handler.NewHealthHandler(),
			Status:        handler.NewStatusHandler(a.cfg.Mode, markets, time.Now().UTC()),
			Opportunities: handler.NewOpportunitiesHandler(svcs.analysis, a.logger),
		},
		hub,
		a.logger,
	)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}
