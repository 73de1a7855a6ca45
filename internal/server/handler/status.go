package handler

import (
	"net/http"
	"time"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
)

// StatusHandler reports runtime metadata for dashboards.
type StatusHandler struct {
	mode      string
	markets   []domain.Market
	startedAt time.Time
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(mode string, markets []domain.Market, startedAt time.Time) *StatusHandler {
	return &StatusHandler{mode: mode, markets: markets, startedAt: startedAt}
}

// GetStatus responds with the current mode, monitored markets and uptime.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":           h.mode,
		"markets":        h.markets,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}
