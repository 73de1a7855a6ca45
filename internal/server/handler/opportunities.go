package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Giftartbot/gift-art-bot/internal/domain"
	"github.com/Giftartbot/gift-art-bot/internal/service"
)

// defaultLimit caps the opportunity list when the client does not ask for a
// specific size.
const defaultLimit = 10

// OpportunitiesHandler runs an on-demand scan and returns the ranked
// opportunity list.
type OpportunitiesHandler struct {
	analysis *service.AnalysisService
	logger   *slog.Logger
}

// NewOpportunitiesHandler creates an OpportunitiesHandler.
func NewOpportunitiesHandler(analysis *service.AnalysisService, logger *slog.Logger) *OpportunitiesHandler {
	return &OpportunitiesHandler{
		analysis: analysis,
		logger:   logger.With(slog.String("handler", "opportunities")),
	}
}

// ListOpportunities scans both marketplaces and responds with the ranked
// result, truncated to the requested limit.
// GET /api/opportunities?min=1&max=10&limit=10
func (h *OpportunitiesHandler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	band := domain.PriceBand{
		Min: queryFloat(r, "min", 0),
		Max: queryFloat(r, "max", 0),
	}
	limit := queryInt(r, "limit", defaultLimit)

	result, err := h.analysis.Scan(r.Context(), band)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "scan failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	total := len(result.Opportunities)
	if total > limit {
		result.Opportunities = result.Opportunities[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scan_id":       result.ScanID,
		"band":          result.Band,
		"tonnel_items":  result.TonnelItems,
		"portals_items": result.PortalsItems,
		"total":         total,
		"opportunities": result.Opportunities,
		"scanned_at":    result.ScannedAt,
	})
}
