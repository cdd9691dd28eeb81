package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// Scanner defines the scan operation the handler requires.
type Scanner interface {
	Scan(ctx context.Context, selectedExchanges []string) (*domain.ScanResult, error)
}

// FundingArbHandler serves the funding-rate arbitrage endpoint: the single
// synchronous request/response contract the presentation layer consumes.
type FundingArbHandler struct {
	scanner Scanner
	logger  *slog.Logger
}

// NewFundingArbHandler creates a FundingArbHandler.
func NewFundingArbHandler(scanner Scanner, logger *slog.Logger) *FundingArbHandler {
	return &FundingArbHandler{
		scanner: scanner,
		logger:  logger.With(slog.String("handler", "funding_arbitrage")),
	}
}

// GetOpportunities runs one scan for the requested exchange selection.
// GET /api/funding-arbitrage?exchanges=Binance,OKX
//
// Unknown exchange names are silently dropped; an absent or fully-filtered
// parameter selects every known exchange. Unrecoverable failures surface as
// a structured 500, never a raw provider payload.
func (h *FundingArbHandler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	selected := domain.SelectExchanges(splitCSV(r.URL.Query().Get("exchanges")))

	res, err := h.scanner.Scan(r.Context(), selected)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "scan failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError,
			"failed to compute funding arbitrage opportunities", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}
