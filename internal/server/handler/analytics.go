package handler

import "net/http"

// AnalyticsHandler serves the static analytics summary consumed by the
// dashboard's risk/performance panel. The figures are fixed illustrative
// values; the endpoint performs no computation.
type AnalyticsHandler struct{}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{}
}

// Summary returns the fixed risk/performance figures.
// GET /api/analytics/summary
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"risk": map[string]any{
			"max_drawdown_pct":   4.2,
			"sharpe_ratio":       2.1,
			"exposure_limit_usd": 250000,
			"hedged_ratio":       0.97,
		},
		"performance": map[string]any{
			"avg_annualized_pct":    12.8,
			"win_rate_pct":          68.5,
			"avg_holding_hours":     36,
			"funding_collected_usd": 18250,
		},
		"note": "illustrative figures, not computed from live positions",
	})
}
