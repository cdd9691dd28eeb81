package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/fundingscan/internal/domain"
	"github.com/alanyoungcy/fundingscan/internal/notify"
)

// AlertService notifies operators when a scan surfaces an unusually rich
// opportunity. Delivery failures are logged, never propagated: alerting is a
// side channel of the scan, not part of its contract.
type AlertService struct {
	notifier      *notify.Notifier
	minAnnualized float64
	logger        *slog.Logger
}

// NewAlertService creates an AlertService that fires when the top-ranked
// opportunity's annualized return reaches minAnnualized.
func NewAlertService(notifier *notify.Notifier, minAnnualized float64, logger *slog.Logger) *AlertService {
	return &AlertService{
		notifier:      notifier,
		minAnnualized: minAnnualized,
		logger:        logger.With(slog.String("component", "alert_service")),
	}
}

// Evaluate inspects a ranked scan result and sends a funding_alert when the
// top opportunity clears the threshold.
func (a *AlertService) Evaluate(ctx context.Context, res *domain.ScanResult) {
	if a.minAnnualized <= 0 || len(res.Opportunities) == 0 {
		return
	}
	top := res.Opportunities[0]
	if top.AnnualizedReturn < a.minAnnualized {
		return
	}

	title := fmt.Sprintf("Funding arbitrage: %s at %.1f%% annualized", top.Symbol, top.AnnualizedReturn*100)
	message := fmt.Sprintf("%s | spread %.4f%% (%s %.4f%% vs %s %.4f%%) | est. volume $%.0f",
		top.Direction,
		top.Spread*100,
		top.ExchangeHigh.Exchange, top.ExchangeHigh.Rate*100,
		top.ExchangeLow.Exchange, top.ExchangeLow.Rate*100,
		top.Volume24h.Value,
	)

	if err := a.notifier.Notify(ctx, "funding_alert", title, message); err != nil {
		a.logger.Warn("alert delivery failed", slog.String("error", err.Error()))
	}
}
