package arbitrage

import (
	"sort"
	"time"

	"github.com/alanyoungcy/fundingscan/internal/domain"
)

// Rank sorts opportunities by spread descending (stable: ties keep their
// discovery order) and computes the batch statistics. Nothing is truncated
// here; callers slice top-N themselves.
func Rank(opps []domain.ArbitrageOpportunity, totalSymbols, processedSymbols, selectedExchanges int) ([]domain.ArbitrageOpportunity, domain.RunStatistics) {
	sorted := append([]domain.ArbitrageOpportunity(nil), opps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Spread > sorted[j].Spread })

	stats := domain.RunStatistics{
		TotalSymbols:       totalSymbols,
		ProcessedSymbols:   processedSymbols,
		OpportunitiesFound: len(sorted),
		SelectedExchanges:  selectedExchanges,
		DataSources: domain.DataSources{
			Volume:       dominantSource(sorted, func(o domain.ArbitrageOpportunity) string { return o.Volume24h.Source }),
			OpenInterest: dominantSource(sorted, func(o domain.ArbitrageOpportunity) string { return o.OpenInterest.Source }),
		},
		GeneratedAt: time.Now().UTC(),
	}
	return sorted, stats
}

// dominantSource returns the provenance label that supplied the most
// opportunities in one category, or "None" for an empty batch. Ties resolve
// to the label encountered first.
func dominantSource(opps []domain.ArbitrageOpportunity, get func(domain.ArbitrageOpportunity) string) string {
	if len(opps) == 0 {
		return "None"
	}
	counts := make(map[string]int)
	var order []string
	for _, o := range opps {
		label := get(o)
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}
	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best
}
