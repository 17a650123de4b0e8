package montecarlo

import (
	"fmt"

	"equityLens/internal/analytics"
	"equityLens/internal/domain"
	"equityLens/internal/ports"
)

// AggregateStats summarizes simulated paths. The starting equity is read from
// data[0][0]; all paths are expected to share it. A path ending exactly at the
// starting equity counts as negative. Drawdown maxima are the worst single
// values seen in any path.
func AggregateStats(data domain.MonteCarloData) (domain.MonteCarloSummaryStats, error) {
	var stats domain.MonteCarloSummaryStats
	if len(data) == 0 {
		return stats, fmt.Errorf("aggregate stats: %w: no paths", ports.ErrInsufficientData)
	}
	for i, path := range data {
		if len(path) == 0 {
			return stats, fmt.Errorf("aggregate stats: %w: path %d is empty", ports.ErrInsufficientData, i)
		}
	}

	start := data[0][0]
	stats.MaxEquity = start
	stats.MinEquity = start
	for _, path := range data {
		last := path[len(path)-1]
		if last > start {
			stats.PositiveRuns++
		} else {
			stats.NegativeRuns++
		}
		if last > stats.MaxEquity {
			stats.MaxEquity = last
		}
		if last < stats.MinEquity {
			stats.MinEquity = last
		}

		value, percent := analytics.MaxDrawdown(analytics.Drawdowns(path))
		if value > stats.MaxDrawdown {
			stats.MaxDrawdown = value
		}
		if percent > stats.MaxDrawdownPercent {
			stats.MaxDrawdownPercent = percent
		}
	}

	stats.SuccessRate = float64(stats.PositiveRuns) / float64(stats.PositiveRuns+stats.NegativeRuns)
	if start == 0 {
		return stats, fmt.Errorf("aggregate stats: %w: starting equity is zero", ports.ErrDegenerateDistribution)
	}
	stats.MaxEquityPercent = stats.MaxEquity/start - 1
	stats.MinEquityPercent = stats.MinEquity/start - 1
	return stats, nil
}
