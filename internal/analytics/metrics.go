// Package analytics derives equity curves, drawdowns and summary statistics
// from ordered trade records.
package analytics

import (
	"errors"
	"fmt"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/ports"
	"equityLens/internal/utils"
)

const (
	// DefaultTimeDelta is used when fewer than two dates exist to average over.
	DefaultTimeDelta = 24 * time.Hour

	// DefaultRiskFreeRate is the annual risk-free rate used by SharpeRatio.
	DefaultRiskFreeRate = 0.02

	yearDuration = 365 * 24 * time.Hour
)

// AverageTimeDelta returns the mean gap between consecutive dates.
// With fewer than two dates, or a non-positive mean, it returns DefaultTimeDelta.
func AverageTimeDelta(dates []time.Time) time.Duration {
	if len(dates) < 2 {
		return DefaultTimeDelta
	}
	// The mean of consecutive gaps telescopes to the overall span.
	delta := dates[len(dates)-1].Sub(dates[0]) / time.Duration(len(dates)-1)
	if delta <= 0 {
		return DefaultTimeDelta
	}
	return delta
}

// BuildMetrics derives the equity curve and per-trade series for trades sorted
// by exit date. A synthetic point one average interval before the first exit
// carries the starting equity.
//
// ZScores is left nil when every trade has the same profit; call ZScores
// directly to get the typed failure.
func BuildMetrics(trades []domain.TradeRecord, startingEquity float64) (*domain.TradeMetrics, error) {
	if len(trades) == 0 {
		return nil, fmt.Errorf("build metrics: %w: no trades", ports.ErrInsufficientData)
	}
	if startingEquity <= 0 {
		return nil, fmt.Errorf("build metrics: %w: starting equity must be positive, got %v", ports.ErrInvalidRequest, startingEquity)
	}

	exitDates := make([]time.Time, len(trades))
	for i, t := range trades {
		if i > 0 && t.ExitDate.Before(trades[i-1].ExitDate) {
			return nil, fmt.Errorf("build metrics: %w: trade %d exits before trade %d", ports.ErrInvalidRequest, t.TradeNo, trades[i-1].TradeNo)
		}
		exitDates[i] = t.ExitDate
	}

	n := len(trades)
	m := &domain.TradeMetrics{
		Dates:          make([]time.Time, 0, n+1),
		Equity:         make([]float64, 0, n+1),
		NetProfit:      make([]float64, 0, n),
		CumNetProfit:   make([]float64, 0, n),
		StartingEquity: startingEquity,
	}

	m.Dates = append(m.Dates, exitDates[0].Add(-AverageTimeDelta(exitDates)))
	m.Dates = append(m.Dates, exitDates...)

	equity := startingEquity
	cum := 0.0
	m.Equity = append(m.Equity, equity)
	for _, t := range trades {
		equity += t.ExitProfit
		cum += t.ExitProfit
		m.Equity = append(m.Equity, equity)
		m.NetProfit = append(m.NetProfit, t.ExitProfit)
		m.CumNetProfit = append(m.CumNetProfit, cum)
	}

	z, err := ZScores(m.NetProfit)
	switch {
	case err == nil:
		m.ZScores = z
	case !errors.Is(err, ports.ErrDegenerateDistribution):
		return nil, fmt.Errorf("build metrics: %w", err)
	}
	return m, nil
}

// ZScores standardizes profits against their mean and population standard deviation.
func ZScores(profits []float64) ([]float64, error) {
	if len(profits) == 0 {
		return nil, fmt.Errorf("z-scores: %w", ports.ErrInsufficientData)
	}
	mean := utils.Mean(profits)
	sd := utils.StdDev(profits)
	if sd == 0 {
		return nil, fmt.Errorf("z-scores: %w", ports.ErrDegenerateDistribution)
	}
	out := make([]float64, len(profits))
	for i, p := range profits {
		out[i] = (p - mean) / sd
	}
	return out, nil
}
