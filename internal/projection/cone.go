// Package projection projects future equity ranges (probability cones) from
// the return statistics of a historical window of the equity curve.
package projection

import (
	"fmt"
	"math"
	"time"

	"equityLens/internal/analytics"
	"equityLens/internal/domain"
	"equityLens/internal/ports"
	"equityLens/internal/utils"
)

// ConeParams controls one cone projection.
type ConeParams struct {
	StdDevMultiplier float64 // Width of the band in standard deviations (k)
	FuturePoints     int     // Number of projected points
	StartPercentage  float64 // Share of the equity curve used as history, in (0, 1]
}

// DefaultConeParams returns a 2σ, 30-point cone starting at 90% of the curve.
func DefaultConeParams() ConeParams {
	return ConeParams{StdDevMultiplier: 2, FuturePoints: 30, StartPercentage: 0.9}
}

// window is the part of the curve the statistics come from.
type window struct {
	equity     []float64
	dates      []time.Time
	retained   []time.Time // Dates after the window, reused as future dates
	lastEquity float64
}

func historicalWindow(m *domain.TradeMetrics, p ConeParams) (*window, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil metrics", ports.ErrInvalidRequest)
	}
	if len(m.Dates) != len(m.Equity) {
		return nil, fmt.Errorf("%w: %d dates, %d equity points", ports.ErrLengthMismatch, len(m.Dates), len(m.Equity))
	}
	if p.FuturePoints < 1 {
		return nil, fmt.Errorf("%w: future points must be positive, got %d", ports.ErrInvalidRequest, p.FuturePoints)
	}
	if p.StartPercentage <= 0 || p.StartPercentage > 1 {
		return nil, fmt.Errorf("%w: start percentage must be in (0, 1], got %v", ports.ErrInvalidRequest, p.StartPercentage)
	}

	h := int(math.Floor(float64(len(m.Equity)) * p.StartPercentage))
	if h < 2 {
		return nil, fmt.Errorf("%w: %d historical points, need at least 2", ports.ErrInsufficientData, h)
	}
	return &window{
		equity:     m.Equity[:h],
		dates:      m.Dates[:h],
		retained:   m.Dates[h:],
		lastEquity: m.Equity[h-1],
	}, nil
}

// futureDates reuses retained dates first and extends them by the window's
// average interval until count dates exist.
func (w *window) futureDates(count int) []time.Time {
	dates := make([]time.Time, 0, count)
	for _, d := range w.retained {
		if len(dates) == count {
			return dates
		}
		dates = append(dates, d)
	}

	delta := analytics.AverageTimeDelta(w.dates)
	last := w.dates[len(w.dates)-1]
	if len(w.retained) > 0 {
		last = w.retained[len(w.retained)-1]
	}
	for i := 1; len(dates) < count; i++ {
		dates = append(dates, last.Add(time.Duration(i)*delta))
	}
	return dates
}

// ExponentialCone compounds the mean per-step percentage return, widened by
// k standard deviations: last * exp((mean ± kσ) * sqrt(i+1)).
func ExponentialCone(m *domain.TradeMetrics, p ConeParams) (domain.ProbabilityConeData, error) {
	w, err := historicalWindow(m, p)
	if err != nil {
		return domain.ProbabilityConeData{}, fmt.Errorf("exponential cone: %w", err)
	}

	// Only the h-1 observed steps count: no zero return is padded in front and
	// the mean and σ divide by h-1, not h.
	returns := make([]float64, 0, len(w.equity)-1)
	for i := 1; i < len(w.equity); i++ {
		if w.equity[i-1] == 0 {
			return domain.ProbabilityConeData{}, fmt.Errorf("exponential cone: %w: zero equity at point %d", ports.ErrDegenerateDistribution, i-1)
		}
		returns = append(returns, (w.equity[i]-w.equity[i-1])/w.equity[i-1])
	}
	mean := utils.Mean(returns)
	width := p.StdDevMultiplier * utils.StdDev(returns)

	cone := domain.ProbabilityConeData{
		FutureDates: w.futureDates(p.FuturePoints),
		UpperCone:   make([]float64, p.FuturePoints),
		LowerCone:   make([]float64, p.FuturePoints),
	}
	for i := 0; i < p.FuturePoints; i++ {
		t := math.Sqrt(float64(i + 1))
		cone.UpperCone[i] = w.lastEquity * math.Exp((mean+width)*t)
		cone.LowerCone[i] = w.lastEquity * math.Exp((mean-width)*t)
	}
	return cone, nil
}

// LinearCone extends the mean absolute equity change per step, with a band of
// k standard deviations growing with sqrt(i+1).
func LinearCone(m *domain.TradeMetrics, p ConeParams) (domain.ProbabilityConeData, error) {
	w, err := historicalWindow(m, p)
	if err != nil {
		return domain.ProbabilityConeData{}, fmt.Errorf("linear cone: %w", err)
	}

	// Same h-1 observed steps as ExponentialCone, without zero padding.
	deltas := make([]float64, 0, len(w.equity)-1)
	for i := 1; i < len(w.equity); i++ {
		deltas = append(deltas, w.equity[i]-w.equity[i-1])
	}
	mean := utils.Mean(deltas)
	width := p.StdDevMultiplier * utils.StdDev(deltas)

	cone := domain.ProbabilityConeData{
		FutureDates: w.futureDates(p.FuturePoints),
		UpperCone:   make([]float64, p.FuturePoints),
		LowerCone:   make([]float64, p.FuturePoints),
	}
	for i := 0; i < p.FuturePoints; i++ {
		step := float64(i + 1)
		center := w.lastEquity + mean*step
		spread := math.Sqrt(step) * width
		cone.UpperCone[i] = center + spread
		cone.LowerCone[i] = center - spread
	}
	return cone, nil
}

// Cone dispatches to the projection selected by method.
func Cone(method domain.ConeMethod, m *domain.TradeMetrics, p ConeParams) (domain.ProbabilityConeData, error) {
	switch method {
	case domain.ConeExponential:
		return ExponentialCone(m, p)
	case domain.ConeLinear:
		return LinearCone(m, p)
	default:
		return domain.ProbabilityConeData{}, fmt.Errorf("%w: unknown cone method %q", ports.ErrInvalidRequest, method)
	}
}

// Bands computes one independent cone per multiplier, typically 1σ and 2σ.
// p.StdDevMultiplier is ignored.
func Bands(method domain.ConeMethod, m *domain.TradeMetrics, p ConeParams, multipliers ...float64) ([]domain.ProbabilityConeData, error) {
	bands := make([]domain.ProbabilityConeData, 0, len(multipliers))
	for _, k := range multipliers {
		p.StdDevMultiplier = k
		cone, err := Cone(method, m, p)
		if err != nil {
			return nil, fmt.Errorf("band %vσ: %w", k, err)
		}
		bands = append(bands, cone)
	}
	return bands, nil
}

// LinearAverageEquity returns the straight line from the first to the last
// equity value, one point per equity value.
func LinearAverageEquity(equity []float64) []float64 {
	n := len(equity)
	if n == 0 {
		return nil
	}
	line := make([]float64, n)
	if n == 1 {
		line[0] = equity[0]
		return line
	}
	step := (equity[n-1] - equity[0]) / float64(n-1)
	for i := range line {
		line[i] = equity[0] + float64(i)*step
	}
	return line
}

// ParseMethod converts a configuration string into a ConeMethod.
func ParseMethod(s string) (domain.ConeMethod, error) {
	switch domain.ConeMethod(s) {
	case domain.ConeExponential, domain.ConeLinear:
		return domain.ConeMethod(s), nil
	default:
		return "", fmt.Errorf("%w: unknown cone method %q", ports.ErrInvalidRequest, s)
	}
}
