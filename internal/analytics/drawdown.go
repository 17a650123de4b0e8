package analytics

import (
	"time"

	"equityLens/internal/domain"
)

// Drawdowns measures each equity value against the running peak.
// The percent is 0 while the peak is not positive.
func Drawdowns(equity []float64) []domain.DrawdownPoint {
	points := make([]domain.DrawdownPoint, len(equity))
	if len(equity) == 0 {
		return points
	}
	peak := equity[0]
	for i, v := range equity {
		if v > peak {
			peak = v
		}
		dd := peak - v
		if dd < 0 {
			dd = 0
		}
		pct := 0.0
		if peak > 0 {
			pct = dd / peak
		}
		points[i] = domain.DrawdownPoint{Value: dd, Percent: pct}
	}
	return points
}

// MaxDrawdown returns the largest absolute and percentage drawdown. The two
// maxima are taken independently and may come from different points.
func MaxDrawdown(points []domain.DrawdownPoint) (value, percent float64) {
	for _, p := range points {
		if p.Value > value {
			value = p.Value
		}
		if p.Percent > percent {
			percent = p.Percent
		}
	}
	return value, percent
}

// DrawdownPeriod is one stretch below a previous equity peak.
type DrawdownPeriod struct {
	StartTime   time.Time // Date of the peak
	EndTime     time.Time // Date of recovery, or the last date if still open
	PeakValue   float64
	TroughValue float64
	Depth       float64 // Deepest percentage below the peak
	Recovered   bool
}

// Duration returns the length of the period.
func (p DrawdownPeriod) Duration() time.Duration {
	return p.EndTime.Sub(p.StartTime)
}

// DrawdownPeriods splits an equity curve into peak-to-recovery periods.
// dates and equity must have the same length.
func DrawdownPeriods(dates []time.Time, equity []float64) []DrawdownPeriod {
	var periods []DrawdownPeriod
	if len(equity) == 0 || len(dates) != len(equity) {
		return periods
	}

	peak, peakAt := equity[0], dates[0]
	var current *DrawdownPeriod
	for i := 1; i < len(equity); i++ {
		v := equity[i]
		if v >= peak {
			if current != nil {
				current.EndTime = dates[i]
				current.Recovered = true
				periods = append(periods, *current)
				current = nil
			}
			peak, peakAt = v, dates[i]
			continue
		}

		depth := 0.0
		if peak > 0 {
			depth = (peak - v) / peak
		}
		if current == nil {
			current = &DrawdownPeriod{StartTime: peakAt, PeakValue: peak, TroughValue: v, Depth: depth}
			continue
		}
		if v < current.TroughValue {
			current.TroughValue = v
			current.Depth = depth
		}
	}

	if current != nil {
		current.EndTime = dates[len(dates)-1]
		periods = append(periods, *current)
	}
	return periods
}
