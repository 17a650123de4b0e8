package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/ports"
	"equityLens/internal/utils"
)

// Summarize computes SummaryStats from metrics. Ratios that are undefined for
// the data (zero drawdown, zero-length period, flat returns) are left at 0 and
// reported through the returned error, which joins one error per ratio.
// Missing or inconsistent metrics fail outright with zero stats.
func Summarize(m *domain.TradeMetrics, riskFreeRate float64) (domain.SummaryStats, error) {
	var s domain.SummaryStats
	if m == nil || m.TradeCount() == 0 {
		return s, fmt.Errorf("summarize: %w: no trades", ports.ErrInsufficientData)
	}
	if len(m.Equity) != m.TradeCount()+1 || len(m.Dates) != len(m.Equity) {
		return s, fmt.Errorf("summarize: %w: %d dates, %d equity points, %d trades",
			ports.ErrLengthMismatch, len(m.Dates), len(m.Equity), m.TradeCount())
	}
	if m.StartingEquity <= 0 {
		return s, fmt.Errorf("summarize: %w: starting equity must be positive, got %v", ports.ErrInvalidRequest, m.StartingEquity)
	}

	profits := m.NetProfit
	var wins, losses []float64
	var grossWin, grossLoss float64
	var streakWin, streakLoss int
	for _, p := range profits {
		switch {
		case p > 0:
			wins = append(wins, p)
			grossWin += p
			streakWin++
			streakLoss = 0
		case p < 0:
			losses = append(losses, p)
			grossLoss += p
			streakLoss++
			streakWin = 0
		default:
			streakWin, streakLoss = 0, 0
		}
		if streakWin > s.MaxConsecutiveWins {
			s.MaxConsecutiveWins = streakWin
		}
		if streakLoss > s.MaxConsecutiveLosses {
			s.MaxConsecutiveLosses = streakLoss
		}
	}

	s.TotalTrades = len(profits)
	s.WinningTrades = len(wins)
	s.LosingTrades = len(losses)
	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades)

	s.TotalProfit = utils.Sum(profits)
	s.AverageProfit = utils.Mean(profits)
	s.AverageProfitWin = utils.Mean(wins)
	s.AverageProfitLoss = utils.Mean(losses)
	s.MedianProfit = utils.Median(profits)
	s.MedianProfitWin = utils.Median(wins)
	s.MedianProfitLoss = utils.Median(losses)
	s.FirstStdDev = utils.StdDev(profits)
	s.SecondStdDev = 2 * s.FirstStdDev
	s.MaxProfit = utils.Max(profits)
	s.MinProfit = utils.Min(profits)
	s.Expectancy = s.AverageProfit
	if grossLoss != 0 {
		s.ProfitFactor = grossWin / -grossLoss
	}

	s.FinalEquity = m.Equity[len(m.Equity)-1]
	s.TotalReturnPercent = (s.FinalEquity - m.StartingEquity) / m.StartingEquity * 100

	drawdowns := Drawdowns(m.Equity)
	s.MaxDrawdown, s.MaxDrawdownPercent = MaxDrawdown(drawdowns)
	ddValues := make([]float64, len(drawdowns))
	for i, d := range drawdowns {
		ddValues[i] = d.Value
	}
	s.AverageDrawdown = utils.Mean(ddValues)

	var errs []error
	annualized, err := AnnualizedReturnPercent(s.TotalReturnPercent, m.Dates[1], m.Dates[len(m.Dates)-1])
	if err != nil {
		errs = append(errs, err)
	} else {
		s.AnnualizedReturnPercent = annualized
		if s.MAR, err = MAR(annualized, s.MaxDrawdownPercent); err != nil {
			errs = append(errs, err)
		}
	}
	if s.NetProfitByAvgDrawdown, err = NetProfitByAvgDrawdown(s.TotalProfit, s.AverageDrawdown); err != nil {
		errs = append(errs, err)
	}
	if s.SharpeRatio, err = SharpeRatio(m.Dates, m.Equity, riskFreeRate); err != nil {
		errs = append(errs, err)
	}

	return s, errors.Join(errs...)
}

// AnnualizedReturnPercent compounds totalReturnPercent over the period between
// from and to, using 365-day years. A loss of 100% or more annualizes to -100.
func AnnualizedReturnPercent(totalReturnPercent float64, from, to time.Time) (float64, error) {
	years := to.Sub(from).Hours() / yearDuration.Hours()
	if years <= 0 {
		return 0, fmt.Errorf("annualized return: %w: trading period is %v", ports.ErrInsufficientData, to.Sub(from))
	}
	growth := 1 + totalReturnPercent/100
	if growth <= 0 {
		return -100, nil
	}
	return (math.Pow(growth, 1/years) - 1) * 100, nil
}

// MAR divides the annualized return percent by the max drawdown, both in percent.
func MAR(annualizedReturnPercent, maxDrawdownPercent float64) (float64, error) {
	if maxDrawdownPercent == 0 {
		return 0, fmt.Errorf("MAR: %w: no drawdown", ports.ErrDegenerateDistribution)
	}
	return annualizedReturnPercent / (maxDrawdownPercent * 100), nil
}

// NetProfitByAvgDrawdown divides total profit by the mean drawdown value.
func NetProfitByAvgDrawdown(totalProfit, averageDrawdown float64) (float64, error) {
	if averageDrawdown == 0 {
		return 0, fmt.Errorf("net profit by drawdown: %w: average drawdown is zero", ports.ErrDegenerateDistribution)
	}
	return totalProfit / averageDrawdown, nil
}

// SharpeRatio computes the mean annualized log return in excess of
// riskFreeRate, divided by the sample standard deviation of those excess
// returns. Each interval's log return is annualized by its own length, so no
// further scaling is applied. Intervals with a non-positive duration or
// non-positive equity on either side are skipped.
func SharpeRatio(dates []time.Time, equity []float64, riskFreeRate float64) (float64, error) {
	if len(dates) != len(equity) {
		return 0, fmt.Errorf("sharpe ratio: %w: %d dates, %d equity points", ports.ErrLengthMismatch, len(dates), len(equity))
	}

	excess := make([]float64, 0, len(equity))
	for i := 1; i < len(equity); i++ {
		years := dates[i].Sub(dates[i-1]).Hours() / yearDuration.Hours()
		if years <= 0 || equity[i-1] <= 0 || equity[i] <= 0 {
			continue
		}
		r := math.Log(equity[i]/equity[i-1]) / years
		excess = append(excess, r-riskFreeRate)
	}
	if len(excess) < 2 {
		return 0, fmt.Errorf("sharpe ratio: %w: %d usable intervals", ports.ErrNoValidIntervals, len(excess))
	}

	sd := utils.SampleStdDev(excess)
	if sd == 0 {
		return 0, fmt.Errorf("sharpe ratio: %w: constant returns", ports.ErrDegenerateDistribution)
	}
	return utils.Mean(excess) / sd, nil
}
