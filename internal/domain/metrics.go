package domain

import "time"

// TradeMetrics holds the derived time series for an ordered set of trades.
// Dates and Equity have one more element than NetProfit: index 0 is a
// synthetic pre-trade point carrying the starting equity.
type TradeMetrics struct {
	Dates          []time.Time
	Equity         []float64
	NetProfit      []float64
	CumNetProfit   []float64
	ZScores        []float64
	StartingEquity float64
}

// TradeCount returns the number of trades behind the metrics.
func (m *TradeMetrics) TradeCount() int {
	return len(m.NetProfit)
}

// DrawdownPoint is the distance of one equity value from its running peak.
type DrawdownPoint struct {
	Value   float64 // Absolute distance below the peak, never negative
	Percent float64 // Value relative to the peak, in [0, 1] for positive equity
}

// SummaryStats is a snapshot of statistics derived from one TradeMetrics.
type SummaryStats struct {
	// Counts
	TotalTrades          int
	WinningTrades        int
	LosingTrades         int
	WinRate              float64
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int

	// Profit distribution
	TotalProfit       float64
	AverageProfit     float64
	AverageProfitWin  float64
	AverageProfitLoss float64
	MedianProfit      float64
	MedianProfitWin   float64
	MedianProfitLoss  float64
	FirstStdDev       float64 // One standard deviation of per-trade profit
	SecondStdDev      float64 // Two standard deviations of per-trade profit
	MaxProfit         float64
	MinProfit         float64
	ProfitFactor      float64
	Expectancy        float64

	// Equity and drawdown
	FinalEquity             float64
	TotalReturnPercent      float64
	AnnualizedReturnPercent float64
	MaxDrawdown             float64
	MaxDrawdownPercent      float64
	AverageDrawdown         float64

	// Risk-adjusted ratios
	MAR                    float64
	NetProfitByAvgDrawdown float64
	SharpeRatio            float64
}

// MonthlyProfit is the realized profit of all trades closed in one month.
type MonthlyProfit struct {
	Month  time.Time
	Profit float64
}
