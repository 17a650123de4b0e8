package domain

// MonteCarloData is a set of simulated equity paths. Every path starts at the
// same starting equity.
type MonteCarloData [][]float64

// MonteCarloSummaryStats aggregates a set of simulated equity paths.
type MonteCarloSummaryStats struct {
	PositiveRuns       int     // Paths ending above the starting equity
	NegativeRuns       int     // Paths ending at or below the starting equity
	SuccessRate        float64 // PositiveRuns / total runs
	MaxEquity          float64 // Highest terminal equity
	MinEquity          float64 // Lowest terminal equity
	MaxEquityPercent   float64 // MaxEquity relative to the starting equity, minus one
	MinEquityPercent   float64 // MinEquity relative to the starting equity, minus one
	MaxDrawdown        float64 // Worst absolute drawdown seen in any path
	MaxDrawdownPercent float64 // Worst percentage drawdown seen in any path
}
