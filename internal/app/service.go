package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equityLens/config"
	"equityLens/internal/analytics"
	"equityLens/internal/domain"
	"equityLens/internal/montecarlo"
	"equityLens/internal/normalizer"
	"equityLens/internal/ports"
	"equityLens/internal/projection"
)

// AnalysisService orchestrates loading trade logs and running the analytics on them.
type AnalysisService struct {
	cfg     *config.Config
	logger  ports.Logger
	trades  ports.TradeRepository
	runs    ports.SimulationRepository
	history ports.TradeHistorySource // Optional, only needed for exchange imports

	newSimulator func(seed int64) *montecarlo.Simulator
}

// NewAnalysisService creates a new application service instance.
// history may be nil when exchange imports are not used.
func NewAnalysisService(
	cfg *config.Config,
	logger ports.Logger,
	trades ports.TradeRepository,
	runs ports.SimulationRepository,
	history ports.TradeHistorySource,
) (*AnalysisService, error) {
	if cfg == nil || logger == nil || trades == nil || runs == nil {
		return nil, fmt.Errorf("missing required dependencies for AnalysisService")
	}
	if cfg.StartingEquity <= 0 {
		return nil, fmt.Errorf("configuration StartingEquity must be positive")
	}

	return &AnalysisService{
		cfg:          cfg,
		logger:       logger,
		trades:       trades,
		runs:         runs,
		history:      history,
		newSimulator: montecarlo.NewSimulator,
	}, nil
}

// TradeFilter narrows a dataset before analysis. Zero values leave it untouched.
type TradeFilter struct {
	Sources     []string // Keep only trades imported from these sources
	From        time.Time
	To          time.Time
	RemoveBest  int
	RemoveWorst int
}

// ImportRows normalizes raw rows, tags them with source and stores them as
// dataset. With merge set, the rows are combined with the trades already
// stored under that name.
func (s *AnalysisService) ImportRows(ctx context.Context, dataset, source string, rows []domain.RawTradeRow, merge bool) ([]domain.TradeRecord, error) {
	trades, err := normalizer.Normalize(rows)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to normalize trade rows", map[string]interface{}{"dataset": dataset, "rows": len(rows)})
		return nil, fmt.Errorf("import %s: %w", dataset, err)
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("import %s: %w: no trades in input", dataset, ports.ErrInsufficientData)
	}
	normalizer.TagSource(trades, source)

	if merge {
		existing, err := s.trades.FindTrades(ctx, dataset)
		switch {
		case err == nil:
			trades = normalizer.Merge(existing, trades)
		case !errors.Is(err, ports.ErrNotFound):
			return nil, fmt.Errorf("import %s: load existing trades: %w", dataset, err)
		}
	}

	if err := s.trades.SaveTrades(ctx, dataset, trades); err != nil {
		s.logger.Error(ctx, err, "Failed to save dataset", map[string]interface{}{"dataset": dataset})
		return nil, fmt.Errorf("import %s: %w", dataset, err)
	}
	s.logger.Info(ctx, "Dataset imported", map[string]interface{}{"dataset": dataset, "source": source, "trades": len(trades), "merged": merge})
	return trades, nil
}

// ImportFromExchange pulls fills for symbol, folds them into round trips and
// stores them as dataset.
func (s *AnalysisService) ImportFromExchange(ctx context.Context, dataset, symbol string, start, end time.Time, merge bool) ([]domain.TradeRecord, error) {
	if s.history == nil {
		return nil, fmt.Errorf("import %s: %w: no trade history source configured", dataset, ports.ErrConfigurationError)
	}
	fills, err := s.history.FetchFills(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("import %s: fetch fills: %w", dataset, err)
	}
	rows := normalizer.FoldFills(fills)
	s.logger.Info(ctx, "Folded exchange fills into trades", map[string]interface{}{
		"symbol": symbol, "fills": len(fills), "trades": len(rows) / 2,
	})
	return s.ImportRows(ctx, dataset, symbol, rows, merge)
}

// LoadTrades reads a dataset and applies the filter: sources, then date range,
// then removal of the best and worst trades.
func (s *AnalysisService) LoadTrades(ctx context.Context, dataset string, f TradeFilter) ([]domain.TradeRecord, error) {
	trades, err := s.trades.FindTrades(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dataset, err)
	}
	trades = normalizer.FilterBySource(trades, f.Sources...)
	if !f.From.IsZero() || !f.To.IsZero() {
		trades = normalizer.FilterByDateRange(trades, f.From, f.To)
	}
	if f.RemoveBest > 0 {
		if trades, err = normalizer.RemoveBest(trades, f.RemoveBest); err != nil {
			return nil, fmt.Errorf("load %s: %w", dataset, err)
		}
	}
	if f.RemoveWorst > 0 {
		if trades, err = normalizer.RemoveWorst(trades, f.RemoveWorst); err != nil {
			return nil, fmt.Errorf("load %s: %w", dataset, err)
		}
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("load %s: %w: filter left no trades", dataset, ports.ErrInsufficientData)
	}
	return trades, nil
}

// Datasets lists the stored dataset names.
func (s *AnalysisService) Datasets(ctx context.Context) ([]string, error) {
	return s.trades.ListDatasets(ctx)
}

// DeleteDataset removes a stored dataset.
func (s *AnalysisService) DeleteDataset(ctx context.Context, dataset string) error {
	if err := s.trades.DeleteDataset(ctx, dataset); err != nil {
		return fmt.Errorf("delete %s: %w", dataset, err)
	}
	s.logger.Info(ctx, "Dataset deleted", map[string]interface{}{"dataset": dataset})
	return nil
}

// Report is the full descriptive analysis of one dataset.
type Report struct {
	Trades          []domain.TradeRecord
	Metrics         *domain.TradeMetrics
	Summary         domain.SummaryStats
	SummaryErr      error // Ratios that could not be computed, if any
	Monthly         []domain.MonthlyProfit
	DrawdownPeriods []analytics.DrawdownPeriod
}

// Analyze builds metrics and summary statistics for a dataset.
func (s *AnalysisService) Analyze(ctx context.Context, dataset string, f TradeFilter) (*Report, error) {
	trades, err := s.LoadTrades(ctx, dataset, f)
	if err != nil {
		return nil, err
	}
	metrics, err := analytics.BuildMetrics(trades, s.cfg.StartingEquity)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", dataset, err)
	}

	summary, sumErr := analytics.Summarize(metrics, s.cfg.RiskFreeRate)
	if sumErr != nil {
		s.logger.Warn(ctx, "Some summary ratios are undefined for this dataset", map[string]interface{}{
			"dataset": dataset, "reason": sumErr.Error(),
		})
	}

	report := &Report{
		Trades:          trades,
		Metrics:         metrics,
		Summary:         summary,
		SummaryErr:      sumErr,
		Monthly:         analytics.MonthlyProfit(trades),
		DrawdownPeriods: analytics.DrawdownPeriods(metrics.Dates, metrics.Equity),
	}
	s.logger.Info(ctx, "Dataset analyzed", map[string]interface{}{
		"dataset":     dataset,
		"trades":      summary.TotalTrades,
		"winRate":     summary.WinRate,
		"totalProfit": summary.TotalProfit,
		"maxDrawdown": summary.MaxDrawdown,
	})
	return report, nil
}

// MonteCarloResult holds the trimmed, best-first paths and their aggregates.
type MonteCarloResult struct {
	RunID       int64
	Paths       domain.MonteCarloData
	Average     []float64
	Stats       domain.MonteCarloSummaryStats
	Percentiles []float64 // 5th, 50th and 95th percentile of final equity
}

// RunMonteCarlo resamples the dataset's trade profits, trims the configured
// number of best and worst paths and stores the aggregate statistics.
func (s *AnalysisService) RunMonteCarlo(ctx context.Context, dataset string, f TradeFilter) (*MonteCarloResult, error) {
	trades, err := s.LoadTrades(ctx, dataset, f)
	if err != nil {
		return nil, err
	}
	profits := make([]float64, len(trades))
	for i, t := range trades {
		profits[i] = t.ExitProfit
	}

	params := montecarlo.Params{Trials: s.cfg.MCTrials, Points: s.cfg.MCPoints, StartingEquity: s.cfg.StartingEquity}
	seed := s.cfg.MCSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	paths, err := s.newSimulator(seed).SimulateTrials(profits, params)
	if err != nil {
		return nil, fmt.Errorf("monte carlo %s: %w", dataset, err)
	}
	paths, err = montecarlo.TrimRuns(montecarlo.SortByTerminalDescending(paths), s.cfg.MCRemoveHigh, s.cfg.MCRemoveLow)
	if err != nil {
		return nil, fmt.Errorf("monte carlo %s: %w", dataset, err)
	}

	stats, err := montecarlo.AggregateStats(paths)
	if err != nil {
		return nil, fmt.Errorf("monte carlo %s: %w", dataset, err)
	}
	average, err := montecarlo.AverageOfArrays(paths)
	if err != nil {
		return nil, fmt.Errorf("monte carlo %s: %w", dataset, err)
	}
	percentiles, err := montecarlo.TerminalPercentiles(paths, 5, 50, 95)
	if err != nil {
		return nil, fmt.Errorf("monte carlo %s: %w", dataset, err)
	}

	run := &ports.MonteCarloRun{
		Dataset:        dataset,
		Trials:         params.Trials,
		Points:         params.Points,
		RemovedHigh:    s.cfg.MCRemoveHigh,
		RemovedLow:     s.cfg.MCRemoveLow,
		StartingEquity: params.StartingEquity,
		Seed:           seed,
		Stats:          stats,
	}
	id, err := s.runs.SaveRun(ctx, run)
	if err != nil {
		// The simulation itself succeeded; keep the result.
		s.logger.Error(ctx, err, "Failed to persist Monte Carlo run", map[string]interface{}{"dataset": dataset})
	}

	s.logger.Info(ctx, "Monte Carlo simulation complete", map[string]interface{}{
		"dataset":     dataset,
		"trials":      params.Trials,
		"kept":        len(paths),
		"successRate": stats.SuccessRate,
		"maxDrawdown": stats.MaxDrawdown,
		"seed":        seed,
	})
	return &MonteCarloResult{RunID: id, Paths: paths, Average: average, Stats: stats, Percentiles: percentiles}, nil
}

// RecentRuns returns the latest stored Monte Carlo runs for a dataset.
func (s *AnalysisService) RecentRuns(ctx context.Context, dataset string, limit int) ([]*ports.MonteCarloRun, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.runs.FindRuns(ctx, dataset, limit)
}

// ConeResult holds the two confidence bands projected from a dataset.
type ConeResult struct {
	Method  domain.ConeMethod
	Metrics *domain.TradeMetrics
	Inner   domain.ProbabilityConeData // CONE_STDDEV_A band
	Outer   domain.ProbabilityConeData // CONE_STDDEV_B band
	Average []float64                  // Straight line through the historical equity
}

// Cones projects the configured pair of probability cones for a dataset.
func (s *AnalysisService) Cones(ctx context.Context, dataset string, f TradeFilter) (*ConeResult, error) {
	trades, err := s.LoadTrades(ctx, dataset, f)
	if err != nil {
		return nil, err
	}
	metrics, err := analytics.BuildMetrics(trades, s.cfg.StartingEquity)
	if err != nil {
		return nil, fmt.Errorf("cones %s: %w", dataset, err)
	}

	params := projection.ConeParams{FuturePoints: s.cfg.ConeFuturePoints, StartPercentage: s.cfg.ConeStartPercentage}
	bands, err := projection.Bands(s.cfg.ConeMethod, metrics, params, s.cfg.ConeStdDevA, s.cfg.ConeStdDevB)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to project probability cones", map[string]interface{}{"dataset": dataset, "method": s.cfg.ConeMethod})
		return nil, fmt.Errorf("cones %s: %w", dataset, err)
	}

	s.logger.Debug(ctx, "Probability cones projected", map[string]interface{}{
		"dataset": dataset, "method": s.cfg.ConeMethod, "points": params.FuturePoints,
	})
	return &ConeResult{
		Method:  s.cfg.ConeMethod,
		Metrics: metrics,
		Inner:   bands[0],
		Outer:   bands[1],
		Average: projection.LinearAverageEquity(metrics.Equity),
	}, nil
}
