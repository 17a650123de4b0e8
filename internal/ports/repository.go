package ports

import (
	"context"
	"time"

	"equityLens/internal/domain"
)

// TradeRepository stores normalized trade logs grouped into named datasets.
type TradeRepository interface {
	// SaveTrades replaces the content of a dataset with the given trades.
	SaveTrades(ctx context.Context, dataset string, trades []domain.TradeRecord) error
	// FindTrades retrieves the trades of a dataset ordered by trade number.
	// Returns ErrNotFound if the dataset holds no trades.
	FindTrades(ctx context.Context, dataset string) ([]domain.TradeRecord, error)
	// ListDatasets returns the names of all stored datasets, sorted.
	ListDatasets(ctx context.Context) ([]string, error)
	// DeleteDataset removes every trade of a dataset.
	DeleteDataset(ctx context.Context, dataset string) error
}

// MonteCarloRun describes one persisted simulation request and its outcome.
type MonteCarloRun struct {
	ID             int64
	Dataset        string
	Trials         int
	Points         int
	RemovedHigh    int
	RemovedLow     int
	StartingEquity float64
	Seed           int64
	Stats          domain.MonteCarloSummaryStats
	CreatedAt      time.Time
}

// SimulationRepository stores Monte Carlo run summaries.
type SimulationRepository interface {
	// SaveRun persists a run and returns its assigned ID.
	SaveRun(ctx context.Context, run *MonteCarloRun) (int64, error)
	// FindRuns retrieves the most recent runs for a dataset, up to a limit.
	FindRuns(ctx context.Context, dataset string, limit int) ([]*MonteCarloRun, error)
}
