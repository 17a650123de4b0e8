package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.TradeRepository and ports.SimulationRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository opens (creating if needed) the database and verifies the schema.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	ctx := context.Background()
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/equitylens.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(ctx, err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(ctx, err, "SQLite repository initialization failed")
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(ctx, err, "SQLite repository initialization failed")
		return nil, err
	}

	// A single connection serializes writers; SQLite locks the whole file anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(ctx); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(ctx, err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(ctx, "SQLite database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trade_records (
		dataset TEXT NOT NULL,
		trade_no INTEGER NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		entry_type TEXT NOT NULL,
		entry_signal TEXT NOT NULL,
		entry_date TIMESTAMP NOT NULL,
		entry_price REAL NOT NULL,
		entry_contracts REAL NOT NULL,
		entry_profit REAL NOT NULL,
		entry_profit_pct REAL NOT NULL,
		entry_cum_profit REAL NOT NULL,
		entry_cum_profit_pct REAL NOT NULL,
		entry_run_up REAL NOT NULL,
		entry_run_up_pct REAL NOT NULL,
		entry_drawdown REAL NOT NULL,
		entry_drawdown_pct REAL NOT NULL,
		exit_type TEXT NOT NULL,
		exit_signal TEXT NOT NULL,
		exit_date TIMESTAMP NOT NULL,
		exit_price REAL NOT NULL,
		exit_contracts REAL NOT NULL,
		exit_profit REAL NOT NULL,
		exit_profit_pct REAL NOT NULL,
		exit_cum_profit REAL NOT NULL,
		exit_cum_profit_pct REAL NOT NULL,
		exit_run_up REAL NOT NULL,
		exit_run_up_pct REAL NOT NULL,
		exit_drawdown REAL NOT NULL,
		exit_drawdown_pct REAL NOT NULL,
		PRIMARY KEY (dataset, trade_no)
	);

	CREATE TABLE IF NOT EXISTS monte_carlo_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset TEXT NOT NULL,
		trials INTEGER NOT NULL,
		points INTEGER NOT NULL,
		removed_high INTEGER NOT NULL,
		removed_low INTEGER NOT NULL,
		starting_equity REAL NOT NULL,
		seed INTEGER NOT NULL,
		positive_runs INTEGER NOT NULL,
		negative_runs INTEGER NOT NULL,
		success_rate REAL NOT NULL,
		max_equity REAL NOT NULL,
		min_equity REAL NOT NULL,
		max_equity_pct REAL NOT NULL,
		min_equity_pct REAL NOT NULL,
		max_drawdown REAL NOT NULL,
		max_drawdown_pct REAL NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_monte_carlo_runs_dataset_created ON monte_carlo_runs (dataset, created_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: failed to execute schema initialization: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- TradeRepository Implementation ---

// SaveTrades replaces the dataset's trades inside one transaction.
func (r *Repository) SaveTrades(ctx context.Context, dataset string, trades []domain.TradeRecord) (err error) {
	if dataset == "" {
		return fmt.Errorf("%w: dataset name is required", ports.ErrInvalidRequest)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ports.ErrQueryFailed, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM trade_records WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("%w: clear dataset %s: %v", ports.ErrQueryFailed, dataset, err)
	}

	const query = `
	INSERT INTO trade_records (dataset, trade_no, source,
		entry_type, entry_signal, entry_date, entry_price, entry_contracts, entry_profit, entry_profit_pct,
		entry_cum_profit, entry_cum_profit_pct, entry_run_up, entry_run_up_pct, entry_drawdown, entry_drawdown_pct,
		exit_type, exit_signal, exit_date, exit_price, exit_contracts, exit_profit, exit_profit_pct,
		exit_cum_profit, exit_cum_profit_pct, exit_run_up, exit_run_up_pct, exit_drawdown, exit_drawdown_pct)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: prepare trade insert: %v", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err = stmt.ExecContext(ctx, dataset, t.TradeNo, t.Source,
			t.EntryType, t.EntrySignal, t.EntryDate.UTC(), t.EntryPrice, t.EntryContracts, t.EntryProfit, t.EntryProfitPct,
			t.EntryCumProfit, t.EntryCumProfitPct, t.EntryRunUp, t.EntryRunUpPct, t.EntryDrawdown, t.EntryDrawdownPct,
			t.ExitType, t.ExitSignal, t.ExitDate.UTC(), t.ExitPrice, t.ExitContracts, t.ExitProfit, t.ExitProfitPct,
			t.ExitCumProfit, t.ExitCumProfitPct, t.ExitRunUp, t.ExitRunUpPct, t.ExitDrawdown, t.ExitDrawdownPct,
		); err != nil {
			return fmt.Errorf("%w: insert trade %d of %s: %v", ports.ErrQueryFailed, t.TradeNo, dataset, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit dataset %s: %v", ports.ErrQueryFailed, dataset, err)
	}
	r.logger.Debug(ctx, "Dataset saved", map[string]interface{}{"dataset": dataset, "trades": len(trades)})
	return nil
}

// FindTrades retrieves a dataset ordered by trade number.
func (r *Repository) FindTrades(ctx context.Context, dataset string) ([]domain.TradeRecord, error) {
	const query = `
	SELECT trade_no, source,
		entry_type, entry_signal, entry_date, entry_price, entry_contracts, entry_profit, entry_profit_pct,
		entry_cum_profit, entry_cum_profit_pct, entry_run_up, entry_run_up_pct, entry_drawdown, entry_drawdown_pct,
		exit_type, exit_signal, exit_date, exit_price, exit_contracts, exit_profit, exit_profit_pct,
		exit_cum_profit, exit_cum_profit_pct, exit_run_up, exit_run_up_pct, exit_drawdown, exit_drawdown_pct
	FROM trade_records
	WHERE dataset = ?
	ORDER BY trade_no ASC`

	rows, err := r.db.QueryContext(ctx, query, dataset)
	if err != nil {
		return nil, fmt.Errorf("%w: query dataset %s: %v", ports.ErrQueryFailed, dataset, err)
	}
	defer rows.Close()

	trades := make([]domain.TradeRecord, 0)
	for rows.Next() {
		t, err := scanTradeRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan trade in %s: %v", ports.ErrQueryFailed, dataset, err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate dataset %s: %v", ports.ErrQueryFailed, dataset, err)
	}
	if len(trades) == 0 {
		return nil, fmt.Errorf("dataset %s: %w", dataset, ports.ErrNotFound)
	}
	return trades, nil
}

// ListDatasets returns the distinct dataset names, sorted.
func (r *Repository) ListDatasets(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT dataset FROM trade_records ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("%w: list datasets: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan dataset name: %v", ports.ErrQueryFailed, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate datasets: %v", ports.ErrQueryFailed, err)
	}
	return names, nil
}

// DeleteDataset removes every trade of a dataset.
func (r *Repository) DeleteDataset(ctx context.Context, dataset string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trade_records WHERE dataset = ?`, dataset)
	if err != nil {
		return fmt.Errorf("%w: delete dataset %s: %v", ports.ErrQueryFailed, dataset, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for dataset %s: %v", ports.ErrQueryFailed, dataset, err)
	}
	if n == 0 {
		return fmt.Errorf("dataset %s: %w", dataset, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Dataset deleted", map[string]interface{}{"dataset": dataset, "trades": n})
	return nil
}

// --- SimulationRepository Implementation ---

// SaveRun persists a Monte Carlo run and returns its assigned ID.
func (r *Repository) SaveRun(ctx context.Context, run *ports.MonteCarloRun) (int64, error) {
	const query = `
	INSERT INTO monte_carlo_runs (dataset, trials, points, removed_high, removed_low, starting_equity, seed,
		positive_runs, negative_runs, success_rate, max_equity, min_equity, max_equity_pct, min_equity_pct,
		max_drawdown, max_drawdown_pct, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	s := run.Stats
	result, err := r.db.ExecContext(ctx, query,
		run.Dataset, run.Trials, run.Points, run.RemovedHigh, run.RemovedLow, run.StartingEquity, run.Seed,
		s.PositiveRuns, s.NegativeRuns, s.SuccessRate, s.MaxEquity, s.MinEquity, s.MaxEquityPercent, s.MinEquityPercent,
		s.MaxDrawdown, s.MaxDrawdownPercent, run.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: insert monte carlo run for %s: %v", ports.ErrQueryFailed, run.Dataset, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert ID for monte carlo run: %v", ports.ErrQueryFailed, err)
	}
	run.ID = id
	r.logger.Debug(ctx, "Monte Carlo run saved", map[string]interface{}{"runID": id, "dataset": run.Dataset})
	return id, nil
}

// FindRuns retrieves the most recent runs for a dataset, up to a limit.
func (r *Repository) FindRuns(ctx context.Context, dataset string, limit int) ([]*ports.MonteCarloRun, error) {
	const query = `
	SELECT id, dataset, trials, points, removed_high, removed_low, starting_equity, seed,
		positive_runs, negative_runs, success_rate, max_equity, min_equity, max_equity_pct, min_equity_pct,
		max_drawdown, max_drawdown_pct, created_at
	FROM monte_carlo_runs
	WHERE dataset = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, dataset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query monte carlo runs for %s: %v", ports.ErrQueryFailed, dataset, err)
	}
	defer rows.Close()

	runs := make([]*ports.MonteCarloRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan monte carlo run: %v", ports.ErrQueryFailed, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate monte carlo runs: %v", ports.ErrQueryFailed, err)
	}
	return runs, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTradeRecord(s scanner) (domain.TradeRecord, error) {
	var t domain.TradeRecord
	err := s.Scan(&t.TradeNo, &t.Source,
		&t.EntryType, &t.EntrySignal, &t.EntryDate, &t.EntryPrice, &t.EntryContracts, &t.EntryProfit, &t.EntryProfitPct,
		&t.EntryCumProfit, &t.EntryCumProfitPct, &t.EntryRunUp, &t.EntryRunUpPct, &t.EntryDrawdown, &t.EntryDrawdownPct,
		&t.ExitType, &t.ExitSignal, &t.ExitDate, &t.ExitPrice, &t.ExitContracts, &t.ExitProfit, &t.ExitProfitPct,
		&t.ExitCumProfit, &t.ExitCumProfitPct, &t.ExitRunUp, &t.ExitRunUpPct, &t.ExitDrawdown, &t.ExitDrawdownPct)
	return t, err
}

func scanRun(s scanner) (*ports.MonteCarloRun, error) {
	run := &ports.MonteCarloRun{}
	st := &run.Stats
	err := s.Scan(&run.ID, &run.Dataset, &run.Trials, &run.Points, &run.RemovedHigh, &run.RemovedLow,
		&run.StartingEquity, &run.Seed,
		&st.PositiveRuns, &st.NegativeRuns, &st.SuccessRate, &st.MaxEquity, &st.MinEquity,
		&st.MaxEquityPercent, &st.MinEquityPercent, &st.MaxDrawdown, &st.MaxDrawdownPercent, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return run, nil
}
