package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for fatal errors before a logger exists
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"equityLens/config"
	"equityLens/internal/adapters/binanceclient"
	"equityLens/internal/adapters/logger"
	"equityLens/internal/adapters/sqlite"
	"equityLens/internal/app"
	"equityLens/internal/ports"
	"equityLens/internal/projection"
)

const dateLayout = "2006-01-02"

func main() {
	cliApp := &cli.App{
		Name:  "equitylens",
		Usage: "analyze trade logs: equity curve, drawdowns, probability cones and Monte Carlo resampling",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (overrides DB_PATH)"},
			&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (overrides LOG_FORMAT)"},
		},
		Commands: []*cli.Command{
			importCommand(),
			fetchCommand(),
			datasetsCommand(),
			summaryCommand(),
			monteCarloCommand(),
			runsCommand(),
			conesCommand(),
			exportCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// runtime bundles the wired application for one command invocation.
type runtime struct {
	cfg     *config.Config
	logger  ports.Logger
	repo    *sqlite.Repository
	service *app.AnalysisService
	sync    func() error
}

// newRuntime loads configuration, applies global flag overrides and wires the
// service. The exchange client is only built when withExchange is set.
func newRuntime(c *cli.Context, withExchange bool) (*runtime, error) {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if v := c.String("db"); v != "" {
		cfg.DBPath = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = logger.ParseLevel(v)
	}
	if v := c.String("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if err := applyOverrides(c, cfg); err != nil {
		return nil, err
	}

	// 2. Initialize Logger
	rt := &runtime{cfg: cfg, sync: func() error { return nil }}
	if cfg.LogFormat == "json" {
		zl, err := logger.NewZapLogger(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to build zap logger: %w", err)
		}
		rt.logger, rt.sync = zl, zl.Sync
	} else {
		rt.logger = logger.NewStdLogger(cfg.LogLevel)
	}
	ctx := c.Context
	rt.logger.Debug(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize Repository (Database Adapter)
	rt.repo, err = sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: rt.logger})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database repository: %w", err)
	}

	// 4. Initialize Exchange Client (Binance Adapter), only for fetches
	var history ports.TradeHistorySource
	if withExchange {
		if err := cfg.RequireExchangeCredentials(); err != nil {
			rt.Close()
			return nil, err
		}
		client, err := binanceclient.New(binanceclient.Config{
			APIKey:     cfg.APIKey,
			SecretKey:  cfg.SecretKey,
			UseTestnet: cfg.IsTestnet,
			Logger:     rt.logger,
		})
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to initialize Binance client: %w", err)
		}
		if err := client.SetServerTime(ctx); err != nil {
			rt.logger.Warn(ctx, "Could not sync server time", map[string]interface{}{"error": err.Error()})
		}
		history = client
	}

	// 5. Initialize Application Service
	rt.service, err = app.NewAnalysisService(cfg, rt.logger, rt.repo, rt.repo, history)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to initialize analysis service: %w", err)
	}
	return rt, nil
}

// Close releases the database and flushes buffered log entries.
func (rt *runtime) Close() {
	if err := rt.repo.Close(); err != nil {
		rt.logger.Error(context.Background(), err, "Error closing database repository")
	}
	_ = rt.sync()
}

// filterFlags are shared by every command that reads a dataset.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "dataset", Aliases: []string{"d"}, Value: "default", Usage: "dataset name"},
		&cli.StringSliceFlag{Name: "source", Usage: "keep only trades imported from this file or symbol (repeatable)"},
		&cli.StringFlag{Name: "from", Usage: "keep trades exiting on or after this date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "to", Usage: "keep trades exiting on or before this date (YYYY-MM-DD, inclusive)"},
		&cli.IntFlag{Name: "remove-best", Usage: "drop the N most profitable trades"},
		&cli.IntFlag{Name: "remove-worst", Usage: "drop the N least profitable trades"},
		&cli.Float64Flag{Name: "equity", Usage: "starting equity (overrides STARTING_EQUITY)"},
	}
}

func tradeFilter(c *cli.Context) (app.TradeFilter, error) {
	f := app.TradeFilter{Sources: c.StringSlice("source"), RemoveBest: c.Int("remove-best"), RemoveWorst: c.Int("remove-worst")}
	var err error
	if f.From, err = parseDate(c.String("from"), false); err != nil {
		return f, err
	}
	if f.To, err = parseDate(c.String("to"), true); err != nil {
		return f, err
	}
	return f, nil
}

// parseDate reads a YYYY-MM-DD flag in UTC. endOfDay moves the result to the
// last instant of that day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ports.ErrInvalidRequest, s)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}

// applyOverrides copies analysis flags onto the loaded configuration.
func applyOverrides(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("equity") {
		if v := c.Float64("equity"); v > 0 {
			cfg.StartingEquity = v
		} else {
			return fmt.Errorf("%w: --equity must be positive", ports.ErrInvalidRequest)
		}
	}
	if c.IsSet("trials") {
		cfg.MCTrials = c.Int("trials")
	}
	if c.IsSet("points") {
		cfg.MCPoints = c.Int("points")
	}
	if c.IsSet("remove-high") {
		cfg.MCRemoveHigh = c.Int("remove-high")
	}
	if c.IsSet("remove-low") {
		cfg.MCRemoveLow = c.Int("remove-low")
	}
	if c.IsSet("seed") {
		cfg.MCSeed = c.Int64("seed")
	}
	if c.IsSet("method") {
		method, err := projection.ParseMethod(c.String("method"))
		if err != nil {
			return err
		}
		cfg.ConeMethod = method
	}
	if c.IsSet("future-points") {
		cfg.ConeFuturePoints = c.Int("future-points")
	}
	if c.IsSet("start") {
		cfg.ConeStartPercentage = c.Float64("start")
	}
	return nil
}
