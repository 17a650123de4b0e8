package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"equityLens/config"
	"equityLens/internal/adapters/binanceclient"
	"equityLens/internal/adapters/logger"
	"equityLens/internal/adapters/sqlite"
	"equityLens/internal/app"
)

func main() {
	symbol := flag.String("symbol", "ETHUSDT", "futures symbol")
	days := flag.Int("days", 90, "how many days of history to fetch")
	dataset := flag.String("dataset", "", "dataset name (defaults to the symbol)")
	flag.Parse()
	if *dataset == "" {
		*dataset = *symbol
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}
	if err := cfg.RequireExchangeCredentials(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}

	// 4. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		repo.Close()
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	if err := binanceClient.Ping(ctx); err != nil {
		repo.Close()
		log.Fatalf("FATAL: Binance is unreachable: %v", err)
	}

	service, err := app.NewAnalysisService(cfg, appLogger, repo, repo, binanceClient)
	if err != nil {
		repo.Close()
		log.Fatalf("FATAL: Failed to initialize analysis service: %v", err)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -*days)
	trades, err := service.ImportFromExchange(ctx, *dataset, *symbol, start, end, true)
	if closeErr := repo.Close(); closeErr != nil {
		appLogger.Error(ctx, closeErr, "Error closing database repository")
	}
	if err != nil {
		appLogger.Error(ctx, err, "Error fetching trades")
		os.Exit(1)
	}
	appLogger.Info(ctx, "Fetched trades", map[string]interface{}{"dataset": *dataset, "count": len(trades)})
}
