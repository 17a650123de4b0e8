package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"equityLens/internal/adapters/logger"
	"equityLens/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Analysis
	StartingEquity float64
	RiskFreeRate   float64

	// Monte Carlo
	MCTrials     int
	MCPoints     int
	MCRemoveHigh int   // Best runs dropped before aggregation
	MCRemoveLow  int   // Worst runs dropped before aggregation
	MCSeed       int64 // 0 seeds from the clock

	// Probability cones
	ConeMethod          domain.ConeMethod
	ConeFuturePoints    int
	ConeStartPercentage float64
	ConeStdDevA         float64 // Inner band multiplier
	ConeStdDevB         float64 // Outer band multiplier

	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel
	LogFormat string // "text" or "json"

	// Binance API, only needed to fetch trade history
	APIKey    string
	SecretKey string
	IsTestnet bool
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string

	cfg.StartingEquity, err = getEnvAsFloatRequired("STARTING_EQUITY", 10000)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STARTING_EQUITY: %v", err))
	} else if cfg.StartingEquity <= 0 {
		errs = append(errs, "STARTING_EQUITY must be positive")
	}

	cfg.RiskFreeRate, err = getEnvAsFloatRequired("RISK_FREE_RATE", 0.02)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RISK_FREE_RATE: %v", err))
	}

	cfg.MCTrials, err = getEnvAsIntRequired("MC_TRIALS", 100)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MC_TRIALS: %v", err))
	} else if cfg.MCTrials <= 0 {
		errs = append(errs, "MC_TRIALS must be positive")
	}

	cfg.MCPoints, err = getEnvAsIntRequired("MC_POINTS", 100)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MC_POINTS: %v", err))
	} else if cfg.MCPoints < 0 {
		errs = append(errs, "MC_POINTS cannot be negative")
	}

	cfg.MCRemoveHigh = getEnvAsInt("MC_REMOVE_HIGH", 0)
	cfg.MCRemoveLow = getEnvAsInt("MC_REMOVE_LOW", 0)
	if cfg.MCRemoveHigh < 0 || cfg.MCRemoveLow < 0 {
		errs = append(errs, "MC_REMOVE_HIGH and MC_REMOVE_LOW cannot be negative")
	} else if cfg.MCTrials > 0 && cfg.MCRemoveHigh+cfg.MCRemoveLow >= cfg.MCTrials {
		errs = append(errs, "MC_REMOVE_HIGH + MC_REMOVE_LOW must be less than MC_TRIALS")
	}

	seed, err := getEnvAsIntRequired("MC_SEED", 0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MC_SEED: %v", err))
	}
	cfg.MCSeed = int64(seed)

	cfg.ConeMethod = domain.ConeMethod(strings.ToLower(getEnv("CONE_METHOD", string(domain.ConeExponential))))
	if cfg.ConeMethod != domain.ConeExponential && cfg.ConeMethod != domain.ConeLinear {
		errs = append(errs, fmt.Sprintf("CONE_METHOD must be %q or %q", domain.ConeExponential, domain.ConeLinear))
	}

	cfg.ConeFuturePoints, err = getEnvAsIntRequired("CONE_FUTURE_POINTS", 30)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CONE_FUTURE_POINTS: %v", err))
	} else if cfg.ConeFuturePoints <= 0 {
		errs = append(errs, "CONE_FUTURE_POINTS must be positive")
	}

	cfg.ConeStartPercentage, err = getEnvAsFloatRequired("CONE_START_PERCENTAGE", 0.9)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CONE_START_PERCENTAGE: %v", err))
	} else if cfg.ConeStartPercentage <= 0 || cfg.ConeStartPercentage > 1 {
		errs = append(errs, "CONE_START_PERCENTAGE must be in (0, 1]")
	}

	cfg.ConeStdDevA = getEnvAsFloat("CONE_STDDEV_A", 1)
	cfg.ConeStdDevB = getEnvAsFloat("CONE_STDDEV_B", 2)
	if cfg.ConeStdDevA <= 0 || cfg.ConeStdDevB <= 0 {
		errs = append(errs, "CONE_STDDEV_A and CONE_STDDEV_B must be positive")
	}

	cfg.DBPath = getEnv("DB_PATH", "./data/equitylens.db")

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, "LOG_FORMAT must be text or json")
	}

	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// RequireExchangeCredentials reports whether the Binance keys are set.
func (c *Config) RequireExchangeCredentials() error {
	var errs []string
	if c.APIKey == "" {
		errs = append(errs, "BINANCE_API_KEY must be set")
	}
	if c.SecretKey == "" {
		errs = append(errs, "BINANCE_API_SECRET must be set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := getEnvAsIntRequired(key, defaultValue)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsIntRequired falls back to the default when unset but rejects malformed values.
func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := getEnvAsFloatRequired(key, defaultValue)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
