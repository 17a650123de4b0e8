package config

import (
	"testing"

	"equityLens/internal/adapters/logger"
	"equityLens/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"STARTING_EQUITY", "RISK_FREE_RATE", "MC_TRIALS", "MC_POINTS", "MC_REMOVE_HIGH", "MC_REMOVE_LOW",
		"MC_SEED", "CONE_METHOD", "CONE_FUTURE_POINTS", "CONE_START_PERCENTAGE", "CONE_STDDEV_A",
		"CONE_STDDEV_B", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "BINANCE_API_KEY", "BINANCE_API_SECRET", "IS_TESTNET",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10000.0, cfg.StartingEquity)
	assert.Equal(t, 0.02, cfg.RiskFreeRate)
	assert.Equal(t, 100, cfg.MCTrials)
	assert.Equal(t, 100, cfg.MCPoints)
	assert.Equal(t, int64(0), cfg.MCSeed)
	assert.Equal(t, domain.ConeExponential, cfg.ConeMethod)
	assert.Equal(t, 30, cfg.ConeFuturePoints)
	assert.Equal(t, 0.9, cfg.ConeStartPercentage)
	assert.Equal(t, 1.0, cfg.ConeStdDevA)
	assert.Equal(t, 2.0, cfg.ConeStdDevB)
	assert.Equal(t, "./data/equitylens.db", cfg.DBPath)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.IsTestnet)
	assert.Error(t, cfg.RequireExchangeCredentials())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STARTING_EQUITY", "25000")
	t.Setenv("MC_TRIALS", "500")
	t.Setenv("MC_REMOVE_HIGH", "5")
	t.Setenv("MC_SEED", "1234")
	t.Setenv("CONE_METHOD", "Linear")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_API_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 25000.0, cfg.StartingEquity)
	assert.Equal(t, 500, cfg.MCTrials)
	assert.Equal(t, 5, cfg.MCRemoveHigh)
	assert.Equal(t, int64(1234), cfg.MCSeed)
	assert.Equal(t, domain.ConeLinear, cfg.ConeMethod)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.NoError(t, cfg.RequireExchangeCredentials())
}

func TestLoadConfigCollectsValidationErrors(t *testing.T) {
	t.Setenv("STARTING_EQUITY", "-1")
	t.Setenv("MC_TRIALS", "abc")
	t.Setenv("CONE_METHOD", "cubic")
	t.Setenv("CONE_START_PERCENTAGE", "1.5")

	_, err := LoadConfig()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "STARTING_EQUITY must be positive")
	assert.Contains(t, msg, "invalid MC_TRIALS")
	assert.Contains(t, msg, "CONE_METHOD")
	assert.Contains(t, msg, "CONE_START_PERCENTAGE")
}
