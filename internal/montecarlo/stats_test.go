package montecarlo

import (
	"testing"

	"equityLens/internal/domain"
	"equityLens/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateStats(t *testing.T) {
	data := domain.MonteCarloData{
		{100, 120, 90, 150},
		{100, 80, 60, 100},
		{100, 110, 105, 95},
		{100, 130, 140, 135},
	}

	stats, err := AggregateStats(data)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.PositiveRuns)
	assert.Equal(t, 2, stats.NegativeRuns, "a path ending flat counts as negative")
	assert.Equal(t, 0.5, stats.SuccessRate)
	assert.Equal(t, 150.0, stats.MaxEquity)
	assert.Equal(t, 95.0, stats.MinEquity)
	assert.InDelta(t, 0.5, stats.MaxEquityPercent, 1e-12)
	assert.InDelta(t, -0.05, stats.MinEquityPercent, 1e-12)
	assert.Equal(t, 40.0, stats.MaxDrawdown)
	assert.InDelta(t, 0.4, stats.MaxDrawdownPercent, 1e-12)
}

func TestAggregateStatsExtremesSeededWithStart(t *testing.T) {
	stats, err := AggregateStats(domain.MonteCarloData{{100, 120, 110}, {100, 150, 105}})
	require.NoError(t, err)
	assert.Equal(t, 110.0, stats.MaxEquity)
	assert.Equal(t, 100.0, stats.MinEquity)
	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.InDelta(t, 45.0, stats.MaxDrawdown, 1e-12)
}

func TestAggregateStatsErrors(t *testing.T) {
	_, err := AggregateStats(nil)
	assert.ErrorIs(t, err, ports.ErrInsufficientData)

	_, err = AggregateStats(domain.MonteCarloData{{100}, {}})
	assert.ErrorIs(t, err, ports.ErrInsufficientData)

	_, err = AggregateStats(domain.MonteCarloData{{0, 10}})
	assert.ErrorIs(t, err, ports.ErrDegenerateDistribution)
}
