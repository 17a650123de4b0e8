package montecarlo

import (
	"testing"

	"equityLens/internal/domain"
	"equityLens/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageOfArrays(t *testing.T) {
	avg, err := AverageOfArrays([][]float64{{1, 2, 3}, {3, 2, 1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, avg)

	_, err = AverageOfArrays([][]float64{{1, 2}, {1, 2, 3}})
	assert.ErrorIs(t, err, ports.ErrLengthMismatch)

	_, err = AverageOfArrays(nil)
	assert.ErrorIs(t, err, ports.ErrInsufficientData)
}

func TestSortAndTrimRuns(t *testing.T) {
	data := domain.MonteCarloData{
		{100, 90},
		{100, 130},
		{100, 110},
		{100, 70},
		{100, 120},
	}

	sorted := SortByTerminalDescending(data)
	finals := make([]float64, len(sorted))
	for i, p := range sorted {
		finals[i] = p[len(p)-1]
	}
	assert.Equal(t, []float64{130, 120, 110, 90, 70}, finals)
	assert.Equal(t, 90.0, data[0][1], "input order is preserved")

	trimmed, err := TrimRuns(sorted, 1, 2)
	require.NoError(t, err)
	require.Len(t, trimmed, 2)
	assert.Equal(t, 120.0, trimmed[0][1])
	assert.Equal(t, 110.0, trimmed[1][1])

	untouched, err := TrimRuns(sorted, 0, 0)
	require.NoError(t, err)
	assert.Len(t, untouched, 5)

	_, err = TrimRuns(sorted, 3, 2)
	assert.ErrorIs(t, err, ports.ErrInsufficientData)

	_, err = TrimRuns(sorted, -1, 0)
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}

func TestTerminalPercentiles(t *testing.T) {
	data := domain.MonteCarloData{{0, 30}, {0, 10}, {0, 50}, {0, 20}, {0, 40}}
	got, err := TerminalPercentiles(data, 0, 50, 100)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 30, 50}, got)

	_, err = TerminalPercentiles(data, 101)
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}
