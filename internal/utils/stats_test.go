package utils

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"equityLens/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanAndSum(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 10.0, Sum([]float64{1, 2, 3, 4}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"odd", []float64{5, 1, 3}, 3},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{-7}, -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedianDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, StdDev(values), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), SampleStdDev(values), 1e-12)
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, SampleStdDev([]float64{1}))
}

func TestMaxMin(t *testing.T) {
	values := []float64{3, -2, 8, 0}
	assert.Equal(t, 8.0, Max(values))
	assert.Equal(t, -2.0, Min(values))
	assert.Equal(t, 0.0, Max(nil))
}

func TestRandomIntStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		v := RandomInt(rng, 3, 6)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 6)
	}
	assert.Equal(t, 5, RandomInt(rng, 5, 5))
}

func TestWriteEquityCSV(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &domain.TradeMetrics{
		Dates:        []time.Time{base, base.Add(24 * time.Hour), base.Add(48 * time.Hour)},
		Equity:       []float64{1000, 1100, 1050},
		NetProfit:    []float64{100, -50},
		CumNetProfit: []float64{100, 50},
		ZScores:      []float64{1, -1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEquityCSV(&buf, m))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,net_profit,cum_net_profit,equity,z_score", lines[0])
	assert.Equal(t, "2024-01-01T00:00:00Z,,,1000,", lines[1])
	assert.Equal(t, "2024-01-03T00:00:00Z,-50,50,1050,-1", lines[3])
}

func TestWriteConeCSV(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cone := &domain.ProbabilityConeData{
		FutureDates: []time.Time{base},
		UpperCone:   []float64{110.5},
		LowerCone:   []float64{90.25},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteConeCSV(&buf, cone))
	assert.Equal(t, "date,upper,lower\n2024-03-01T00:00:00Z,110.5,90.25\n", buf.String())
}

func TestWriteMonteCarloCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMonteCarloCSV(&buf, domain.MonteCarloData{{10, 12}, {10, 9}}))
	assert.Equal(t, "run,step,equity\n0,0,10\n0,1,12\n1,0,10\n1,1,9\n", buf.String())
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 10.0, Percentile(sorted, 0))
	assert.Equal(t, 30.0, Percentile(sorted, 50))
	assert.Equal(t, 50.0, Percentile(sorted, 100))
	assert.InDelta(t, 12.0, Percentile(sorted, 5), 1e-9)
	assert.Equal(t, 0.0, Percentile(nil, 50))
}
