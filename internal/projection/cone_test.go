package projection

import (
	"math"
	"testing"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func dailyMetrics(equity ...float64) *domain.TradeMetrics {
	dates := make([]time.Time, len(equity))
	for i := range dates {
		dates[i] = day0.AddDate(0, 0, i)
	}
	return &domain.TradeMetrics{Dates: dates, Equity: equity, StartingEquity: equity[0]}
}

func TestLinearCone(t *testing.T) {
	// 10 points at 0.9 keeps 9 in the window; the last point is retained as a future date.
	m := dailyMetrics(100, 110, 100, 110, 100, 110, 100, 110, 100, 500)

	cone, err := LinearCone(m, ConeParams{StdDevMultiplier: 2, FuturePoints: 3, StartPercentage: 0.9})
	require.NoError(t, err)
	require.Equal(t, 3, cone.Len())
	require.Len(t, cone.UpperCone, 3)
	require.Len(t, cone.LowerCone, 3)

	// Window deltas: +10,-10,+10,-10,+10,-10,+10,-10 → mean 0, σ 10.
	last := 100.0
	for i := 0; i < 3; i++ {
		spread := math.Sqrt(float64(i+1)) * 20
		assert.InDelta(t, last+spread, cone.UpperCone[i], 1e-9)
		assert.InDelta(t, last-spread, cone.LowerCone[i], 1e-9)
	}

	assert.Equal(t, day0.AddDate(0, 0, 9), cone.FutureDates[0], "retained date is reused")
	assert.Equal(t, day0.AddDate(0, 0, 10), cone.FutureDates[1])
	assert.Equal(t, day0.AddDate(0, 0, 11), cone.FutureDates[2])
}

func TestLinearConeSymmetricAtFirstPoint(t *testing.T) {
	m := dailyMetrics(1000, 1040, 1010, 1100, 1090, 1200, 1150, 1230, 1300, 1280)
	for _, k := range []float64{1, 2, 3} {
		cone, err := LinearCone(m, ConeParams{StdDevMultiplier: k, FuturePoints: 5, StartPercentage: 0.9})
		require.NoError(t, err)

		deltas := []float64{40, -30, 90, -10, 110, -50, 80, 70}
		mean := 0.0
		for _, d := range deltas {
			mean += d
		}
		mean /= float64(len(deltas))
		center := 1300 + mean
		assert.InDelta(t, cone.UpperCone[0]-center, center-cone.LowerCone[0], 1e-9)
	}
}

func TestExponentialCone(t *testing.T) {
	// Constant 10% growth: σ = 0 and both bounds follow the mean.
	m := dailyMetrics(100, 110, 121, 133.1, 146.41)

	cone, err := ExponentialCone(m, ConeParams{StdDevMultiplier: 2, FuturePoints: 4, StartPercentage: 1})
	require.NoError(t, err)
	require.Equal(t, 4, cone.Len())
	for i := 0; i < 4; i++ {
		want := 146.41 * math.Exp(0.1*math.Sqrt(float64(i+1)))
		assert.InDelta(t, want, cone.UpperCone[i], 1e-6)
		assert.InDelta(t, want, cone.LowerCone[i], 1e-6)
	}
	assert.Equal(t, day0.AddDate(0, 0, 5), cone.FutureDates[0])
	assert.Equal(t, day0.AddDate(0, 0, 8), cone.FutureDates[3])
}

func TestExponentialConeWidensWithMultiplier(t *testing.T) {
	m := dailyMetrics(100, 105, 98, 110, 108, 120, 115, 125, 130, 128)

	bands, err := Bands(domain.ConeExponential, m, DefaultConeParams(), 1, 2)
	require.NoError(t, err)
	require.Len(t, bands, 2)
	for i := 0; i < bands[0].Len(); i++ {
		assert.Greater(t, bands[1].UpperCone[i], bands[0].UpperCone[i])
		assert.Less(t, bands[1].LowerCone[i], bands[0].LowerCone[i])
		assert.Greater(t, bands[0].UpperCone[i], bands[0].LowerCone[i])
	}
	assert.Len(t, bands[0].FutureDates, 30)
}

func TestConeTruncatesRetainedDates(t *testing.T) {
	equity := make([]float64, 40)
	for i := range equity {
		equity[i] = 100 + float64(i%3)
	}
	m := dailyMetrics(equity...)

	cone, err := Cone(domain.ConeLinear, m, ConeParams{StdDevMultiplier: 1, FuturePoints: 2, StartPercentage: 0.5})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day0.AddDate(0, 0, 20), day0.AddDate(0, 0, 21)}, cone.FutureDates)
}

func TestConeErrors(t *testing.T) {
	short := dailyMetrics(100, 110)

	_, err := ExponentialCone(short, DefaultConeParams())
	assert.ErrorIs(t, err, ports.ErrInsufficientData)

	_, err = LinearCone(short, DefaultConeParams())
	assert.ErrorIs(t, err, ports.ErrInsufficientData)

	m := dailyMetrics(100, 110, 120, 130)
	_, err = LinearCone(m, ConeParams{StdDevMultiplier: 1, FuturePoints: 0, StartPercentage: 1})
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)

	_, err = LinearCone(m, ConeParams{StdDevMultiplier: 1, FuturePoints: 3, StartPercentage: 1.5})
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)

	_, err = Cone("sideways", m, DefaultConeParams())
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)

	zero := dailyMetrics(0, 10, 20)
	_, err = ExponentialCone(zero, ConeParams{StdDevMultiplier: 1, FuturePoints: 1, StartPercentage: 1})
	assert.ErrorIs(t, err, ports.ErrDegenerateDistribution)

	mismatched := dailyMetrics(1, 2, 3)
	mismatched.Dates = mismatched.Dates[:2]
	_, err = LinearCone(mismatched, DefaultConeParams())
	assert.ErrorIs(t, err, ports.ErrLengthMismatch)
}

func TestLinearAverageEquity(t *testing.T) {
	assert.Equal(t, []float64{100, 125, 150, 175, 200}, LinearAverageEquity([]float64{100, 90, 300, 10, 200}))
	assert.Equal(t, []float64{7}, LinearAverageEquity([]float64{7}))
	assert.Nil(t, LinearAverageEquity(nil))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("linear")
	require.NoError(t, err)
	assert.Equal(t, domain.ConeLinear, m)

	_, err = ParseMethod("LOG")
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}
