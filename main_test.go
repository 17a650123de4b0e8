package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equityLens/internal/app"
	"equityLens/internal/domain"
	"equityLens/internal/ports"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("", false)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = parseDate("2024-02-29", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2024-02-29", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), d)

	_, err = parseDate("29/02/2024", false)
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}

func TestPrintCones(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := &app.ConeResult{
		Inner: domain.ProbabilityConeData{FutureDates: []time.Time{day}, UpperCone: []float64{110}, LowerCone: []float64{90}},
		Outer: domain.ProbabilityConeData{FutureDates: []time.Time{day}, UpperCone: []float64{120}, LowerCone: []float64{80}},
	}

	var buf bytes.Buffer
	require.NoError(t, printCones(&buf, result, 1, 2))
	out := buf.String()
	assert.Contains(t, out, "LOWER 2σ")
	assert.Contains(t, out, "2024-01-01")
	assert.Regexp(t, `80\.00\s+90\.00\s+110\.00\s+120\.00`, out)
}

func TestPrintRuns(t *testing.T) {
	runs := []*ports.MonteCarloRun{{
		ID: 3, Trials: 100, Points: 50, RemovedHigh: 5, RemovedLow: 5, Seed: 42,
		Stats:     domain.MonteCarloSummaryStats{SuccessRate: 0.75, MaxDrawdownPercent: 0.125},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, printRuns(&buf, runs))
	assert.Contains(t, buf.String(), "2024-05-01T12:00:00Z")
	assert.Regexp(t, `5/5\s+42\s+75\.00%\s+12\.50%`, buf.String())
}
