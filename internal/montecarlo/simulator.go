// Package montecarlo simulates alternate equity paths by resampling historical
// trade profits with replacement, and aggregates the simulated paths.
package montecarlo

import (
	"fmt"
	"math/rand"
	"time"

	"equityLens/internal/domain"
	"equityLens/internal/ports"
	"equityLens/internal/utils"
)

// IntSource is the uniform random source used to pick trades.
// *rand.Rand satisfies it.
type IntSource interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
}

// Params describes one simulation request.
type Params struct {
	Trials         int     // Number of independent paths
	Points         int     // Trades drawn per path
	StartingEquity float64 // First value of every path
}

// DefaultParams returns 100 trials of 100 trades from 10,000.
func DefaultParams() Params {
	return Params{Trials: 100, Points: 100, StartingEquity: 10000}
}

// Simulator draws equity paths from a random source. A Simulator is not safe
// for concurrent use when its source is not.
type Simulator struct {
	rng IntSource
}

// NewSimulator creates a simulator seeded with seed, or with the current time
// when seed is 0.
func NewSimulator(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// NewSimulatorWithSource creates a simulator drawing from src.
func NewSimulatorWithSource(src IntSource) *Simulator {
	return &Simulator{rng: src}
}

// SimulatePath starts at startingEquity and adds points randomly drawn
// profits, sampling with replacement. The path has points+1 values.
func (s *Simulator) SimulatePath(profitData []float64, points int, startingEquity float64) ([]float64, error) {
	if len(profitData) == 0 {
		return nil, fmt.Errorf("simulate path: %w: no profit data", ports.ErrInsufficientData)
	}
	if points < 0 {
		return nil, fmt.Errorf("simulate path: %w: points must not be negative, got %d", ports.ErrInvalidRequest, points)
	}

	path := make([]float64, 0, points+1)
	equity := startingEquity
	path = append(path, equity)
	for i := 0; i < points; i++ {
		equity += profitData[utils.RandomInt(s.rng, 0, len(profitData)-1)]
		path = append(path, equity)
	}
	return path, nil
}

// SimulateTrials runs p.Trials independent paths. Paths are returned in the
// order they were drawn.
func (s *Simulator) SimulateTrials(profitData []float64, p Params) (domain.MonteCarloData, error) {
	if p.Trials < 1 {
		return nil, fmt.Errorf("simulate trials: %w: trials must be positive, got %d", ports.ErrInvalidRequest, p.Trials)
	}
	data := make(domain.MonteCarloData, 0, p.Trials)
	for i := 0; i < p.Trials; i++ {
		path, err := s.SimulatePath(profitData, p.Points, p.StartingEquity)
		if err != nil {
			return nil, fmt.Errorf("simulate trials: trial %d: %w", i, err)
		}
		data = append(data, path)
	}
	return data, nil
}
