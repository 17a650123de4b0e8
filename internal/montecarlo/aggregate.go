package montecarlo

import (
	"fmt"
	"sort"

	"equityLens/internal/domain"
	"equityLens/internal/ports"
	"equityLens/internal/utils"
)

// AverageOfArrays returns the elementwise mean of equal-length paths.
func AverageOfArrays(paths [][]float64) ([]float64, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("average paths: %w: no paths", ports.ErrInsufficientData)
	}
	n := len(paths[0])
	for i, p := range paths[1:] {
		if len(p) != n {
			return nil, fmt.Errorf("average paths: %w: path %d has %d points, path 0 has %d",
				ports.ErrLengthMismatch, i+1, len(p), n)
		}
	}

	avg := make([]float64, n)
	for _, p := range paths {
		for j, v := range p {
			avg[j] += v
		}
	}
	for j := range avg {
		avg[j] /= float64(len(paths))
	}
	return avg, nil
}

func terminal(path []float64) float64 {
	if len(path) == 0 {
		return 0
	}
	return path[len(path)-1]
}

// SortByTerminalDescending returns a copy of data ordered by final equity,
// best path first. Paths with equal final equity keep their order.
func SortByTerminalDescending(data domain.MonteCarloData) domain.MonteCarloData {
	sorted := make(domain.MonteCarloData, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return terminal(sorted[i]) > terminal(sorted[j])
	})
	return sorted
}

// TrimRuns drops the removeHigh best and removeLow worst paths from data
// sorted by SortByTerminalDescending.
func TrimRuns(sorted domain.MonteCarloData, removeHigh, removeLow int) (domain.MonteCarloData, error) {
	if removeHigh < 0 || removeLow < 0 {
		return nil, fmt.Errorf("trim runs: %w: counts must not be negative (high %d, low %d)",
			ports.ErrInvalidRequest, removeHigh, removeLow)
	}
	if removeHigh+removeLow >= len(sorted) {
		return nil, fmt.Errorf("trim runs: %w: removing %d of %d paths",
			ports.ErrInsufficientData, removeHigh+removeLow, len(sorted))
	}
	return sorted[removeHigh : len(sorted)-removeLow], nil
}

// TerminalPercentiles returns the requested percentiles (0-100) of the final
// equity of every path, using linear interpolation.
func TerminalPercentiles(data domain.MonteCarloData, percentiles ...float64) ([]float64, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("terminal percentiles: %w: no paths", ports.ErrInsufficientData)
	}
	finals := make([]float64, len(data))
	for i, path := range data {
		finals[i] = terminal(path)
	}
	sort.Float64s(finals)

	out := make([]float64, len(percentiles))
	for i, p := range percentiles {
		if p < 0 || p > 100 {
			return nil, fmt.Errorf("terminal percentiles: %w: percentile %v outside [0, 100]", ports.ErrInvalidRequest, p)
		}
		out[i] = utils.Percentile(finals, p)
	}
	return out, nil
}
