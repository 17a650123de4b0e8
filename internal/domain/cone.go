package domain

import "time"

// ProbabilityConeData is one projected confidence band.
type ProbabilityConeData struct {
	FutureDates []time.Time
	UpperCone   []float64
	LowerCone   []float64
}

// Len returns the number of projected points.
func (c ProbabilityConeData) Len() int {
	return len(c.FutureDates)
}
