package model

import (
	"fmt"
	"math"
)

// weightSumTolerance absorbs floating-point drift when checking that the
// two weights sum to one.
const weightSumTolerance = 1e-9

// Weights tunes how strongly selection favors overdue players versus
// rank fairness. Configured per guild; both values live in [0, 1] and
// must sum to one.
type Weights struct {
	Fairness float64 `koanf:"fairness"`
	Priority float64 `koanf:"priority"`
}

// DefaultWeights returns the guild default of 0.2 fairness / 0.8 priority.
func DefaultWeights() Weights {
	return Weights{Fairness: 0.2, Priority: 0.8}
}

// Validate checks the range and sum-to-one invariants. It returns an
// *InvalidWeightsError describing the first violation found.
func (w Weights) Validate() error {
	if w.Fairness < 0 || w.Fairness > 1 {
		return &InvalidWeightsError{Reason: fmt.Sprintf("fairness weight %v outside [0,1]", w.Fairness)}
	}
	if w.Priority < 0 || w.Priority > 1 {
		return &InvalidWeightsError{Reason: fmt.Sprintf("priority weight %v outside [0,1]", w.Priority)}
	}
	if math.Abs(w.Fairness+w.Priority-1) > weightSumTolerance {
		return &InvalidWeightsError{Reason: fmt.Sprintf("weights sum to %v, want 1", w.Fairness+w.Priority)}
	}
	return nil
}
