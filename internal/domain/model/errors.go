package model

import "errors"

// Sentinel kinds for model errors. These allow errors.Is/As from callers.
var (
	ErrInvalidWeights = errors.New("invalid matchmaking weights")
)

// InvalidWeightsError reports a weights pair that failed validation.
// It should surface at configuration write time, not at match time.
type InvalidWeightsError struct {
	Reason string
}

func (e *InvalidWeightsError) Error() string {
	return "invalid matchmaking weights: " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidWeights) work for this type.
func (e *InvalidWeightsError) Is(target error) bool {
	return target == ErrInvalidWeights
}
