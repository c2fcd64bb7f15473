package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound     = errors.New("battle tag not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
